package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roomatch/roomatch-backend/internal/middleware"
	"github.com/roomatch/roomatch-backend/internal/model"
	"github.com/roomatch/roomatch-backend/internal/repository"
)

// PreferenceHandler serves the caller's own living-preference record.
type PreferenceHandler struct {
	Users *repository.UserRepo
	Prefs *repository.PreferenceRepo
}

func NewPreferenceHandler(u *repository.UserRepo, p *repository.PreferenceRepo) *PreferenceHandler {
	return &PreferenceHandler{Users: u, Prefs: p}
}

type savePreferenceReq struct {
	Location   string            `json:"location"`
	Gender     string            `json:"gender"`
	Occupation string            `json:"occupation"`
	Attributes map[string]string `json:"preferences"`
}

// Get returns the caller's preference record, or the empty-defaults shape
// when none has been saved yet so clients can render a blank form.
func (h *PreferenceHandler) Get(c echo.Context) error {
	uid := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pref, err := h.Prefs.GetByUserID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusOK, model.EmptyPreference())
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, pref)
}

// Save creates or replaces the caller's preference record wholesale. The
// owner's current name and avatar are read from the users table and cached
// onto the row for join-free candidate listings; a missing owner is a 404,
// distinct from a generic failure.
func (h *PreferenceHandler) Save(c echo.Context) error {
	uid := middleware.UserID(c)

	var req savePreferenceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Attributes == nil {
		req.Attributes = map[string]string{}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	saved, err := h.Prefs.Upsert(ctx, model.Preference{
		UserID:     uid,
		Location:   strings.TrimSpace(req.Location),
		Gender:     strings.TrimSpace(req.Gender),
		Occupation: strings.TrimSpace(req.Occupation),
		Attributes: req.Attributes,
		UserName:   u.Name,
		UserImage:  u.AvatarURL,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, saved)
}
