package handler

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roomatch/roomatch-backend/internal/match"
	"github.com/roomatch/roomatch-backend/internal/middleware"
	"github.com/roomatch/roomatch-backend/internal/model"
	"github.com/roomatch/roomatch-backend/internal/repository"
)

// MatchHandler serves the ranked candidate list. Candidate selection is
// two-phase: the repository narrows by gender and location (case-insensitive,
// indexable), then this handler scores each survivor's attribute bag against
// the caller's and sorts by the result.
type MatchHandler struct {
	Prefs *repository.PreferenceRepo
}

func NewMatchHandler(p *repository.PreferenceRepo) *MatchHandler { return &MatchHandler{Prefs: p} }

// scoredCandidate is a candidate preference record plus its computed
// compatibility percentage.
type scoredCandidate struct {
	model.Preference
	MatchPercent int `json:"match_percent"`
}

// List returns the caller's candidates ranked by compatibility, best first.
// A caller with no saved preferences gets an empty list, not an error: the
// declared no-match-without-preferences policy.
func (h *MatchHandler) List(c echo.Context) error {
	uid := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	own, err := h.Prefs.GetByUserID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusOK, []scoredCandidate{})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	candidates, err := h.Prefs.FindCandidates(ctx, uid, own.Gender, own.Location)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]scoredCandidate, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, scoredCandidate{
			Preference:   cand,
			MatchPercent: match.Score(own.Attributes, cand.Attributes),
		})
	}
	// Best match first; user id as a stable tiebreak.
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchPercent != out[j].MatchPercent {
			return out[i].MatchPercent > out[j].MatchPercent
		}
		return out[i].UserID < out[j].UserID
	})
	return c.JSON(http.StatusOK, out)
}
