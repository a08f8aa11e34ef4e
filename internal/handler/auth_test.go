package handler

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomatch/roomatch-backend/internal/config"
	"github.com/roomatch/roomatch-backend/internal/repository"
)

func TestLogoutAllRevokesEverySession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL")).
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	h := NewAuthHandler(config.Config{}, repository.NewUserRepo(db), repository.NewTokenRepo(db))

	c, rec := newChatCtx(t, http.MethodPost, "/v1/auth/logout_all", "", 9)
	require.NoError(t, h.LogoutAll(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
