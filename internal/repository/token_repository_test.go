package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenCols = []string{"id", "user_id", "token_hash", "expires_at", "revoked_at", "created_at"}

func TestTokenValidateRefreshResolvesActiveSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=? LIMIT 1")).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(tokenCols).
			AddRow(1, 42, "abc", now.Add(time.Hour), nil, now))

	repo := NewTokenRepo(db)
	uid, err := repo.ValidateRefresh(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenValidateRefreshRejectsDeadSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	query := regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=? LIMIT 1")

	// Revoked and expired rows behave exactly like missing ones.
	mock.ExpectQuery(query).WithArgs("revoked").
		WillReturnRows(sqlmock.NewRows(tokenCols).
			AddRow(1, 42, "revoked", now.Add(time.Hour), now, now))
	mock.ExpectQuery(query).WithArgs("expired").
		WillReturnRows(sqlmock.NewRows(tokenCols).
			AddRow(2, 42, "expired", now.Add(-time.Minute), nil, now))
	mock.ExpectQuery(query).WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	repo := NewTokenRepo(db)
	for _, hash := range []string{"revoked", "expired", "unknown"} {
		_, err := repo.ValidateRefresh(context.Background(), hash)
		assert.ErrorIs(t, err, sql.ErrNoRows, hash)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRevokeAllForUserRetiresEverySession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewTokenRepo(db)
	require.NoError(t, repo.RevokeAllForUser(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
