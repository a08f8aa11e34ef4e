package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/roomatch/roomatch-backend/internal/model"
)

// TokenRepo stores the refresh-token sessions behind the auth endpoints.
// Only the SHA-256 hash of a token ever reaches the refresh_tokens table;
// the raw value lives with the client. A row is dead once revoked_at is set
// or expires_at has passed, and dead rows behave exactly like missing ones.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a freshly issued token hash for the user. Each
// login/refresh adds a row, so a user with several devices holds several
// concurrent sessions.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

func (r *TokenRepo) getByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var (
		t       model.RefreshToken
		revoked sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, revoked_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &revoked, &t.CreatedAt)
	if err != nil {
		return model.RefreshToken{}, err
	}
	if revoked.Valid {
		t.RevokedAt = &revoked.Time
	}
	return t, nil
}

// ValidateRefresh resolves a token hash to its owning user. Revoked and
// expired sessions report sql.ErrNoRows, indistinguishable from a hash that
// was never issued, so handlers map every failure to the same 401.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	t, err := r.getByHash(ctx, tokenHash)
	if err != nil {
		return 0, err
	}
	if !t.Active(time.Now().UTC()) {
		return 0, sql.ErrNoRows
	}
	return t.UserID, nil
}

// RevokeByHash retires a single session. Used on logout and on refresh-token
// rotation; already-revoked rows are left untouched.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser retires every active session the user holds, on every
// device at once. Backs the logout-everywhere endpoint.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
