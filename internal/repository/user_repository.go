package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/roomatch/roomatch-backend/internal/model"
	"github.com/roomatch/roomatch-backend/internal/utils"
)

// UserRepo reads and writes rows of the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,email,password_hash,name,avatar_url,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, name, avatarURL string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, name, avatar_url) VALUES (?,?,?,?)",
		email, hash, name, avatarURL)
	if err != nil {
		// MySQL duplicate-key error code in the driver message
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// ListOthers returns every user except the given one. Backs the browse-all
// screen; match candidates go through PreferenceRepo.FindCandidates instead.
func (r *UserRepo) ListOthers(ctx context.Context, excludeID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id<>? ORDER BY id", excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfile changes a user's display name and avatar and, in the same
// transaction, refreshes the denormalized copies cached on the user's
// preference row. Keeping both writes in one transaction is what prevents
// the cached user_name/user_image from going stale after a rename.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, avatarURL string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET name=?, avatar_url=? WHERE id=?", name, avatarURL, id); err != nil {
		return err
	}
	// No-op when the user has not saved preferences yet.
	if _, err := tx.ExecContext(ctx,
		"UPDATE preferences SET user_name=?, user_image=? WHERE user_id=?", name, avatarURL, id); err != nil {
		return err
	}
	return tx.Commit()
}
