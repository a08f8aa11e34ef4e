package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/roomatch/roomatch-backend/internal/model"
)

// PreferenceRepo provides CRUD over the preferences table. Every user owns
// at most one row (unique key on user_id); Upsert replaces the record
// wholesale. The open attribute bag is stored in the attrs JSON column and
// (de)serialized here so callers only ever see map[string]string.
type PreferenceRepo struct {
	db *sql.DB
}

// NewPreferenceRepo returns a new PreferenceRepo bound to the given database.
func NewPreferenceRepo(db *sql.DB) *PreferenceRepo { return &PreferenceRepo{db: db} }

const prefColumns = "id,user_id,location,gender,occupation,attrs,user_name,user_image,created_at,updated_at"

func scanPreference(scan func(dest ...any) error) (model.Preference, error) {
	var (
		p     model.Preference
		attrs []byte
	)
	if err := scan(&p.ID, &p.UserID, &p.Location, &p.Gender, &p.Occupation, &attrs,
		&p.UserName, &p.UserImage, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return model.Preference{}, err
	}
	p.Attributes = map[string]string{}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &p.Attributes); err != nil {
			return model.Preference{}, err
		}
	}
	return p, nil
}

// GetByUserID returns the preference row owned by the given user, or
// sql.ErrNoRows when the user has not saved preferences yet.
func (r *PreferenceRepo) GetByUserID(ctx context.Context, userID uint64) (model.Preference, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+prefColumns+" FROM preferences WHERE user_id=? LIMIT 1", userID)
	return scanPreference(row.Scan)
}

// Upsert creates or replaces the user's preference record and returns the
// stored row. The owner's current name and avatar are written alongside as a
// denormalized read cache; the caller supplies them from the users table so
// the copy is fresh as of this save.
func (r *PreferenceRepo) Upsert(ctx context.Context, p model.Preference) (model.Preference, error) {
	attrs, err := json.Marshal(p.Attributes)
	if err != nil {
		return model.Preference{}, err
	}
	const q = `INSERT INTO preferences (user_id, location, gender, occupation, attrs, user_name, user_image)
VALUES (?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
location=VALUES(location), gender=VALUES(gender), occupation=VALUES(occupation),
attrs=VALUES(attrs), user_name=VALUES(user_name), user_image=VALUES(user_image)`
	if _, err := r.db.ExecContext(ctx, q,
		p.UserID, p.Location, p.Gender, p.Occupation, attrs, p.UserName, p.UserImage); err != nil {
		return model.Preference{}, err
	}
	// Read the row back so the caller gets DB-assigned id and timestamps.
	return r.GetByUserID(ctx, p.UserID)
}

// FindCandidates returns every other user's preference row that shares the
// caller's declared gender and location, compared case-insensitively. This is
// the coarse, indexable half of the two-phase match design; ranking over the
// open attribute bag happens afterwards in application code. Result order is
// unspecified.
func (r *PreferenceRepo) FindCandidates(ctx context.Context, callerID uint64, gender, location string) ([]model.Preference, error) {
	const q = "SELECT " + prefColumns + ` FROM preferences
WHERE LOWER(gender)=LOWER(?) AND LOWER(location)=LOWER(?) AND user_id<>?`
	rows, err := r.db.QueryContext(ctx, q, gender, location, callerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Preference, 0)
	for rows.Next() {
		p, err := scanPreference(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
