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

	"github.com/roomatch/roomatch-backend/internal/model"
)

var prefCols = []string{"id", "user_id", "location", "gender", "occupation", "attrs", "user_name", "user_image", "created_at", "updated_at"}

func TestPreferenceGetByUserIDDecodesAttributeBag(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(prefCols).
		AddRow(1, 42, "Berlin", "female", "engineer",
			[]byte(`{"cleanliness":"high","night_owl":"no"}`), "Ana", "https://cdn/a.png", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM preferences WHERE user_id=? LIMIT 1")).
		WithArgs(uint64(42)).
		WillReturnRows(rows)

	repo := NewPreferenceRepo(db)
	p, err := repo.GetByUserID(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), p.UserID)
	assert.Equal(t, "Berlin", p.Location)
	assert.Equal(t, map[string]string{"cleanliness": "high", "night_owl": "no"}, p.Attributes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceGetByUserIDMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM preferences WHERE user_id=? LIMIT 1")).
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)

	repo := NewPreferenceRepo(db)
	_, err = repo.GetByUserID(context.Background(), 7)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPreferenceUpsertWritesWholeRecordAndReadsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO preferences .+ON DUPLICATE KEY UPDATE").
		WithArgs(uint64(42), "Berlin", "female", "engineer",
			[]byte(`{"cleanliness":"high"}`), "Ana", "https://cdn/a.png").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM preferences WHERE user_id=? LIMIT 1")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows(prefCols).
			AddRow(1, 42, "Berlin", "female", "engineer",
				[]byte(`{"cleanliness":"high"}`), "Ana", "https://cdn/a.png", now, now))

	repo := NewPreferenceRepo(db)
	saved, err := repo.Upsert(context.Background(), model.Preference{
		UserID:     42,
		Location:   "Berlin",
		Gender:     "female",
		Occupation: "engineer",
		Attributes: map[string]string{"cleanliness": "high"},
		UserName:   "Ana",
		UserImage:  "https://cdn/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), saved.ID)
	assert.Equal(t, "high", saved.Attributes["cleanliness"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceFindCandidatesFiltersCaseInsensitively(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(prefCols).
		AddRow(2, 5, "nyc", "FEMALE", "designer",
			[]byte(`{"smoker":"no"}`), "Mia", "", now, now)

	// The SQL folds both sides, so "NYC" from the caller matches "nyc" rows,
	// and the caller's own record is excluded in the query itself.
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(gender)=LOWER(?) AND LOWER(location)=LOWER(?) AND user_id<>?")).
		WithArgs("Female", "NYC", uint64(42)).
		WillReturnRows(rows)

	repo := NewPreferenceRepo(db)
	got, err := repo.FindCandidates(context.Background(), 42, "Female", "NYC")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, uint64(5), got[0].UserID)
	assert.NotEqual(t, uint64(42), got[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
