package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomatch/roomatch-backend/internal/repository"
)

func TestMatchListRanksCandidatesBestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	cols := []string{"id", "user_id", "location", "gender", "occupation", "attrs", "user_name", "user_image", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM preferences WHERE user_id=? LIMIT 1")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 1, "Berlin", "female", "engineer",
				[]byte(`{"cleanliness":"high","night_owl":"no","smoker":"no"}`), "Ana", "", now, now))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(gender)=LOWER(?) AND LOWER(location)=LOWER(?) AND user_id<>?")).
		WithArgs("female", "Berlin", uint64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, 5, "Berlin", "female", "designer",
				[]byte(`{"cleanliness":"high","night_owl":"yes","smoker":"no"}`), "Mia", "", now, now).
			AddRow(3, 6, "Berlin", "female", "nurse",
				[]byte(`{"cleanliness":"HIGH","night_owl":"no","smoker":"no"}`), "Leo", "", now, now).
			AddRow(4, 7, "Berlin", "female", "chef",
				[]byte(`{"cleanliness":"low","night_owl":"yes","smoker":"yes"}`), "Kim", "", now, now))

	h := NewMatchHandler(repository.NewPreferenceRepo(db))

	c, rec := newChatCtx(t, http.MethodGet, "/v1/matches", "", 1)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []struct {
		UserID       uint64 `json:"user_id"`
		MatchPercent int    `json:"match_percent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)

	// User 6 matches all three attributes case-insensitively, user 5 two of
	// three, user 7 none.
	assert.Equal(t, uint64(6), got[0].UserID)
	assert.Equal(t, 100, got[0].MatchPercent)
	assert.Equal(t, uint64(5), got[1].UserID)
	assert.Equal(t, 67, got[1].MatchPercent)
	assert.Equal(t, uint64(7), got[2].UserID)
	assert.Equal(t, 0, got[2].MatchPercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchListWithoutOwnPreferencesIsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM preferences WHERE user_id=? LIMIT 1")).
		WithArgs(uint64(1)).
		WillReturnError(sql.ErrNoRows)

	h := NewMatchHandler(repository.NewPreferenceRepo(db))

	c, rec := newChatCtx(t, http.MethodGet, "/v1/matches", "", 1)
	require.NoError(t, h.List(c))

	// No saved preferences means no candidates, not an error.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
