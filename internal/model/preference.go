package model

import "time"

// Preference holds a user's living preferences as stored in the
// `preferences` table. Each user has at most one row (unique key on
// user_id); saving preferences replaces the record wholesale rather than
// patching individual fields.
//
// Location and Gender are free-text but compared case-insensitively when
// selecting match candidates. Occupation is display-only. Attributes is an
// open bag of lifestyle keys (cleanliness, night_owl, smoker, ...) stored as
// a JSON column so new keys never require a schema migration; fine-grained
// matching over these keys happens in application code, not in SQL.
//
// UserName and UserImage are denormalized copies of the owner's display
// fields, cached here so candidate listings render without a join. They are
// derived data: refreshed on every preference save and whenever the owner
// updates their profile, never authoritative on their own.
//
// Fields:
//
//	UserID     – owner, unique (preferences.user_id).
//	Location   – preferences.location, case-folded in candidate filters.
//	Gender     – preferences.gender, case-folded in candidate filters.
//	Occupation – preferences.occupation, display-only.
//	Attributes – preferences.attrs JSON, open attribute bag.
//	UserName   – denormalized owner name (preferences.user_name).
//	UserImage  – denormalized owner avatar (preferences.user_image).
type Preference struct {
	ID         uint64            `json:"id"`          // preferences.id
	UserID     uint64            `json:"user_id"`     // preferences.user_id
	Location   string            `json:"location"`    // preferences.location
	Gender     string            `json:"gender"`      // preferences.gender
	Occupation string            `json:"occupation"`  // preferences.occupation
	Attributes map[string]string `json:"preferences"` // preferences.attrs (JSON)
	UserName   string            `json:"user_name"`   // preferences.user_name
	UserImage  string            `json:"user_image"`  // preferences.user_image
	CreatedAt  time.Time         `json:"created_at"`  // preferences.created_at
	UpdatedAt  time.Time         `json:"updated_at"`  // preferences.updated_at
}

// EmptyPreference is the shape returned to a user who has not saved
// preferences yet, so clients can render a blank form instead of handling a
// missing-record case.
func EmptyPreference() Preference {
	return Preference{
		Attributes: map[string]string{"cleanliness": "", "night_owl": "", "smoker": ""},
	}
}
