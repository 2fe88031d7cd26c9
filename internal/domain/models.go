// Package domain defines the persistence models for profiles, interests,
// matches, and messages. These types are mapped with GORM and form the core
// data layer of the GymConnect backend.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Experience levels accepted on a profile.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// Preferred training time slots accepted on a profile.
const (
	TimeSlotMorning   = "morning"
	TimeSlotAfternoon = "afternoon"
	TimeSlotEvening   = "evening"
)

// MaxObjectives caps the number of training objectives per profile.
const MaxObjectives = 3

// UserProfile represents a registered user of the app. The ID is the opaque
// subject identifier minted by the external identity provider; this service
// never creates or verifies credentials.
//
// Set-valued attributes (objectives, preferred time slots, unlocked
// achievements) are stored as JSON arrays.
type UserProfile struct {
	ID             string                     `json:"id"              gorm:"type:varchar(64);primaryKey"`
	DisplayName    string                     `json:"display_name"    gorm:"type:varchar(64);not null"`
	PhotoURL       string                     `json:"photo_url"       gorm:"type:varchar(512)"`
	Location       string                     `json:"location"        gorm:"type:varchar(128)"`
	Objectives     datatypes.JSONSlice[string] `json:"objectives"`
	Experience     string                     `json:"experience"      gorm:"type:varchar(16)"`
	PreferredTimes datatypes.JSONSlice[string] `json:"preferred_times"`
	Achievements   datatypes.JSONSlice[string] `json:"achievements"`
	LoginStreak    int                        `json:"login_streak"`
	LastActiveAt   time.Time                  `json:"last_active_at"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

// TableName returns the database table name for UserProfile.
func (UserProfile) TableName() string { return "user_profiles" }

// Summary is the public projection of a profile, used in feed and
// conversation listings.
type Summary struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	Location    string   `json:"location,omitempty"`
	Objectives  []string `json:"objectives,omitempty"`
	Experience  string   `json:"experience,omitempty"`
}

// Summary returns the public projection of p.
func (p *UserProfile) Summary() Summary {
	return Summary{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
		Location:    p.Location,
		Objectives:  p.Objectives,
		Experience:  p.Experience,
	}
}

// Interest records a one-directional expression of interest from SubjectID
// toward TargetID. The (subject_id, target_id) pair is unique: recording the
// same interest twice is a no-op that keeps the original row. Interests are
// immutable once created; there is no retraction.
type Interest struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	SubjectID string    `json:"subject_id" gorm:"type:varchar(64);not null;uniqueIndex:ux_interest_pair,priority:1;index:idx_interest_subject"`
	TargetID  string    `json:"target_id"  gorm:"type:varchar(64);not null;uniqueIndex:ux_interest_pair,priority:2;index:idx_interest_target"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Interest.
func (Interest) TableName() string { return "interests" }

// Match represents mutual interest between exactly two users. UserA and UserB
// are stored in canonical (lexicographic) order and PairKey is the canonical
// "a:b" form, carrying a unique index so concurrent reciprocal likes can
// never materialize the same pair twice.
type Match struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserA     string    `json:"user_a"     gorm:"type:varchar(64);not null;index:idx_match_user_a"`
	UserB     string    `json:"user_b"     gorm:"type:varchar(64);not null;index:idx_match_user_b"`
	PairKey   string    `json:"-"          gorm:"type:varchar(130);not null;uniqueIndex:ux_match_pair"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Match.
func (Match) TableName() string { return "matches" }

// Involves reports whether userID is one of the match's two participants.
func (m *Match) Involves(userID string) bool {
	return m.UserA == userID || m.UserB == userID
}

// Counterpart returns the other participant of the match relative to userID.
func (m *Match) Counterpart(userID string) string {
	if m.UserA == userID {
		return m.UserB
	}
	return m.UserA
}

// CanonicalPair orders two user ids lexicographically.
func CanonicalPair(x, y string) (a, b string) {
	if x < y {
		return x, y
	}
	return y, x
}

// PairKeyFor builds the canonical pair key for an unordered pair of user ids.
func PairKeyFor(x, y string) string {
	a, b := CanonicalPair(x, y)
	return a + ":" + b
}

// Message represents one chat utterance inside a match. CreatedAt is assigned
// by the server and is monotonically non-decreasing within a match, which
// together with the ID tiebreak yields a single total order per conversation.
// Messages are immutable; there is no edit or delete flow.
type Message struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	MatchID   string    `json:"match_id"   gorm:"type:char(36);not null;index:idx_match_msgs,priority:1"`
	SenderID  string    `json:"sender_id"  gorm:"type:varchar(64);not null"`
	Body      string    `json:"body"       gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_match_msgs,priority:2"`

	// Match is the parent pairing. Messages are cascade-deleted when the
	// match is removed.
	Match Match `json:"-" gorm:"foreignKey:MatchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }
