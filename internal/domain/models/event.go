// internal/domain/models/event.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses. Historically created events may still carry "new";
// filtering treats it as an alias for "active".
const (
	EventStatusActive    = "active"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"

	// EventStatusLegacyNew is accepted on read but never written.
	EventStatusLegacyNew = "new"
)

// Event is a scheduled event stored in the events collection.
//
// Archived is an independent axis from Status: archiving never changes
// the status, and a completed event can be archived or not. Deletion is
// permitted only while archived (enforced by lifecycle, not just UI).
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	// CaseID references a Case. The reference is non-owning and is
	// validated only at display time via the PII lookup.
	CaseID string `bson:"case_id" json:"case_id"`

	Date     time.Time `bson:"date" json:"date"`
	Status   string    `bson:"status" json:"status"`
	Archived bool      `bson:"archived" json:"archived"`

	CreatedBy string `bson:"created_by" json:"created_by"`

	// CalendarEventID correlates this event with a best-effort copy in
	// an external calendar. Empty when sync never succeeded.
	CalendarEventID string `bson:"calendar_event_id,omitempty" json:"calendar_event_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsActiveStatus reports whether s counts as active for filtering,
// folding case and the legacy "new" alias.
func IsActiveStatus(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == EventStatusActive || s == EventStatusLegacyNew
}

// IsValidEventStatus reports whether s is a status the console may write.
func IsValidEventStatus(s string) bool {
	switch s {
	case EventStatusActive, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}
