// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity action tags.
const (
	ActionCaseCreated        = "case_created"
	ActionCaseDeleted        = "case_deleted"
	ActionEventStatusUpdated = "event_status_updated"
	ActionEventArchived      = "event_archived"
	ActionEventUnarchived    = "event_unarchived"
	ActionEventDeleted       = "event_deleted"
	ActionMeeting            = "meeting"
	ActionStatusUpdated      = "status_updated"
)

// ActivityEntry is an immutable, append-only audit record of a
// state-changing action. Entries are never updated after creation; a
// privileged role may delete one as explicit remediation (for example,
// entries orphaned from a deleted case).
type ActivityEntry struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// CaseID is optional: entries may outlive their case and dangle.
	CaseID string `bson:"case_id,omitempty" json:"case_id,omitempty"`

	Note   string `bson:"note" json:"note"`
	Action string `bson:"action" json:"action"`

	CreatedBy string `bson:"created_by" json:"created_by"`

	// CreatedByEmail is resolved at write time, falling back to
	// "unknown" when the identity lookup fails.
	CreatedByEmail string `bson:"created_by_email" json:"created_by_email"`

	// NonEditable marks denormalized meeting entries written by event
	// creation; they carry the day's date, title, and notes.
	NonEditable bool `bson:"non_editable,omitempty" json:"non_editable,omitempty"`

	MeetingDate        string `bson:"meeting_date,omitempty" json:"meeting_date,omitempty"`
	MeetingDescription string `bson:"meeting_description,omitempty" json:"meeting_description,omitempty"`
	MeetingNotes       string `bson:"meeting_notes,omitempty" json:"meeting_notes,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
