// Package lifecycle enacts the event and case state machines.
//
// Transitions are unconstrained (any state is reachable from any other)
// and always user-initiated. Every event transition appends an
// immutable activity entry; case status changes write directly with no
// entry. Calendar-provider sync is best-effort throughout: failures are
// logged and swallowed, never surfaced as operation failures.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/clinichub/internal/app/store/events"
	"github.com/dalemusser/clinichub/internal/app/system/auditlog"
	"github.com/dalemusser/clinichub/internal/app/system/caseid"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrForbidden is returned when a standard user attempts an action
	// reserved for the privileged role or the record's creator. The
	// check lives here, not only in the UI affordance.
	ErrForbidden = errors.New("not allowed")

	// ErrNotArchived is returned when deleting an event that has not
	// been archived first.
	ErrNotArchived = errors.New("event must be archived before deletion")

	// ErrPIIWriteFailed wraps a failed PII write during case creation.
	// The case document already exists at that point; the inconsistency
	// is documented, reported, and never silently hidden.
	ErrPIIWriteFailed = errors.New("case created but PII record write failed")
)

// CaseStore is the case-document boundary of the controller.
type CaseStore interface {
	GetByID(ctx context.Context, caseID string) (*models.Case, error)
	Create(ctx context.Context, c models.Case) (models.Case, error)
	UpdateStatus(ctx context.Context, caseID, status string) error
	Delete(ctx context.Context, caseID string) (int64, error)
}

// EventStore is the event-document boundary of the controller.
type EventStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	Create(ctx context.Context, e models.Event) (models.Event, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error
	SetCalendarEventID(ctx context.Context, id primitive.ObjectID, calendarEventID string) error
	Update(ctx context.Context, id primitive.ObjectID, upd events.EventUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// PIIStore is the relational-store boundary of the controller.
type PIIStore interface {
	Create(ctx context.Context, p models.Patient) error
	NextCaseID(ctx context.Context) (int, error)
}

// CalendarSyncer mirrors events into an external calendar, best-effort.
type CalendarSyncer interface {
	CreateEvent(ctx context.Context, title, description string, date time.Time) (string, error)
	DeleteEvent(ctx context.Context, calendarEventID string) error
}

// ActivityDeleter removes activity entries (privileged remediation).
type ActivityDeleter interface {
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Controller orchestrates lifecycle transitions across the gateways.
type Controller struct {
	Cases    CaseStore
	Events   EventStore
	PII      PIIStore
	Calendar CalendarSyncer
	Activity *auditlog.Logger
	Entries  ActivityDeleter
	Log      *zap.Logger
}

// NewCaseInput carries everything needed to create a case plus its PII
// counterpart.
type NewCaseInput struct {
	Notes          string
	AssignedAdmins []string
	Patient        models.Patient
}

// CreateCase allocates a case identifier, writes the case document,
// appends the case_created entry, then writes the PII record. A PII
// failure is returned to the caller even though the document persists;
// there is no rollback across stores.
func (c *Controller) CreateCase(ctx context.Context, actor models.User, in NewCaseInput) (models.Case, error) {
	id := c.allocateCaseID(ctx)

	created, err := c.Cases.Create(ctx, models.Case{
		CaseID:         id,
		Status:         models.CaseStatusNew,
		CreatedBy:      actor.UID,
		AssignedAdmins: in.AssignedAdmins,
		Notes:          in.Notes,
	})
	if err != nil {
		return models.Case{}, fmt.Errorf("create case document: %w", err)
	}

	c.Activity.CaseCreated(ctx, created.CaseID, actor.UID)

	in.Patient.CaseID = created.CaseID
	if err := c.PII.Create(ctx, in.Patient); err != nil {
		c.Log.Error("PII write failed after case document write",
			zap.String("case_id", created.CaseID),
			zap.Error(err))
		return created, fmt.Errorf("%w: %v", ErrPIIWriteFailed, err)
	}
	return created, nil
}

// allocateCaseID asks the PII store for the next sequence number and
// falls back to timestamp+random allocation when that fails.
func (c *Controller) allocateCaseID(ctx context.Context) string {
	n, err := c.PII.NextCaseID(ctx)
	if err != nil {
		c.Log.Warn("case id sequence unavailable, using fallback allocation", zap.Error(err))
		return caseid.Fallback()
	}
	return caseid.Format(n)
}

// UpdateCaseStatus writes the new status directly. No activity entry is
// appended for case status changes; callers mirror the change into any
// in-memory lists they hold instead of re-fetching.
func (c *Controller) UpdateCaseStatus(ctx context.Context, actor models.User, caseID, status string) error {
	cs, err := c.Cases.GetByID(ctx, caseID)
	if err != nil {
		return err
	}
	if !canTouchCase(actor, *cs) {
		return ErrForbidden
	}
	return c.Cases.UpdateStatus(ctx, caseID, status)
}

// DeleteCase deletes the case document and appends a case_deleted
// entry. The PII record and existing activity entries are deliberately
// left untouched: no cascading delete across stores.
func (c *Controller) DeleteCase(ctx context.Context, actor models.User, caseID string) error {
	cs, err := c.Cases.GetByID(ctx, caseID)
	if err != nil {
		return err
	}
	if !canTouchCase(actor, *cs) {
		return ErrForbidden
	}
	if _, err := c.Cases.Delete(ctx, caseID); err != nil {
		return err
	}
	c.Activity.CaseDeleted(ctx, caseID, actor.UID)
	return nil
}

// NewEventInput carries the fields for event creation.
type NewEventInput struct {
	Title       string
	Description string
	CaseID      string
	Date        time.Time
}

// CreateEvent writes the event document, mirrors it into the external
// calendar best-effort, and, only when a description was supplied,
// appends the denormalized non-editable meeting entry.
func (c *Controller) CreateEvent(ctx context.Context, actor models.User, in NewEventInput) (models.Event, error) {
	created, err := c.Events.Create(ctx, models.Event{
		Title:       in.Title,
		Description: in.Description,
		CaseID:      in.CaseID,
		Date:        in.Date,
		Status:      models.EventStatusActive,
		CreatedBy:   actor.UID,
	})
	if err != nil {
		return models.Event{}, fmt.Errorf("create event document: %w", err)
	}

	if c.Calendar != nil {
		calID, err := c.Calendar.CreateEvent(ctx, created.Title, created.Description, created.Date)
		switch {
		case err != nil:
			c.Log.Warn("calendar sync failed, continuing",
				zap.String("event_id", created.ID.Hex()),
				zap.Error(err))
		default:
			if err := c.Events.SetCalendarEventID(ctx, created.ID, calID); err != nil {
				c.Log.Warn("storing calendar correlation id failed",
					zap.String("event_id", created.ID.Hex()),
					zap.Error(err))
			} else {
				created.CalendarEventID = calID
			}
		}
	}

	if in.Description != "" {
		day := created.Date.Local().Format("2006-01-02")
		c.Activity.Meeting(ctx, created.CaseID, day, created.Title, created.Description, actor.UID)
	}
	return created, nil
}

// UpdateEventStatus transitions an event to any status and appends the
// event_status_updated entry.
func (c *Controller) UpdateEventStatus(ctx context.Context, actor models.User, id primitive.ObjectID, status string) error {
	ev, err := c.Events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canTouchEvent(actor, *ev) {
		return ErrForbidden
	}
	if err := c.Events.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	c.Activity.EventStatusUpdated(ctx, ev.CaseID, ev.Title, status, actor.UID)
	return nil
}

// SetEventArchived toggles the orthogonal archive flag and logs it.
// Status is untouched.
func (c *Controller) SetEventArchived(ctx context.Context, actor models.User, id primitive.ObjectID, archived bool) error {
	ev, err := c.Events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canTouchEvent(actor, *ev) {
		return ErrForbidden
	}
	if err := c.Events.SetArchived(ctx, id, archived); err != nil {
		return err
	}
	c.Activity.EventArchived(ctx, ev.CaseID, ev.Title, actor.UID, archived)
	return nil
}

// UpdateEvent edits the mutable fields of an event.
func (c *Controller) UpdateEvent(ctx context.Context, actor models.User, id primitive.ObjectID, upd events.EventUpdate) error {
	ev, err := c.Events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canTouchEvent(actor, *ev) {
		return ErrForbidden
	}
	return c.Events.Update(ctx, id, upd)
}

// DeleteEvent deletes an archived event: best-effort calendar cleanup,
// event_deleted entry, then document delete. Deleting an un-archived
// event is rejected here regardless of what the UI offered.
func (c *Controller) DeleteEvent(ctx context.Context, actor models.User, id primitive.ObjectID) error {
	ev, err := c.Events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canTouchEvent(actor, *ev) {
		return ErrForbidden
	}
	if !ev.Archived {
		return ErrNotArchived
	}

	if c.Calendar != nil && ev.CalendarEventID != "" {
		if err := c.Calendar.DeleteEvent(ctx, ev.CalendarEventID); err != nil {
			c.Log.Warn("calendar delete failed, continuing",
				zap.String("event_id", ev.ID.Hex()),
				zap.String("calendar_event_id", ev.CalendarEventID),
				zap.Error(err))
		}
	}

	c.Activity.EventDeleted(ctx, ev.CaseID, ev.Title, actor.UID)

	if _, err := c.Events.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

// DeleteActivityEntry removes an activity entry as privileged
// remediation, for example entries orphaned from a deleted case.
func (c *Controller) DeleteActivityEntry(ctx context.Context, actor models.User, id primitive.ObjectID) error {
	if !actor.IsPrivileged() {
		return ErrForbidden
	}
	_, err := c.Entries.Delete(ctx, id)
	return err
}

func canTouchEvent(actor models.User, ev models.Event) bool {
	return actor.IsPrivileged() || ev.CreatedBy == actor.UID
}

func canTouchCase(actor models.User, cs models.Case) bool {
	if actor.IsPrivileged() || cs.CreatedBy == actor.UID {
		return true
	}
	for _, a := range cs.AssignedAdmins {
		if a == actor.UID {
			return true
		}
	}
	return false
}
