package lifecycle_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/clinichub/internal/app/lifecycle"
	"github.com/dalemusser/clinichub/internal/app/store/events"
	"github.com/dalemusser/clinichub/internal/app/system/auditlog"
	"github.com/dalemusser/clinichub/internal/app/system/caseid"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	admin = models.User{UID: "admin-1", Role: models.RoleAdmin}
	staff = models.User{UID: "staff-1", Role: models.RoleStaff}
)

type fakeCases struct {
	byID    map[string]models.Case
	deleted []string
}

func (f *fakeCases) GetByID(ctx context.Context, caseID string) (*models.Case, error) {
	c, ok := f.byID[caseID]
	if !ok {
		return nil, errors.New("not found")
	}
	return &c, nil
}

func (f *fakeCases) Create(ctx context.Context, c models.Case) (models.Case, error) {
	if f.byID == nil {
		f.byID = map[string]models.Case{}
	}
	c.CreatedAt = time.Now()
	f.byID[c.CaseID] = c
	return c, nil
}

func (f *fakeCases) UpdateStatus(ctx context.Context, caseID, status string) error {
	c := f.byID[caseID]
	c.Status = status
	f.byID[caseID] = c
	return nil
}

func (f *fakeCases) Delete(ctx context.Context, caseID string) (int64, error) {
	delete(f.byID, caseID)
	f.deleted = append(f.deleted, caseID)
	return 1, nil
}

type fakeEvents struct {
	byID       map[primitive.ObjectID]models.Event
	calendarID map[primitive.ObjectID]string
	deleted    []primitive.ObjectID
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{
		byID:       map[primitive.ObjectID]models.Event{},
		calendarID: map[primitive.ObjectID]string{},
	}
}

func (f *fakeEvents) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &e, nil
}

func (f *fakeEvents) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.ID = primitive.NewObjectID()
	f.byID[e.ID] = e
	return e, nil
}

func (f *fakeEvents) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	e := f.byID[id]
	e.Status = status
	f.byID[id] = e
	return nil
}

func (f *fakeEvents) SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error {
	e := f.byID[id]
	e.Archived = archived
	f.byID[id] = e
	return nil
}

func (f *fakeEvents) SetCalendarEventID(ctx context.Context, id primitive.ObjectID, calendarEventID string) error {
	f.calendarID[id] = calendarEventID
	return nil
}

func (f *fakeEvents) Update(ctx context.Context, id primitive.ObjectID, upd events.EventUpdate) error {
	e := f.byID[id]
	e.Title = upd.Title
	e.Description = upd.Description
	e.Date = upd.Date
	f.byID[id] = e
	return nil
}

func (f *fakeEvents) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return 1, nil
}

type fakePII struct {
	nextID   int
	nextErr  error
	writeErr error
	written  []models.Patient
}

func (f *fakePII) Create(ctx context.Context, p models.Patient) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, p)
	return nil
}

func (f *fakePII) NextCaseID(ctx context.Context) (int, error) {
	if f.nextErr != nil {
		return 0, f.nextErr
	}
	return f.nextID, nil
}

type fakeCalendar struct {
	createErr error
	deleteErr error
	created   []string
	deleted   []string
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, title, description string, date time.Time) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	id := "cal-" + title
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, calendarEventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, calendarEventID)
	return nil
}

type fakeAppender struct {
	entries []models.ActivityEntry
}

func (f *fakeAppender) Append(ctx context.Context, e models.ActivityEntry) (models.ActivityEntry, error) {
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeAppender) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return 1, nil
}

type fakeResolver struct{}

func (fakeResolver) ResolveEmail(ctx context.Context, uid string) string {
	return uid + "@clinichub.example"
}

type harness struct {
	ctrl     *lifecycle.Controller
	cases    *fakeCases
	events   *fakeEvents
	pii      *fakePII
	calendar *fakeCalendar
	appender *fakeAppender
}

func newHarness() *harness {
	cases := &fakeCases{byID: map[string]models.Case{}}
	evts := newFakeEvents()
	pii := &fakePII{nextID: 7}
	cal := &fakeCalendar{}
	app := &fakeAppender{}

	return &harness{
		ctrl: &lifecycle.Controller{
			Cases:    cases,
			Events:   evts,
			PII:      pii,
			Calendar: cal,
			Activity: auditlog.New(app, fakeResolver{}, zap.NewNop(), auditlog.Config{Mode: "db"}),
			Entries:  app,
			Log:      zap.NewNop(),
		},
		cases:    cases,
		events:   evts,
		pii:      pii,
		calendar: cal,
		appender: app,
	}
}

func (h *harness) actions() []string {
	out := make([]string, len(h.appender.entries))
	for i, e := range h.appender.entries {
		out[i] = e.Action
	}
	return out
}

func TestCreateCase(t *testing.T) {
	h := newHarness()

	created, err := h.ctrl.CreateCase(context.Background(), admin, lifecycle.NewCaseInput{
		Notes:   "first visit",
		Patient: models.Patient{FirstName: "Ada", LastName: "Day"},
	})
	if err != nil {
		t.Fatalf("CreateCase failed: %v", err)
	}

	if created.CaseID != "CASE-007" {
		t.Errorf("case id: got %q, want CASE-007", created.CaseID)
	}
	if created.Status != models.CaseStatusNew {
		t.Errorf("status: got %q, want new", created.Status)
	}
	if len(h.pii.written) != 1 || h.pii.written[0].CaseID != "CASE-007" {
		t.Errorf("PII record not written under the allocated id: %+v", h.pii.written)
	}
	if got := h.actions(); len(got) != 1 || got[0] != models.ActionCaseCreated {
		t.Errorf("activity entries: %v, want [case_created]", got)
	}
}

func TestCreateCase_SequenceUnavailable(t *testing.T) {
	h := newHarness()
	h.pii.nextErr = errors.New("sequence endpoint down")

	created, err := h.ctrl.CreateCase(context.Background(), admin, lifecycle.NewCaseInput{
		Patient: models.Patient{FirstName: "Lee"},
	})
	if err != nil {
		t.Fatalf("CreateCase failed: %v", err)
	}
	if !caseid.IsFallback(created.CaseID) {
		t.Errorf("expected fallback id, got %q", created.CaseID)
	}
	if !strings.HasPrefix(created.CaseID, caseid.Prefix) {
		t.Errorf("fallback id %q missing prefix", created.CaseID)
	}
}

func TestCreateCase_PIIWriteFails(t *testing.T) {
	h := newHarness()
	h.pii.writeErr = errors.New("relational store down")

	created, err := h.ctrl.CreateCase(context.Background(), admin, lifecycle.NewCaseInput{
		Patient: models.Patient{FirstName: "Ada"},
	})
	if !errors.Is(err, lifecycle.ErrPIIWriteFailed) {
		t.Fatalf("error: got %v, want ErrPIIWriteFailed", err)
	}

	// The document write is not rolled back; the caller gets both the
	// persisted case and the error.
	if _, ok := h.cases.byID[created.CaseID]; !ok {
		t.Error("case document missing after PII failure; it must persist")
	}
}

func TestUpdateCaseStatus_NoActivityEntry(t *testing.T) {
	h := newHarness()
	h.cases.byID["CASE-001"] = models.Case{CaseID: "CASE-001", CreatedBy: staff.UID}

	if err := h.ctrl.UpdateCaseStatus(context.Background(), staff, "CASE-001", models.CaseStatusActive); err != nil {
		t.Fatalf("UpdateCaseStatus failed: %v", err)
	}
	if got := h.cases.byID["CASE-001"].Status; got != models.CaseStatusActive {
		t.Errorf("status: got %q, want active", got)
	}
	if len(h.appender.entries) != 0 {
		t.Errorf("case status changes must not write activity entries, got %v", h.actions())
	}
}

func TestUpdateCaseStatus_Forbidden(t *testing.T) {
	h := newHarness()
	h.cases.byID["CASE-001"] = models.Case{CaseID: "CASE-001", CreatedBy: "someone-else"}

	err := h.ctrl.UpdateCaseStatus(context.Background(), staff, "CASE-001", models.CaseStatusActive)
	if !errors.Is(err, lifecycle.ErrForbidden) {
		t.Errorf("error: got %v, want ErrForbidden", err)
	}
}

func TestUpdateCaseStatus_AssignedAdminAllowed(t *testing.T) {
	h := newHarness()
	h.cases.byID["CASE-001"] = models.Case{
		CaseID:         "CASE-001",
		CreatedBy:      "someone-else",
		AssignedAdmins: []string{staff.UID},
	}

	if err := h.ctrl.UpdateCaseStatus(context.Background(), staff, "CASE-001", models.CaseStatusInactive); err != nil {
		t.Errorf("assigned user should be allowed: %v", err)
	}
}

func TestDeleteCase(t *testing.T) {
	h := newHarness()
	h.cases.byID["CASE-001"] = models.Case{CaseID: "CASE-001", CreatedBy: staff.UID}
	h.pii.written = []models.Patient{{CaseID: "CASE-001"}}

	if err := h.ctrl.DeleteCase(context.Background(), staff, "CASE-001"); err != nil {
		t.Fatalf("DeleteCase failed: %v", err)
	}
	if got := h.actions(); len(got) != 1 || got[0] != models.ActionCaseDeleted {
		t.Errorf("activity entries: %v, want [case_deleted]", got)
	}
	// PII record survives the document delete.
	if len(h.pii.written) != 1 {
		t.Error("PII record must not be cascaded away")
	}
}

func TestCreateEvent(t *testing.T) {
	h := newHarness()

	created, err := h.ctrl.CreateEvent(context.Background(), staff, lifecycle.NewEventInput{
		Title:       "Intake",
		Description: "first consultation",
		CaseID:      "CASE-001",
		Date:        time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if created.Status != models.EventStatusActive {
		t.Errorf("status: got %q, want active", created.Status)
	}
	if created.CalendarEventID == "" {
		t.Error("calendar correlation id not stored on successful sync")
	}
	if got := h.actions(); len(got) != 1 || got[0] != models.ActionMeeting {
		t.Fatalf("activity entries: %v, want [meeting]", got)
	}

	entry := h.appender.entries[0]
	if !entry.NonEditable {
		t.Error("meeting entry must be non-editable")
	}
	if entry.MeetingDate != "2024-06-15" {
		t.Errorf("meeting date: got %q, want 2024-06-15", entry.MeetingDate)
	}
	if entry.MeetingDescription != "Intake" || entry.MeetingNotes != "first consultation" {
		t.Errorf("meeting denormalization wrong: %+v", entry)
	}
}

func TestCreateEvent_NoDescriptionNoMeetingEntry(t *testing.T) {
	h := newHarness()

	_, err := h.ctrl.CreateEvent(context.Background(), staff, lifecycle.NewEventInput{
		Title:  "Quick check",
		CaseID: "CASE-001",
		Date:   time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if len(h.appender.entries) != 0 {
		t.Errorf("description-less event must not write a meeting entry, got %v", h.actions())
	}
}

func TestCreateEvent_CalendarFailureSwallowed(t *testing.T) {
	h := newHarness()
	h.calendar.createErr = errors.New("provider down")

	created, err := h.ctrl.CreateEvent(context.Background(), staff, lifecycle.NewEventInput{
		Title:  "Intake",
		CaseID: "CASE-001",
		Date:   time.Now(),
	})
	if err != nil {
		t.Fatalf("calendar failure must not fail creation: %v", err)
	}
	if created.CalendarEventID != "" {
		t.Error("no correlation id expected when sync failed")
	}
}

func TestUpdateEventStatus(t *testing.T) {
	h := newHarness()
	ev, _ := h.events.Create(context.Background(), models.Event{
		Title: "Intake", CaseID: "CASE-001", CreatedBy: staff.UID,
		Status: models.EventStatusActive,
	})

	if err := h.ctrl.UpdateEventStatus(context.Background(), staff, ev.ID, models.EventStatusCompleted); err != nil {
		t.Fatalf("UpdateEventStatus failed: %v", err)
	}
	if got := h.events.byID[ev.ID].Status; got != models.EventStatusCompleted {
		t.Errorf("status: got %q, want completed", got)
	}
	if got := h.actions(); len(got) != 1 || got[0] != models.ActionEventStatusUpdated {
		t.Errorf("activity entries: %v, want [event_status_updated]", got)
	}
	if !strings.Contains(h.appender.entries[0].Note, "Intake") {
		t.Errorf("entry note should carry the title: %q", h.appender.entries[0].Note)
	}
}

func TestUpdateEventStatus_Forbidden(t *testing.T) {
	h := newHarness()
	ev, _ := h.events.Create(context.Background(), models.Event{
		Title: "Theirs", CreatedBy: "someone-else",
	})

	err := h.ctrl.UpdateEventStatus(context.Background(), staff, ev.ID, models.EventStatusCancelled)
	if !errors.Is(err, lifecycle.ErrForbidden) {
		t.Errorf("error: got %v, want ErrForbidden", err)
	}
	if len(h.appender.entries) != 0 {
		t.Error("forbidden transition must not log activity")
	}
}

func TestSetEventArchived_StatusUntouched(t *testing.T) {
	h := newHarness()
	ev, _ := h.events.Create(context.Background(), models.Event{
		Title: "Done", CreatedBy: staff.UID, Status: models.EventStatusCompleted,
	})

	if err := h.ctrl.SetEventArchived(context.Background(), staff, ev.ID, true); err != nil {
		t.Fatalf("SetEventArchived failed: %v", err)
	}

	after := h.events.byID[ev.ID]
	if !after.Archived {
		t.Error("event not archived")
	}
	if after.Status != models.EventStatusCompleted {
		t.Errorf("archiving changed the status to %q", after.Status)
	}
	if got := h.actions(); len(got) != 1 || got[0] != models.ActionEventArchived {
		t.Errorf("activity entries: %v, want [event_archived]", got)
	}

	if err := h.ctrl.SetEventArchived(context.Background(), staff, ev.ID, false); err != nil {
		t.Fatalf("unarchive failed: %v", err)
	}
	if got := h.actions(); got[len(got)-1] != models.ActionEventUnarchived {
		t.Errorf("unarchive logged %q", got[len(got)-1])
	}
}

func TestDeleteEvent_RequiresArchived(t *testing.T) {
	h := newHarness()
	ev, _ := h.events.Create(context.Background(), models.Event{
		Title: "Live", CreatedBy: staff.UID, Status: models.EventStatusActive,
	})

	err := h.ctrl.DeleteEvent(context.Background(), staff, ev.ID)
	if !errors.Is(err, lifecycle.ErrNotArchived) {
		t.Fatalf("error: got %v, want ErrNotArchived", err)
	}
	if len(h.events.deleted) != 0 {
		t.Error("un-archived event must not be deleted")
	}
}

func TestDeleteEvent(t *testing.T) {
	h := newHarness()
	ev, _ := h.events.Create(context.Background(), models.Event{
		Title: "Old", CaseID: "CASE-001", CreatedBy: staff.UID,
		Archived: true, CalendarEventID: "cal-123",
	})

	if err := h.ctrl.DeleteEvent(context.Background(), staff, ev.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if len(h.events.deleted) != 1 {
		t.Error("event document not deleted")
	}
	if len(h.calendar.deleted) != 1 || h.calendar.deleted[0] != "cal-123" {
		t.Errorf("calendar copy not cleaned up: %v", h.calendar.deleted)
	}
	if got := h.actions(); len(got) != 1 || got[0] != models.ActionEventDeleted {
		t.Errorf("activity entries: %v, want [event_deleted]", got)
	}
}

func TestDeleteEvent_CalendarFailureSwallowed(t *testing.T) {
	h := newHarness()
	h.calendar.deleteErr = errors.New("provider down")
	ev, _ := h.events.Create(context.Background(), models.Event{
		Title: "Old", CreatedBy: staff.UID, Archived: true, CalendarEventID: "cal-9",
	})

	if err := h.ctrl.DeleteEvent(context.Background(), staff, ev.ID); err != nil {
		t.Fatalf("calendar failure must not block deletion: %v", err)
	}
	if len(h.events.deleted) != 1 {
		t.Error("event not deleted despite calendar failure")
	}
}

func TestDeleteActivityEntry_PrivilegedOnly(t *testing.T) {
	h := newHarness()
	id := primitive.NewObjectID()

	if err := h.ctrl.DeleteActivityEntry(context.Background(), staff, id); !errors.Is(err, lifecycle.ErrForbidden) {
		t.Errorf("standard role: got %v, want ErrForbidden", err)
	}
	if err := h.ctrl.DeleteActivityEntry(context.Background(), admin, id); err != nil {
		t.Errorf("privileged role: unexpected error %v", err)
	}
}
