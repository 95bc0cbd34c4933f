package auditlog_test

import (
	"context"
	"testing"

	"github.com/dalemusser/clinichub/internal/app/system/auditlog"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"go.uber.org/zap"
)

type fakeAppender struct {
	entries []models.ActivityEntry
}

func (f *fakeAppender) Append(ctx context.Context, e models.ActivityEntry) (models.ActivityEntry, error) {
	f.entries = append(f.entries, e)
	return e, nil
}

type fakeResolver struct {
	emails map[string]string
}

func (f *fakeResolver) ResolveEmail(ctx context.Context, uid string) string {
	if e, ok := f.emails[uid]; ok {
		return e
	}
	return "unknown"
}

func newLogger(mode string, store *fakeAppender) *auditlog.Logger {
	resolver := &fakeResolver{emails: map[string]string{
		"uid-1": "sam@clinichub.example",
	}}
	return auditlog.New(store, resolver, zap.NewNop(), auditlog.Config{Mode: mode})
}

func TestLog_StampsResolvedEmail(t *testing.T) {
	store := &fakeAppender{}
	l := newLogger("db", store)

	l.CaseCreated(context.Background(), "CASE-001", "uid-1")

	if len(store.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(store.entries))
	}
	e := store.entries[0]
	if e.CreatedByEmail != "sam@clinichub.example" {
		t.Errorf("email: got %q", e.CreatedByEmail)
	}
	if e.Action != models.ActionCaseCreated || e.CaseID != "CASE-001" {
		t.Errorf("entry: %+v", e)
	}
}

func TestLog_UnresolvableActor(t *testing.T) {
	store := &fakeAppender{}
	l := newLogger("db", store)

	l.CaseDeleted(context.Background(), "CASE-001", "gone-uid")

	if got := store.entries[0].CreatedByEmail; got != "unknown" {
		t.Errorf("email: got %q, want unknown", got)
	}
}

func TestLog_Modes(t *testing.T) {
	tests := []struct {
		mode      string
		wantStore int
	}{
		{"all", 1},
		{"db", 1},
		{"log", 0},
		{"off", 0},
		{"", 1},
	}
	for _, tt := range tests {
		t.Run("mode "+tt.mode, func(t *testing.T) {
			store := &fakeAppender{}
			l := newLogger(tt.mode, store)
			l.CaseCreated(context.Background(), "CASE-001", "uid-1")
			if len(store.entries) != tt.wantStore {
				t.Errorf("stored %d entries, want %d", len(store.entries), tt.wantStore)
			}
		})
	}
}

func TestLog_NilLoggerIsNoop(t *testing.T) {
	var l *auditlog.Logger
	// Must not panic.
	l.CaseCreated(context.Background(), "CASE-001", "uid-1")
	l.Meeting(context.Background(), "CASE-001", "2024-06-15", "t", "n", "uid-1")
}

func TestMeetingEntry(t *testing.T) {
	store := &fakeAppender{}
	l := newLogger("db", store)

	l.Meeting(context.Background(), "CASE-001", "2024-06-15", "Intake", "bring referral", "uid-1")

	e := store.entries[0]
	if e.Action != models.ActionMeeting {
		t.Errorf("action: %q", e.Action)
	}
	if !e.NonEditable {
		t.Error("meeting entries must be non-editable")
	}
	if e.MeetingDate != "2024-06-15" || e.MeetingDescription != "Intake" || e.MeetingNotes != "bring referral" {
		t.Errorf("denormalized fields: %+v", e)
	}
}
