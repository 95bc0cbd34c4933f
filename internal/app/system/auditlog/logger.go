// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/dalemusser/clinichub/internal/domain/models"
	"go.uber.org/zap"
)

// Config controls where activity entries are recorded.
// Values: "all" (Mongo + zap), "db" (Mongo only), "log" (zap only),
// "off" (disabled).
type Config struct {
	Mode string
}

// Appender is the activity store boundary the logger writes through.
type Appender interface {
	Append(ctx context.Context, e models.ActivityEntry) (models.ActivityEntry, error)
}

// EmailResolver resolves an actor uid to an email at write time.
type EmailResolver interface {
	ResolveEmail(ctx context.Context, uid string) string
}

// Logger appends immutable activity entries, stamping each with the
// actor's resolved email. It logs to both MongoDB (via the activity
// store) and structured logs (via zap).
type Logger struct {
	store    Appender
	resolver EmailResolver
	zapLog   *zap.Logger
	config   Config
}

// New creates an activity Logger.
func New(store Appender, resolver EmailResolver, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, resolver: resolver, zapLog: zapLog, config: config}
}

// Log records an activity entry based on configuration. If the logger
// is nil this is a no-op (tests may pass a nil logger).
func (l *Logger) Log(ctx context.Context, entry models.ActivityEntry) {
	if l == nil || l.config.Mode == "off" {
		return
	}

	if entry.CreatedByEmail == "" && l.resolver != nil {
		entry.CreatedByEmail = l.resolver.ResolveEmail(ctx, entry.CreatedBy)
	}
	if entry.CreatedByEmail == "" {
		entry.CreatedByEmail = "unknown"
	}

	if l.config.Mode == "all" || l.config.Mode == "log" || l.config.Mode == "" {
		l.zapLog.Info("activity entry",
			zap.Bool("activity", true),
			zap.String("action", entry.Action),
			zap.String("case_id", entry.CaseID),
			zap.String("created_by", entry.CreatedBy),
			zap.String("created_by_email", entry.CreatedByEmail),
			zap.String("note", entry.Note),
		)
	}

	if l.config.Mode == "all" || l.config.Mode == "db" || l.config.Mode == "" {
		if _, err := l.store.Append(ctx, entry); err != nil {
			l.zapLog.Error("failed to store activity entry",
				zap.Error(err),
				zap.String("action", entry.Action),
			)
		}
	}
}

// CaseCreated records a case_created entry.
func (l *Logger) CaseCreated(ctx context.Context, caseID, actorUID string) {
	l.Log(ctx, models.ActivityEntry{
		CaseID:    caseID,
		Action:    models.ActionCaseCreated,
		Note:      "Case " + caseID + " created",
		CreatedBy: actorUID,
	})
}

// CaseDeleted records a case_deleted entry. The entry keeps the case id
// even though the case document is gone; dangling references are
// tolerated.
func (l *Logger) CaseDeleted(ctx context.Context, caseID, actorUID string) {
	l.Log(ctx, models.ActivityEntry{
		CaseID:    caseID,
		Action:    models.ActionCaseDeleted,
		Note:      "Case " + caseID + " deleted",
		CreatedBy: actorUID,
	})
}

// EventStatusUpdated records an event_status_updated entry with a
// human-readable summary.
func (l *Logger) EventStatusUpdated(ctx context.Context, caseID, title, status, actorUID string) {
	l.Log(ctx, models.ActivityEntry{
		CaseID:    caseID,
		Action:    models.ActionEventStatusUpdated,
		Note:      `Event "` + title + `" marked ` + status,
		CreatedBy: actorUID,
	})
}

// EventArchived records the archive toggle.
func (l *Logger) EventArchived(ctx context.Context, caseID, title, actorUID string, archived bool) {
	action := models.ActionEventArchived
	note := `Event "` + title + `" archived`
	if !archived {
		action = models.ActionEventUnarchived
		note = `Event "` + title + `" unarchived`
	}
	l.Log(ctx, models.ActivityEntry{
		CaseID:    caseID,
		Action:    action,
		Note:      note,
		CreatedBy: actorUID,
	})
}

// EventDeleted records an event_deleted entry referencing the event's case.
func (l *Logger) EventDeleted(ctx context.Context, caseID, title, actorUID string) {
	l.Log(ctx, models.ActivityEntry{
		CaseID:    caseID,
		Action:    models.ActionEventDeleted,
		Note:      `Event "` + title + `" deleted`,
		CreatedBy: actorUID,
	})
}

// Meeting records the denormalized, non-editable meeting entry written
// when an event is created with a description.
func (l *Logger) Meeting(ctx context.Context, caseID, date, title, notes, actorUID string) {
	l.Log(ctx, models.ActivityEntry{
		CaseID:             caseID,
		Action:             models.ActionMeeting,
		Note:               title,
		NonEditable:        true,
		MeetingDate:        date,
		MeetingDescription: title,
		MeetingNotes:       notes,
		CreatedBy:          actorUID,
	})
}
