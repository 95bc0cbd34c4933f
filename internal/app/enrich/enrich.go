// Package enrich joins raw event and case records with display fields
// from the PII store and the identity store.
//
// Each record's lookups run independently and concurrently; one
// record's failure never fails or blocks another's (no fail-fast). A
// failed patient lookup, whether not-found or transient, leaves the
// Patient pointer nil: both are equally unrecoverable within a single
// enrichment pass, so callers see one degraded state and render the
// Unknown Patient sentinel.
//
// No caching is guaranteed across calls; callers needing memoization do
// it at the invocation boundary.
package enrich

import (
	"context"

	"github.com/dalemusser/clinichub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Display sentinels for failed enrichment.
const (
	UnknownPatient = "Unknown Patient"
	UnknownUser    = "Unknown User"
)

// lookupLimit bounds the fan-out so a large list cannot open an
// unbounded number of simultaneous gateway calls.
const lookupLimit = 8

// LegacyEmails maps historically created identity ids to emails for
// records whose identity document was later removed. A one-time
// backfill against the identity store would make this table deletable;
// until then the resolution chain consults it after the store miss.
var LegacyEmails = map[string]string{
	"wq9WkJvDleUrY8aTR2Iv5Xl0Fn72": "r.alvarez@clinichub.example",
	"hT4mKeXoAnRzV1cQ0pUyGsB8Wd53": "front.desk@clinichub.example",
	"Lp2sDunRfjcYtM6bE9hZxKaV7g91": "scheduling@clinichub.example",
}

// PatientGetter is the PII store boundary the engine needs.
type PatientGetter interface {
	Get(ctx context.Context, caseID string) (*models.Patient, error)
}

// IdentityGetter is the identity store boundary the engine needs.
type IdentityGetter interface {
	GetByUID(ctx context.Context, uid string) (*models.User, error)
}

// EnrichedEvent wraps a raw event with its optional enrichment. A nil
// Patient is a typed, checkable state, not an undefined property.
type EnrichedEvent struct {
	models.Event
	Patient       *models.Patient `json:"patient,omitempty"`
	CreatedByName string          `json:"created_by_name"`
}

// EnrichedCase wraps a raw case with its optional enrichment.
type EnrichedCase struct {
	models.Case
	Patient       *models.Patient `json:"patient,omitempty"`
	CreatedByName string          `json:"created_by_name"`
}

// Engine performs the cross-store joins.
type Engine struct {
	patients PatientGetter
	identity IdentityGetter
	log      *zap.Logger
}

func New(patients PatientGetter, identity IdentityGetter, logger *zap.Logger) *Engine {
	return &Engine{patients: patients, identity: identity, log: logger}
}

// EnrichEvents enriches a list of events. The returned slice preserves
// input order regardless of lookup completion order.
func (e *Engine) EnrichEvents(ctx context.Context, events []models.Event) []EnrichedEvent {
	out := make([]EnrichedEvent, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupLimit)

	for i, ev := range events {
		i, ev := i, ev
		g.Go(func() error {
			out[i] = EnrichedEvent{
				Event:         ev,
				Patient:       e.lookupPatient(gctx, ev.CaseID),
				CreatedByName: e.ResolveDisplayName(gctx, ev.CreatedBy),
			}
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors
	return out
}

// EnrichCases enriches a list of cases, preserving input order.
func (e *Engine) EnrichCases(ctx context.Context, cases []models.Case) []EnrichedCase {
	out := make([]EnrichedCase, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupLimit)

	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			out[i] = EnrichedCase{
				Case:          c,
				Patient:       e.lookupPatient(gctx, c.CaseID),
				CreatedByName: e.ResolveDisplayName(gctx, c.CreatedBy),
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// lookupPatient fetches the PII record, collapsing not-found and
// transient failures into a nil result.
func (e *Engine) lookupPatient(ctx context.Context, caseID string) *models.Patient {
	if caseID == "" {
		return nil
	}
	p, err := e.patients.Get(ctx, caseID)
	if err != nil {
		e.log.Debug("patient enrichment failed",
			zap.String("case_id", caseID),
			zap.Error(err))
		return nil
	}
	return p
}

// ResolveDisplayName resolves a creator identity to something
// renderable, in order: identity-store name or email, the legacy
// uid-to-email table, the raw uid, and finally the Unknown User
// sentinel for an empty uid.
func (e *Engine) ResolveDisplayName(ctx context.Context, uid string) string {
	if uid == "" {
		return UnknownUser
	}
	if u, err := e.identity.GetByUID(ctx, uid); err == nil {
		if u.Name != "" {
			return u.Name
		}
		if u.Email != "" {
			return u.Email
		}
	}
	if email, ok := LegacyEmails[uid]; ok {
		return email
	}
	return uid
}

// ResolveEmail resolves a creator identity to an email for write-time
// stamping of activity entries, with the same fallback order and
// "unknown" as the last resort.
func (e *Engine) ResolveEmail(ctx context.Context, uid string) string {
	if uid == "" {
		return "unknown"
	}
	if u, err := e.identity.GetByUID(ctx, uid); err == nil && u.Email != "" {
		return u.Email
	}
	if email, ok := LegacyEmails[uid]; ok {
		return email
	}
	return uid
}
