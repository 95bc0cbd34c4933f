package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/clinichub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		UID:       primitive.NewObjectID().Hex(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test user with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

// CreateStaff creates a test user with the staff role.
func (f *Fixtures) CreateStaff(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleStaff)
}

// CreateCase creates a test case created by the given uid.
func (f *Fixtures) CreateCase(ctx context.Context, caseID, createdBy string) models.Case {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Case{
		CaseID:         caseID,
		Status:         models.CaseStatusNew,
		CreatedBy:      createdBy,
		AssignedAdmins: []string{createdBy},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("patients").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test case: %v", err)
	}
	return c
}

// CreateEvent creates an active, unarchived test event on the given
// case and date.
func (f *Fixtures) CreateEvent(ctx context.Context, title, caseID, createdBy string, date time.Time) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	ev := models.Event{
		ID:        primitive.NewObjectID(),
		Title:     title,
		CaseID:    caseID,
		Date:      date,
		Status:    models.EventStatusActive,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, ev); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}

// CreateActivityEntry creates a test activity entry.
func (f *Fixtures) CreateActivityEntry(ctx context.Context, action, caseID, createdBy string) models.ActivityEntry {
	f.t.Helper()

	entry := models.ActivityEntry{
		ID:             primitive.NewObjectID(),
		CaseID:         caseID,
		Note:           fmt.Sprintf("test %s entry", action),
		Action:         action,
		CreatedBy:      createdBy,
		CreatedByEmail: "test@clinichub.example",
		Timestamp:      time.Now().UTC(),
	}

	if _, err := f.db.Collection("activities").InsertOne(ctx, entry); err != nil {
		f.t.Fatalf("failed to create test activity entry: %v", err)
	}
	return entry
}
