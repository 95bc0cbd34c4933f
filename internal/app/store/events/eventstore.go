// internal/app/store/events/eventstore.go
package events

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clinichub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	errBadStatus = errors.New(`status must be "active"|"completed"|"cancelled"`)
	errNoTitle   = errors.New("event must have a title")
	errNoCase    = errors.New("event must reference a case")
)

// Store manages event documents in the events collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// GetByID loads an event by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event after validating fields.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	if e.Title == "" {
		return models.Event{}, errNoTitle
	}
	if e.CaseID == "" {
		return models.Event{}, errNoCase
	}
	if e.Status == "" {
		e.Status = models.EventStatusActive
	}
	if !models.IsValidEventStatus(e.Status) {
		return models.Event{}, errBadStatus
	}

	e.ID = primitive.NewObjectID()
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// List returns all events in the store's native order: date descending.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCase returns the events referencing a case, date descending.
func (s *Store) ListByCase(ctx context.Context, caseID string) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBetween returns events whose instant falls inside [from, to),
// date descending. Callers bucketing by local calendar day should widen
// the window by a day on each side and re-match per day; instants near
// midnight can land on either side of a UTC cut.
func (s *Store) ListBetween(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{
		"date": bson.M{"$gte": from, "$lt": to},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus writes a new status. Transitions are unconstrained; the
// activity entry is the lifecycle controller's responsibility.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.IsValidEventStatus(status) {
		return errBadStatus
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}})
	return err
}

// SetArchived toggles the archive flag without touching status.
func (s *Store) SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"archived":   archived,
		"updated_at": time.Now(),
	}})
	return err
}

// SetCalendarEventID records the external-calendar correlation id after
// a successful best-effort sync.
func (s *Store) SetCalendarEventID(ctx context.Context, id primitive.ObjectID, calendarEventID string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"calendar_event_id": calendarEventID,
		"updated_at":        time.Now(),
	}})
	return err
}

// EventUpdate holds editable event fields.
type EventUpdate struct {
	Title       string
	Description string
	Date        time.Time
}

// Update edits the mutable fields of an event.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd EventUpdate) error {
	if upd.Title == "" {
		return errNoTitle
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":       upd.Title,
		"description": upd.Description,
		"date":        upd.Date,
		"updated_at":  time.Now(),
	}})
	return err
}

// Delete removes an event document. The archived-only policy lives in
// lifecycle.DeleteEvent, not here.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
