// internal/app/store/activity/store.go
package activity

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

// ErrImmutable is returned for any attempt to modify an existing entry.
// The activities collection is append-only; the only mutation allowed is
// privileged deletion as remediation.
var ErrImmutable = errors.New("activity entries cannot be updated")

// QueryFilter defines filters for querying activity entries.
type QueryFilter struct {
	CaseID    string
	Action    string
	CreatedBy string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

// Store manages activity entries in the activities collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activities")}
}

// EnsureIndexes creates the indexes the list views query on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{
			{Key: "case_id", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "action", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Append records a new activity entry. The entry is immutable after
// this call.
func (s *Store) Append(ctx context.Context, e models.ActivityEntry) (models.ActivityEntry, error) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.CreatedByEmail == "" {
		e.CreatedByEmail = "unknown"
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.ActivityEntry{}, err
	}
	return e, nil
}

// Query retrieves activity entries matching the filter, timestamp
// descending.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]models.ActivityEntry, error) {
	query := bson.M{}
	if filter.CaseID != "" {
		query["case_id"] = filter.CaseID
	}
	if filter.Action != "" {
		query["action"] = filter.Action
	}
	if filter.CreatedBy != "" {
		query["created_by"] = filter.CreatedBy
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		timeQuery := bson.M{}
		if filter.StartTime != nil {
			timeQuery["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			timeQuery["$lte"] = *filter.EndTime
		}
		query["timestamp"] = timeQuery
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.ActivityEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByCase retrieves recent entries for a case.
func (s *Store) GetByCase(ctx context.Context, caseID string, limit int64) ([]models.ActivityEntry, error) {
	return s.Query(ctx, QueryFilter{CaseID: caseID, Limit: limit})
}

// GetRecent retrieves the most recent entries across all cases.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]models.ActivityEntry, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}

// Delete removes a single entry. Privileged-only; callers enforce the
// role before reaching the store.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
