// internal/app/store/cases/casestore.go
package cases

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clinichub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateCaseID is returned when the allocated case identifier
	// already exists (a lost race on next-case-id allocation).
	ErrDuplicateCaseID = errors.New("a case with this identifier already exists")

	errBadStatus = errors.New(`status must be "new"|"active"|"inactive"`)
	errNoCreator = errors.New("case must have a creator")
)

// Store manages case documents in the patients collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("patients")}
}

// GetByID loads a case by its case identifier. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, caseID string) (*models.Case, error) {
	var c models.Case
	if err := s.c.FindOne(ctx, bson.M{"_id": caseID}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new case document after validating fields. The
// assigned-admin set always includes the creator.
func (s *Store) Create(ctx context.Context, c models.Case) (models.Case, error) {
	if c.CreatedBy == "" {
		return models.Case{}, errNoCreator
	}
	if c.Status == "" {
		c.Status = models.CaseStatusNew
	}
	if !models.IsValidCaseStatus(c.Status) {
		return models.Case{}, errBadStatus
	}

	if !containsString(c.AssignedAdmins, c.CreatedBy) {
		c.AssignedAdmins = append(c.AssignedAdmins, c.CreatedBy)
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Case{}, ErrDuplicateCaseID
		}
		return models.Case{}, err
	}
	return c, nil
}

// List returns all case documents sorted by creation time descending.
func (s *Store) List(ctx context.Context) ([]models.Case, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Case
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus writes a new status directly to the case document. Case
// status transitions are unconstrained and carry no activity entry.
func (s *Store) UpdateStatus(ctx context.Context, caseID, status string) error {
	if !models.IsValidCaseStatus(status) {
		return errBadStatus
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": caseID}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}})
	return err
}

// UpdateNotes replaces the operational notes on a case.
func (s *Store) UpdateNotes(ctx context.Context, caseID, notes string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": caseID}, bson.M{"$set": bson.M{
		"notes":      notes,
		"updated_at": time.Now(),
	}})
	return err
}

// UpdateAssignedAdmins replaces the assigned-admin set.
func (s *Store) UpdateAssignedAdmins(ctx context.Context, caseID string, admins []string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": caseID}, bson.M{"$set": bson.M{
		"assigned_admins": admins,
		"updated_at":      time.Now(),
	}})
	return err
}

// Delete removes the case document. It deliberately does not touch the
// PII store or any activity entries; see lifecycle.DeleteCase.
func (s *Store) Delete(ctx context.Context, caseID string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": caseID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func containsString(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
