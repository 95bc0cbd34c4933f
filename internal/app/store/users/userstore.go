// internal/app/store/users/userstore.go
package users

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
	// ErrDuplicateUID is returned when a user with the same platform id
	// already exists.
	ErrDuplicateUID = errors.New("a user with this id already exists")

	errBadRole = errors.New(`role must be "admin"|"staff"|"scheduler"|"intake"`)
	errNoUID   = errors.New("user must have a platform id")
)

// Store manages user documents in the users collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByUID loads a user by platform id. Returns mongo.ErrNoDocuments if
// not found.
func (s *Store) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ResolveLoginIdentity finds the user a login identity belongs to. The
// identity may be the user's primary platform id or the secondary
// provider id back-reference; the primary key wins when both match.
func (s *Store) ResolveLoginIdentity(ctx context.Context, identity string) (*models.User, error) {
	u, err := s.GetByUID(ctx, identity)
	if err == nil {
		return u, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	var byProvider models.User
	if err := s.c.FindOne(ctx, bson.M{"provider_id": identity}).Decode(&byProvider); err != nil {
		return nil, err
	}
	return &byProvider, nil
}

// Create inserts a new user after validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.UID == "" {
		return models.User{}, errNoUID
	}
	switch u.Role {
	case models.RoleAdmin, models.RoleStaff, models.RoleScheduler, models.RoleIntake:
		// ok
	default:
		return models.User{}, errBadRole
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUID
		}
		return models.User{}, err
	}
	return u, nil
}

// List returns all users sorted by name.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetBlocked toggles the blocked flag. Blocking clears restricted so the
// two flags stay semantically exclusive.
func (s *Store) SetBlocked(ctx context.Context, uid string, blocked bool) error {
	set := bson.M{"blocked": blocked, "updated_at": time.Now()}
	if blocked {
		set["restricted"] = false
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
	return err
}

// SetRestricted toggles the restricted flag. Restricting clears blocked.
func (s *Store) SetRestricted(ctx context.Context, uid string, restricted bool) error {
	set := bson.M{"restricted": restricted, "updated_at": time.Now()}
	if restricted {
		set["blocked"] = false
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
	return err
}

// SetProviderID records (or clears) the secondary sign-in identity.
func (s *Store) SetProviderID(ctx context.Context, uid, providerID string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"provider_id": providerID,
		"updated_at":  time.Now(),
	}})
	return err
}

// SetRole changes a user's role.
func (s *Store) SetRole(ctx context.Context, uid, role string) error {
	switch role {
	case models.RoleAdmin, models.RoleStaff, models.RoleScheduler, models.RoleIntake:
	default:
		return errBadRole
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now(),
	}})
	return err
}
