package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/arundhaj/broadgauge/internal/app/system/normalize"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEmail is returned when attempting to create a user with an
// email that already exists.
var ErrDuplicateEmail = errors.New("a user with this email already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique case-insensitive email index. Duplicate
// signups surface as ErrDuplicateEmail instead of a second account.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_ci", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_users_email_ci"),
	})
	return err
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(normalize.Email(email))}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.EmailCI = text.Fold(u.Email)
	u.Phone = normalize.Phone(u.Phone)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetOrCreate returns the existing user with the given email, or creates a
// new one from u. The second return value reports whether a new user was
// inserted. A concurrent insert losing the unique-index race falls back to
// the winner's row.
func (s *Store) GetOrCreate(ctx context.Context, u models.User) (models.User, bool, error) {
	existing, err := s.GetByEmail(ctx, u.Email)
	if err == nil {
		return *existing, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.User{}, false, err
	}

	created, err := s.Create(ctx, u)
	if err == ErrDuplicateEmail {
		existing, err := s.GetByEmail(ctx, u.Email)
		if err != nil {
			return models.User{}, false, err
		}
		return *existing, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return created, true, nil
}
