package userstore

import (
	"context"

	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/normalize"
	"github.com/arundhaj/broadgauge/internal/app/system/timeouts"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each
// request. Sessions carry only the email; everything else comes from here.
type Fetcher struct {
	users    *mongo.Collection
	profiles *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{
		users:    db.Collection("users"),
		profiles: db.Collection("trainer_profiles"),
	}
}

// FetchUser retrieves a user by email and returns nil if the user is not
// found or if any error occurs. This implements auth.UserFetcher.
func (f *Fetcher) FetchUser(ctx context.Context, email string) *auth.SessionUser {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":   1,
		"name":  1,
		"email": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"email_ci": text.Fold(normalize.Email(email))}, proj).Decode(&u); err != nil {
		return nil
	}

	su := &auth.SessionUser{
		UserID: u.ID.Hex(),
		Name:   u.Name,
		Email:  u.Email,
	}

	// A trainer profile row is what makes a user a trainer.
	err := f.profiles.FindOne(ctx, bson.M{"user_id": u.ID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch err {
	case nil:
		su.IsTrainer = true
	case mongo.ErrNoDocuments:
		// plain user
	default:
		// DB error; treat as non-trainer rather than failing the request
	}

	return su
}
