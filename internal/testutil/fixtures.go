package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
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

// CreateUser creates a test user with the given name and email.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		EmailCI:   text.Fold(email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTrainer creates a test user plus a trainer profile and returns the
// merged trainer view.
func (f *Fixtures) CreateTrainer(ctx context.Context, name, email, city string) models.Trainer {
	f.t.Helper()

	user := f.CreateUser(ctx, name, email)

	now := time.Now().UTC()
	profile := models.TrainerProfile{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		City:      city,
		CityCI:    text.Fold(city),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("trainer_profiles").InsertOne(ctx, profile); err != nil {
		f.t.Fatalf("failed to create test trainer profile: %v", err)
	}

	return models.Trainer{User: user, City: city}
}

// CreateOrganization creates a test organization administered by the given
// user.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string, adminID primitive.ObjectID) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		City:      "Test City",
		CityCI:    text.Fold("Test City"),
		AdminID:   adminID,
		AdminRole: "Director",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateWorkshop creates a test workshop for the given organization with
// the given status.
func (f *Fixtures) CreateWorkshop(ctx context.Context, orgID primitive.ObjectID, title, status string) models.Workshop {
	f.t.Helper()

	now := time.Now().UTC()
	w := models.Workshop{
		ID:                   primitive.NewObjectID(),
		OrgID:                orgID,
		Title:                title,
		TitleCI:              text.Fold(title),
		Description:          "Test workshop description",
		ExpectedParticipants: 20,
		Date:                 now.AddDate(0, 1, 0),
		Status:               status,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if _, err := f.db.Collection("workshops").InsertOne(ctx, w); err != nil {
		f.t.Fatalf("failed to create test workshop: %v", err)
	}
	return w
}
