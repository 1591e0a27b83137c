package trainerstore_test

import (
	"testing"

	trainerstore "github.com/arundhaj/broadgauge/internal/app/store/trainers"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/arundhaj/broadgauge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	trainer, err := store.Create(ctx,
		models.User{Name: "Asha Rao", Email: "asha@example.com", Phone: "555-0101"},
		models.TrainerProfile{City: "Bangalore", GitHub: "asharao"},
	)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if trainer.Email != "asha@example.com" {
		t.Errorf("Email: got %q, want %q", trainer.Email, "asha@example.com")
	}
	if trainer.City != "Bangalore" {
		t.Errorf("City: got %q, want %q", trainer.City, "Bangalore")
	}
	if trainer.GitHub != "asharao" {
		t.Errorf("GitHub: got %q, want %q", trainer.GitHub, "asharao")
	}

	// Exactly one user row and one profile row
	users, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 1 {
		t.Errorf("expected 1 user row, got %d", users)
	}
	profiles, err := db.Collection("trainer_profiles").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if profiles != 1 {
		t.Errorf("expected 1 profile row, got %d", profiles)
	}
}

func TestStore_CreateForUser_AlreadyTrainer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainerstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	trainer := fixtures.CreateTrainer(ctx, "Existing Trainer", "existing@example.com", "Pune")

	_, err := store.CreateForUser(ctx, trainer.User.ID, models.TrainerProfile{City: "Mumbai"})
	if err != trainerstore.ErrAlreadyTrainer {
		t.Errorf("expected ErrAlreadyTrainer, got %v", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainerstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := fixtures.CreateTrainer(ctx, "Find Me", "FindMe@Example.com", "Chennai")

	trainer, err := store.GetByEmail(ctx, "findme@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if trainer.User.ID != created.User.ID {
		t.Errorf("ID: got %v, want %v", trainer.User.ID, created.User.ID)
	}
	if trainer.City != "Chennai" {
		t.Errorf("City: got %q, want %q", trainer.City, "Chennai")
	}
}

func TestStore_GetByEmail_UserWithoutProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainerstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Plain User", "plain@example.com")

	_, err := store.GetByEmail(ctx, "plain@example.com")
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainerstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTrainer(ctx, "Zoe Trainer", "zoe@example.com", "Delhi")
	fixtures.CreateTrainer(ctx, "Amy Trainer", "amy@example.com", "Mumbai")
	fixtures.CreateUser(ctx, "Not A Trainer", "user@example.com")

	trainers, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(trainers) != 2 {
		t.Fatalf("expected 2 trainers, got %d", len(trainers))
	}
	if trainers[0].Name != "Amy Trainer" {
		t.Errorf("expected sort by name, got %q first", trainers[0].Name)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainerstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := fixtures.CreateTrainer(ctx, "Original Name", "original@example.com", "Pune")

	err := store.Update(ctx, created.User.ID, trainerstore.Update{
		Name:    "Updated Name",
		Phone:   "555-0202",
		City:    "Hyderabad",
		Website: "https://example.com",
		Bio:     "Teaches Python.",
		GitHub:  "updated",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	trainer, err := store.GetByUserID(ctx, created.User.ID)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}

	if trainer.Name != "Updated Name" {
		t.Errorf("Name: got %q, want %q", trainer.Name, "Updated Name")
	}
	if trainer.Phone != "555-0202" {
		t.Errorf("Phone: got %q, want %q", trainer.Phone, "555-0202")
	}
	if trainer.City != "Hyderabad" {
		t.Errorf("City: got %q, want %q", trainer.City, "Hyderabad")
	}
	if trainer.Bio != "Teaches Python." {
		t.Errorf("Bio: got %q, want %q", trainer.Bio, "Teaches Python.")
	}

	// Email never changes through Update
	if trainer.Email != "original@example.com" {
		t.Errorf("Email must be immutable: got %q", trainer.Email)
	}
}

func TestStore_Update_NoProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := trainerstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Plain User", "plain@example.com")

	err := store.Update(ctx, user.ID, trainerstore.Update{Name: "New Name", City: "Goa"})
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}

	// The user row must be untouched when the profile write fails
	found, ferr := db.Collection("users").Find(ctx, bson.M{"name": "Plain User"})
	if ferr != nil {
		t.Fatalf("find users: %v", ferr)
	}
	var users []bson.M
	if err := found.All(ctx, &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected user name unchanged, found %d matching rows", len(users))
	}
}
