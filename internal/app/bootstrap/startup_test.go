package bootstrap

import (
	"testing"

	userstore "github.com/arundhaj/broadgauge/internal/app/store/users"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/arundhaj/broadgauge/internal/testutil"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureSchema_UniqueEmailEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}

	if err := EnsureSchema(ctx, nil, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	users := userstore.New(db)
	if _, err := users.Create(ctx, models.User{Name: "First", Email: "dup@test.com"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := users.Create(ctx, models.User{Name: "Second", Email: "DUP@test.com"})
	if err != userstore.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}

	for i := 0; i < 2; i++ {
		if err := EnsureSchema(ctx, nil, AppConfig{}, deps, testLogger()); err != nil {
			t.Fatalf("EnsureSchema run %d failed: %v", i+1, err)
		}
	}
}
