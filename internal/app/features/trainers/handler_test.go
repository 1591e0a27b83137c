package trainers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	"github.com/arundhaj/broadgauge/internal/app/features/trainers"
	"github.com/arundhaj/broadgauge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*trainers.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return trainers.NewHandler(db, uierrors.NewErrorLogger(logger), logger), db
}

func TestServeList_Renders(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTrainer(ctx, "Listed Trainer", "listed@example.com", "Chennai")
	fixtures.CreateUser(ctx, "Not A Trainer", "plain@example.com")

	req := testutil.NewRequest(http.MethodGet, "/trainers")
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.ServeList(rec, req)
	}()

	if rec.Code >= http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestServeDetail_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/trainers/"+primitive.NewObjectID().Hex())
	req = testutil.WithChiURLParam(req, "id", primitive.NewObjectID().Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.ServeDetail(rec, req)
	}()

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeDetail_BadID(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/trainers/not-a-hex-id")
	req = testutil.WithChiURLParam(req, "id", "not-a-hex-id")
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.ServeDetail(rec, req)
	}()

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeDetail_Found(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	trainer := fixtures.CreateTrainer(ctx, "Detail Trainer", "detail@example.com", "Mumbai")

	req := testutil.NewRequest(http.MethodGet, "/trainers/"+trainer.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", trainer.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.ServeDetail(rec, req)
	}()

	if rec.Code >= http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
}
