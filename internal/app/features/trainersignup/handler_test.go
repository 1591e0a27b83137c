package trainersignup_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	"github.com/arundhaj/broadgauge/internal/app/features/trainersignup"
	trainerstore "github.com/arundhaj/broadgauge/internal/app/store/trainers"
	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*trainersignup.Handler, *auth.SessionManager, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	return trainersignup.NewHandler(db, sessionMgr, errLog, logger), sessionMgr, db
}

func pendingCookies(t *testing.T, sm *auth.SessionManager, email string) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := sm.SetPending(rec, auth.PendingIdentity{
		Provider: "github",
		Email:    email,
		Name:     "Remote Name",
		Handle:   "remotehandle",
	}); err != nil {
		t.Fatalf("SetPending failed: %v", err)
	}
	return rec.Result().Cookies()
}

func signupPost(t *testing.T, sm *auth.SessionManager, email string, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/trainers/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range pendingCookies(t, sm, email) {
		req.AddCookie(c)
	}
	return req
}

func TestHandleSignup_CreatesTrainerAndLogsIn(t *testing.T) {
	h, sm, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("name", "New Trainer")
	form.Set("phone", "555-0101")
	form.Set("city", "Chennai")

	req := signupPost(t, sm, "newtrainer@example.com", form)
	rec := httptest.NewRecorder()

	h.HandleSignup(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}

	trainer, err := trainerstore.New(db).GetByEmail(ctx, "newtrainer@example.com")
	if err != nil {
		t.Fatalf("GetByEmail after signup failed: %v", err)
	}
	if trainer.Name != "New Trainer" || trainer.City != "Chennai" || trainer.GitHub != "remotehandle" {
		t.Errorf("unexpected trainer: %+v", trainer)
	}

	// Exactly one user and one profile row.
	for coll, want := range map[string]int64{"users": 1, "trainer_profiles": 1} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("count %s failed: %v", coll, err)
		}
		if n != want {
			t.Errorf("%s count: got %d, want %d", coll, n, want)
		}
	}

	var sawSession, clearedPending bool
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case "test-session":
			if c.Value != "" {
				sawSession = true
			}
		case auth.PendingCookieName:
			if c.MaxAge < 0 {
				clearedPending = true
			}
		}
	}
	if !sawSession {
		t.Error("expected a session cookie after signup")
	}
	if !clearedPending {
		t.Error("expected the pending cookie to be cleared")
	}
}

func TestHandleSignup_MissingFields_NoRowsCreated(t *testing.T) {
	h, sm, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("name", "Only Name")

	req := signupPost(t, sm, "partial@example.com", form)
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.HandleSignup(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("expected the form back, not a redirect")
	}
	n, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("users count: got %d, want 0", n)
	}
}

func TestHandleSignup_DuplicateEmail_ShowsFailure(t *testing.T) {
	h, sm, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Org Admin", "taken@example.com")

	form := url.Values{}
	form.Set("name", "Taken Trainer")
	form.Set("phone", "555-0102")
	form.Set("city", "Pune")

	req := signupPost(t, sm, "taken@example.com", form)
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.HandleSignup(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("expected a failure page, not a redirect")
	}
	n, err := db.Collection("trainer_profiles").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("trainer_profiles count: got %d, want 0", n)
	}
}

func TestHandleSignup_NoPending_RedirectsBack(t *testing.T) {
	h, _, _ := newTestHandler(t)

	form := url.Values{}
	form.Set("name", "Nobody")
	form.Set("phone", "555-0103")
	form.Set("city", "Delhi")

	req := httptest.NewRequest(http.MethodPost, "/trainers/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.HandleSignup(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/trainers/signup" {
		t.Errorf("Location: got %q, want %q", loc, "/trainers/signup")
	}
}

func TestServeSignup_ExistingTrainer_ShortCircuitsToLogin(t *testing.T) {
	h, sm, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTrainer(ctx, "Already Here", "already@example.com", "Mumbai")

	req := httptest.NewRequest(http.MethodGet, "/trainers/signup", nil)
	for _, c := range pendingCookies(t, sm, "already@example.com") {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()

	h.ServeSignup(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}
}
