package oauthflow_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	"github.com/arundhaj/broadgauge/internal/app/features/oauthflow"
	"github.com/arundhaj/broadgauge/internal/app/store/oauthstate"
	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/oauthclient"
	"github.com/arundhaj/broadgauge/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*oauthflow.Handler, *oauthstate.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	cfg := oauthclient.Config{
		BaseURL:            "http://localhost:8080",
		GitHubClientID:     "test-github-id",
		GitHubClientSecret: "test-github-secret",
		GoogleClientID:     "test-google-id",
		GoogleClientSecret: "test-google-secret",
	}

	h := oauthflow.NewHandler(db, sessionMgr, errLog, cfg, logger)
	return h, oauthstate.New(db)
}

func TestStart_SavesStateAndRedirects(t *testing.T) {
	h, states := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/trainers/signup/github")
	req = testutil.WithChiURLParam(req, "provider", "github")
	rec := httptest.NewRecorder()

	h.Start("/trainers/signup")(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	loc := rec.Header().Get("Location")
	u, err := url.Parse(loc)
	if err != nil {
		t.Fatalf("bad redirect URL %q: %v", loc, err)
	}
	if !strings.Contains(u.Host, "github.com") {
		t.Errorf("expected redirect to github, got %q", loc)
	}

	state := u.Query().Get("state")
	if state == "" {
		t.Fatal("expected state parameter in consent URL")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	returnURL, valid, err := states.Validate(ctx, state)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Fatal("expected saved state to validate")
	}
	if returnURL != "/trainers/signup" {
		t.Errorf("returnURL: got %q, want %q", returnURL, "/trainers/signup")
	}
}

func TestStart_ProviderNameCaseInsensitive(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/login/GitHub")
	req = testutil.WithChiURLParam(req, "provider", "GitHub")
	rec := httptest.NewRecorder()

	h.Start("/login")(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "github.com") {
		t.Errorf("expected redirect to github consent, got %q", loc)
	}
}

func TestStart_UnknownProvider(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/login/facebook")
	req = testutil.WithChiURLParam(req, "provider", "facebook")
	rec := httptest.NewRecorder()

	// Not-found page rendering may panic without initialized templates;
	// the status is written before the render.
	func() {
		defer func() { _ = recover() }()
		h.Start("/login")(rec, req)
	}()

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCallback_ProviderError_RedirectsToOrigin(t *testing.T) {
	h, states := newTestHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := states.Save(ctx, "state-1", "/orgs/signup", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	req := testutil.NewRequest(http.MethodGet, "/oauth/github?state=state-1&error=access_denied")
	req = testutil.WithChiURLParam(req, "provider", "github")
	rec := httptest.NewRecorder()

	h.Callback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/orgs/signup" {
		t.Errorf("Location: got %q, want %q", loc, "/orgs/signup")
	}
}

func TestCallback_MissingCode_NeverExchanges(t *testing.T) {
	h, states := newTestHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := states.Save(ctx, "state-2", "/trainers/signup", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// No code parameter at all. The handler must redirect back to the
	// origin without contacting the provider.
	req := testutil.NewRequest(http.MethodGet, "/oauth/github?state=state-2")
	req = testutil.WithChiURLParam(req, "provider", "github")
	rec := httptest.NewRecorder()

	h.Callback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/trainers/signup" {
		t.Errorf("Location: got %q, want %q", loc, "/trainers/signup")
	}
}

func TestCallback_UnknownState_DefaultsToRoot(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/oauth/google?state=bogus")
	req = testutil.WithChiURLParam(req, "provider", "google")
	rec := httptest.NewRecorder()

	h.Callback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location: got %q, want %q", loc, "/")
	}
}

func TestCallback_UnknownProvider(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/oauth/facebook?code=abc")
	req = testutil.WithChiURLParam(req, "provider", "facebook")
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.Callback(rec, req)
	}()

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestReset_ClearsPendingAndRedirects(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/orgs/signup/reset")
	rec := httptest.NewRecorder()

	h.Reset("/orgs/signup")(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/orgs/signup" {
		t.Errorf("Location: got %q, want %q", loc, "/orgs/signup")
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.PendingCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected pending cookie to be cleared")
	}
}
