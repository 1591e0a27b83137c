package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arundhaj/broadgauge/internal/app/features/dashboard"
	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *dashboard.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return dashboard.NewHandler(db, sessionMgr, uierrors.NewErrorLogger(logger), logger)
}

func TestServeDashboard_Anonymous_RedirectsHome(t *testing.T) {
	h := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/dashboard")
	rec := httptest.NewRecorder()

	h.ServeDashboard(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location: got %q, want %q", loc, "/")
	}
}

func TestServeDashboard_SignedIn_Renders(t *testing.T) {
	h := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", testutil.TrainerUser())
	rec := httptest.NewRecorder()

	// Page rendering may panic without initialized templates.
	func() {
		defer func() { _ = recover() }()
		h.ServeDashboard(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("signed-in user should see the dashboard, not a redirect")
	}
}
