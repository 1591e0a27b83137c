// internal/app/features/oauthflow/handler.go
package oauthflow

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	"github.com/arundhaj/broadgauge/internal/app/store/oauthstate"
	trainerstore "github.com/arundhaj/broadgauge/internal/app/store/trainers"
	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/normalize"
	"github.com/arundhaj/broadgauge/internal/app/system/oauthclient"
	"github.com/arundhaj/broadgauge/internal/app/system/ratelimit"
	"github.com/arundhaj/broadgauge/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	// stateTTL bounds the provider round trip.
	stateTTL = 10 * time.Minute

	authFailedMsg = "Authorization failed, please try again."
)

// Handler drives the OAuth round trip shared by login and both signup
// flows. The start endpoints record where the browser came from; the
// callback sends it back there carrying either a session or a pending
// identity cookie.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	States     *oauthstate.Store
	Trainers   *trainerstore.Store
	OAuth      oauthclient.Config
	limiter    *ratelimit.Limiter
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	oauthCfg oauthclient.Config,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		States:     oauthstate.New(db),
		Trainers:   trainerstore.New(db),
		OAuth:      oauthCfg,
		limiter:    ratelimit.New(20, time.Minute),
	}
}

// Start returns the handler for GET /{base}/{provider}. It stores a
// one-time state token carrying the origin page and redirects to the
// provider's consent screen.
func (h *Handler) Start(origin string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := normalize.Provider(chi.URLParam(r, "provider"))
		svc, err := oauthclient.Service(provider, h.OAuth)
		if err != nil {
			uierrors.RenderNotFound(w, r, "Unknown login provider.", origin)
			return
		}

		// Each start writes a state row, so cap initiations per client.
		if !h.limiter.Allow(ratelimit.ClientIP(r)) {
			h.Log.Warn("OAuth start rate limited", zap.String("ip", ratelimit.ClientIP(r)))
			h.failAndReturn(w, r, origin)
			return
		}

		state := uuid.NewString()

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		expiresAt := time.Now().UTC().Add(stateTTL)
		if err := h.States.Save(ctx, state, origin, expiresAt); err != nil {
			h.ErrLog.LogServerError(w, r, "failed to save OAuth state", err, authFailedMsg, origin)
			return
		}

		h.Log.Debug("starting OAuth flow",
			zap.String("provider", provider),
			zap.String("origin", origin))

		http.Redirect(w, r, svc.AuthorizeURL(state), http.StatusSeeOther)
	}
}

// Reset returns the handler for GET /{base}/reset. It drops the pending
// identity cookie so the visitor can start over with another provider.
func (h *Handler) Reset(origin string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.SessionMgr.ClearPending(w)
		http.Redirect(w, r, origin, http.StatusSeeOther)
	}
}

// Callback handles GET /oauth/{provider}.
//
// A denied consent or a failed exchange flashes one message and sends the
// browser back to the page that initiated the flow. The code is never
// exchanged unless the provider actually sent one.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := normalize.Provider(chi.URLParam(r, "provider"))
	svc, err := oauthclient.Service(provider, h.OAuth)
	if err != nil {
		uierrors.RenderNotFound(w, r, "Unknown login provider.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	origin := "/"
	state := r.URL.Query().Get("state")
	if state != "" {
		returnURL, valid, verr := h.States.Validate(ctx, state)
		if verr != nil {
			h.Log.Error("failed to validate OAuth state", zap.Error(verr))
		} else if valid && returnURL != "" {
			origin = returnURL
		}
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("OAuth provider returned error",
			zap.String("provider", provider),
			zap.String("error", errParam))
		h.failAndReturn(w, r, origin)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("OAuth callback without code", zap.String("provider", provider))
		h.failAndReturn(w, r, origin)
		return
	}

	// The exchange is two provider round trips, so it gets its own
	// longer deadline.
	exchCtx, exchCancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer exchCancel()

	identity, err := svc.Exchange(exchCtx, code)
	if err != nil {
		h.Log.Error("OAuth exchange failed",
			zap.String("provider", provider),
			zap.Error(err))
		h.failAndReturn(w, r, origin)
		return
	}

	h.Log.Debug("OAuth identity fetched",
		zap.String("provider", provider),
		zap.String("email", identity.Email))

	// An existing trainer logs straight in; anyone else carries the
	// identity back to the signup page as a pending cookie.
	trainer, err := h.Trainers.GetByEmail(ctx, identity.Email)
	if err == nil && trainer != nil {
		if err := h.SessionMgr.SetLogin(w, r, trainer.Email); err != nil {
			h.ErrLog.LogServerError(w, r, "failed to set login session", err, authFailedMsg, origin)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if err != nil && err != mongo.ErrNoDocuments {
		h.ErrLog.LogServerError(w, r, "trainer lookup failed", err, authFailedMsg, origin)
		return
	}

	if err := h.SessionMgr.SetPending(w, auth.PendingIdentity{
		Provider: identity.Provider,
		Email:    normalize.Email(identity.Email),
		Name:     normalize.Name(identity.Name),
		Handle:   normalize.Handle(identity.Handle),
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "failed to set pending identity", err, authFailedMsg, origin)
		return
	}

	http.Redirect(w, r, origin, http.StatusSeeOther)
}

func (h *Handler) failAndReturn(w http.ResponseWriter, r *http.Request, origin string) {
	h.SessionMgr.Flash(w, r, "error", authFailedMsg)
	http.Redirect(w, r, origin, http.StatusSeeOther)
}
