// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey    = "is_authenticated"
	userEmailKey = "user_email"
)

// SessionUser is the principal injected into the request context for a
// signed-in request. Email is the natural key binding the session to an
// account; Name and TrainerID are convenience fields loaded fresh on
// each request by the UserFetcher.
type SessionUser struct {
	Email     string
	Name      string
	UserID    string // hex ObjectID of the backing User row
	IsTrainer bool
}

// UserFetcher loads fresh user data for the session's email on each
// request, so profile edits take effect immediately. Returning nil means
// the account no longer resolves and the request proceeds anonymously.
type UserFetcher interface {
	FetchUser(ctx context.Context, email string) *SessionUser
}

// SessionManager owns the signed session cookie and the pending-identity
// cookie used between OAuth success and signup completion.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	log     *zap.Logger
	fetcher UserFetcher
	pending *securecookie.SecureCookie
}

// NewSessionManager builds a SessionManager backed by a gorilla
// CookieStore. The session key signs both the session cookie and the
// pending-identity cookie. In production (secure=true) cookies are
// marked Secure with SameSite=Lax.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide >=32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.String("cookie", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:   store,
		name:    name,
		log:     logger,
		pending: securecookie.New([]byte(sessionKey), nil),
	}, nil
}

// SetUserFetcher installs the fetcher used by LoadSessionUser.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// GetSession returns the request's session, creating a fresh one if the
// cookie is absent or fails to decode.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// SetLogin issues a signed session cookie binding the session to email.
// No credential check happens here; trust is delegated to the OAuth
// exchange that produced the email.
func (sm *SessionManager) SetLogin(w http.ResponseWriter, r *http.Request, email string) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			sm.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			sm.log.Error("session store error during login, using fresh session", zap.Error(err))
		}
	}
	sess.Values[isAuthKey] = true
	sess.Values[userEmailKey] = email
	return sess.Save(r, w)
}

// Logout invalidates the session cookie.
func (sm *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Warn("session decode failed during logout", zap.Error(err))
	}
	if opts := sm.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in principal, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// LoadSessionUser injects the current user into the request context when
// a valid session cookie is present. With a UserFetcher configured, the
// account is re-resolved on every request so stale sessions for deleted
// accounts fall back to anonymous.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		isAuth, _ := sess.Values[isAuthKey].(bool)
		email, _ := sess.Values[userEmailKey].(string)
		if !isAuth || email == "" {
			next.ServeHTTP(w, r)
			return
		}

		u := &SessionUser{Email: email}
		if sm.fetcher != nil {
			if fresh := sm.fetcher.FetchUser(r.Context(), email); fresh != nil {
				u = fresh
			}
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn redirects anonymous requests to /login, preserving the
// original URI in a return parameter. Non-HTML callers get a plain 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			ret := url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// WithTestUser injects a user into the request context, bypassing the
// session middleware. Test use only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
