package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser is the session identity injected into handler tests.
type TestUser struct {
	ID        string
	Name      string
	Email     string
	IsTrainer bool
}

// PlainUser returns a signed-in user without a trainer profile, such
// as an org admin.
func PlainUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test User",
		Email: "user@test.com",
	}
}

// TrainerUser returns a signed-in user with a trainer profile.
func TrainerUser() TestUser {
	return TestUser{
		ID:        primitive.NewObjectID().Hex(),
		Name:      "Test Trainer",
		Email:     "trainer@test.com",
		IsTrainer: true,
	}
}

// WithUser injects user into the request context, bypassing the
// session middleware.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsTrainer: user.IsTrainer,
	})
}

// NewRequest builds a bodyless test request.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest builds a test request with user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}
