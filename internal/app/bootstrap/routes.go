// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	dashboardfeature "github.com/arundhaj/broadgauge/internal/app/features/dashboard"
	errorsfeature "github.com/arundhaj/broadgauge/internal/app/features/errors"
	healthfeature "github.com/arundhaj/broadgauge/internal/app/features/health"
	homefeature "github.com/arundhaj/broadgauge/internal/app/features/home"
	loginfeature "github.com/arundhaj/broadgauge/internal/app/features/login"
	logoutfeature "github.com/arundhaj/broadgauge/internal/app/features/logout"
	oauthflowfeature "github.com/arundhaj/broadgauge/internal/app/features/oauthflow"
	organizationsfeature "github.com/arundhaj/broadgauge/internal/app/features/organizations"
	orgsignupfeature "github.com/arundhaj/broadgauge/internal/app/features/orgsignup"
	profilefeature "github.com/arundhaj/broadgauge/internal/app/features/profile"
	trainersfeature "github.com/arundhaj/broadgauge/internal/app/features/trainers"
	trainersignupfeature "github.com/arundhaj/broadgauge/internal/app/features/trainersignup"
	workshopsfeature "github.com/arundhaj/broadgauge/internal/app/features/workshops"
	userstore "github.com/arundhaj/broadgauge/internal/app/store/users"
	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/oauthclient"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Broad Gauge initializes the template
// engine, applies session middleware, and mounts feature routers for the
// public pages, both signup flows, login, and the authenticated areas.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"

	maxAge, err := time.ParseDuration(appCfg.SessionMaxAge)
	if err != nil || maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, maxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// The UserFetcher makes LoadSessionUser re-read the user on each
	// request, so profile edits and trainer signups take effect without
	// a fresh login.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	oauthCfg := oauthclient.Config{
		BaseURL:            appCfg.BaseURL,
		GitHubClientID:     appCfg.GitHubClientID,
		GitHubClientSecret: appCfg.GitHubClientSecret,
		GoogleClientID:     appCfg.GoogleClientID,
		GoogleClientSecret: appCfg.GoogleClientSecret,
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// OAuth provider callbacks; every flow returns through here.
	flowHandler := oauthflowfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, oauthCfg, logger)
	r.Mount("/oauth", oauthflowfeature.Routes(flowHandler))

	// Public pages
	homeHandler := homefeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler, flowHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Signup flows
	trainerSignupHandler := trainersignupfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/trainers/signup", trainersignupfeature.Routes(trainerSignupHandler, flowHandler))

	orgSignupHandler := orgsignupfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/orgs/signup", orgsignupfeature.Routes(orgSignupHandler, flowHandler))

	// Authenticated areas
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	profileHandler := profilefeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/settings/profile", profilefeature.Routes(profileHandler))

	// Listings and detail pages
	trainersHandler := trainersfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/trainers", trainersfeature.Routes(trainersHandler))

	orgHandler := organizationsfeature.NewHandler(deps.MongoDatabase, errLog, appCfg.AdminEmail, logger)
	r.Mount("/orgs", organizationsfeature.Routes(orgHandler))

	workshopsHandler := workshopsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/workshops", workshopsfeature.Routes(workshopsHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
