// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level, and request limits. AppConfig is where everything
// specific to Broad Gauge lives: the Mongo connection, session cookie
// settings, OAuth application credentials, and site identity.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: broadgauge-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge string // Session lifetime (e.g., "720h" for 30 days)

	// Site identity
	SiteTitle  string // Display name used in page titles and the navbar
	BaseURL    string // e.g., "https://broadgauge.example.org" or "http://localhost:8080"
	AdminEmail string // Site administrator; passes every org-admin check

	// OAuth application credentials
	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string
}
