// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework-level settings (ports, TLS,
// logging, CORS); AppConfig carries everything specific to this
// application. All values are loaded in LoadConfig from config files,
// ROLLCALL_* environment variables, and command-line flags.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey          string        // Secret key for signing session cookies (must be strong in production)
	SessionName         string        // Cookie name for the identity session
	WorkspaceCookieName string        // Cookie name for the active-workspace assertion
	SessionDomain       string        // Cookie domain (blank means current host)
	SessionTTL          time.Duration // Absolute identity lifetime; there is no refresh
}
