// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// handles framework-level settings (ports, TLS, log level); AppConfig
// is everything specific to ClinicHub: store connection strings, the
// PII API endpoint, the calendar provider, and session settings.
type AppConfig struct {
	// MongoDB (document store) connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// PII store (relational API over HTTP)
	PIIBaseURL string
	PIITimeout time.Duration

	// External calendar collaborator (best-effort sync)
	CalendarBaseURL string // blank disables calendar sync
	CalendarToken   string
	CalendarTimeout time.Duration

	// Activity logging: "all" (db+log), "db", "log", or "off"
	ActivityLogMode string
}
