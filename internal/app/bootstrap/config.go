// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ClinicHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, pii_base_url, etc.
//   - Environment variables: CLINICHUB_MONGO_URI, CLINICHUB_PII_BASE_URL, etc.
//   - Command-line flags: --mongo_uri, --pii_base_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "clinic_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "clinichub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// PII store configuration
	{Name: "pii_base_url", Default: "http://localhost:4000", Desc: "Base URL of the PII store HTTP API"},
	{Name: "pii_timeout", Default: "5s", Desc: "Per-call timeout for PII store requests"},

	// External calendar configuration
	{Name: "calendar_base_url", Default: "", Desc: "Calendar provider base URL (blank disables sync)"},
	{Name: "calendar_token", Default: "", Desc: "Calendar provider access token"},
	{Name: "calendar_timeout", Default: "5s", Desc: "Per-call timeout for calendar requests"},

	// Activity logging settings
	{Name: "activity_log_mode", Default: "all", Desc: "Activity logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CLINICHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		PIIBaseURL: appValues.String("pii_base_url"),
		PIITimeout: appValues.Duration("pii_timeout", 5*time.Second),

		CalendarBaseURL: appValues.String("calendar_base_url"),
		CalendarToken:   appValues.String("calendar_token"),
		CalendarTimeout: appValues.Duration("calendar_timeout", 5*time.Second),

		ActivityLogMode: appValues.String("activity_log_mode"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backend connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.PIIBaseURL == "" {
		return fmt.Errorf("pii_base_url must be set")
	}
	if appCfg.CalendarBaseURL != "" && appCfg.CalendarToken == "" {
		return fmt.Errorf("calendar_base_url is set but calendar_token is empty")
	}
	return nil
}
