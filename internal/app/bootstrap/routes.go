// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/clinichub/internal/app/enrich"
	activityfeature "github.com/dalemusser/clinichub/internal/app/features/activity"
	casesfeature "github.com/dalemusser/clinichub/internal/app/features/cases"
	eventsfeature "github.com/dalemusser/clinichub/internal/app/features/events"
	healthfeature "github.com/dalemusser/clinichub/internal/app/features/health"
	meetingsfeature "github.com/dalemusser/clinichub/internal/app/features/meetings"
	usersfeature "github.com/dalemusser/clinichub/internal/app/features/users"
	"github.com/dalemusser/clinichub/internal/app/lifecycle"
	activitystore "github.com/dalemusser/clinichub/internal/app/store/activity"
	"github.com/dalemusser/clinichub/internal/app/store/calendar"
	casestore "github.com/dalemusser/clinichub/internal/app/store/cases"
	eventstore "github.com/dalemusser/clinichub/internal/app/store/events"
	"github.com/dalemusser/clinichub/internal/app/store/pii"
	userstore "github.com/dalemusser/clinichub/internal/app/store/users"
	"github.com/dalemusser/clinichub/internal/app/system/auditlog"
	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connection, schema setup,
// and Startup hooks have completed. ClinicHub wires the aggregation
// pipeline here: document-store gateways, the PII client, the
// enrichment engine, the lifecycle controller, and the feature routers
// that expose the JSON console API.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	caseStore := casestore.New(db)
	eventStore := eventstore.New(db)
	activityStore := activitystore.New(db)
	users := userstore.New(db)
	piiClient := pii.New(appCfg.PIIBaseURL, appCfg.PIITimeout, logger)

	engine := enrich.New(piiClient, users, logger)

	activityLog := auditlog.New(activityStore, engine, logger, auditlog.Config{
		Mode: appCfg.ActivityLogMode,
	})

	// The calendar collaborator is optional; without a base URL event
	// sync is skipped entirely.
	var syncer lifecycle.CalendarSyncer
	if appCfg.CalendarBaseURL != "" {
		syncer = calendar.New(appCfg.CalendarBaseURL, appCfg.CalendarToken, appCfg.CalendarTimeout, logger)
	}

	ctrl := &lifecycle.Controller{
		Cases:    caseStore,
		Events:   eventStore,
		PII:      piiClient,
		Calendar: syncer,
		Activity: activityLog,
		Entries:  activityStore,
		Log:      logger,
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed
	// in. Handlers read it via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	casesHandler := casesfeature.NewHandler(caseStore, ctrl, engine, piiClient, logger)
	r.Mount("/api/cases", casesfeature.Routes(casesHandler))

	eventsHandler := eventsfeature.NewHandler(eventStore, ctrl, engine, logger)
	r.Mount("/api/events", eventsfeature.Routes(eventsHandler))

	meetingsHandler := meetingsfeature.NewHandler(eventStore, piiClient, engine, logger)
	r.Mount("/api/meetings", meetingsfeature.Routes(meetingsHandler))

	activityHandler := activityfeature.NewHandler(activityStore, ctrl, logger)
	r.Mount("/api/activity", activityfeature.Routes(activityHandler))

	usersHandler := usersfeature.NewHandler(users, logger)
	r.Mount("/api/users", usersfeature.Routes(usersHandler))

	return r, nil
}
