// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	authfeature "github.com/rollcallhq/rollcall/internal/app/features/auth"
	healthfeature "github.com/rollcallhq/rollcall/internal/app/features/health"
	invitationsfeature "github.com/rollcallhq/rollcall/internal/app/features/invitations"
	peoplefeature "github.com/rollcallhq/rollcall/internal/app/features/people"
	sessionsfeature "github.com/rollcallhq/rollcall/internal/app/features/sessions"
	workspacesfeature "github.com/rollcallhq/rollcall/internal/app/features/workspaces"
	userstore "github.com/rollcallhq/rollcall/internal/app/store/users"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. RollCall builds the session
// manager, applies the session-loading middleware globally, and mounts
// a feature router per API area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(
		appCfg.SessionKey,
		appCfg.SessionName,
		appCfg.WorkspaceCookieName,
		appCfg.SessionDomain,
		secure,
		appCfg.SessionTTL,
		logger,
	)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data is fetched on every request so deleted accounts
	// stop resolving immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Accounts and identity
	authHandler := authfeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))

	// Tenancy: workspaces, the active-workspace assertion, members
	workspacesHandler := workspacesfeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Mount("/workspaces", workspacesfeature.Routes(workspacesHandler))

	// Invitation codes: issue, list, redeem
	invitationsHandler := invitationsfeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Mount("/invitations", invitationsfeature.Routes(invitationsHandler))

	// Workspace roster
	peopleHandler := peoplefeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Mount("/people", peoplefeature.Routes(peopleHandler))

	// Attendance sessions and presence records
	sessionsHandler := sessionsfeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Mount("/sessions", sessionsfeature.Routes(sessionsHandler))

	return r, nil
}
