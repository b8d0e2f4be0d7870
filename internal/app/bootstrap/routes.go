// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	activitiesfeature "github.com/tallyhub/tallyhub/internal/app/features/activities"
	activitylogsfeature "github.com/tallyhub/tallyhub/internal/app/features/activitylogs"
	groupsfeature "github.com/tallyhub/tallyhub/internal/app/features/groups"
	healthfeature "github.com/tallyhub/tallyhub/internal/app/features/health"
	profilefeature "github.com/tallyhub/tallyhub/internal/app/features/profile"
	profilestore "github.com/tallyhub/tallyhub/internal/app/store/profiles"
	"github.com/tallyhub/tallyhub/internal/app/system/authn"
	"github.com/tallyhub/tallyhub/internal/app/system/timeouts"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// TallyHub mounts the public health endpoint, then applies bearer-token
// authentication to everything else: user profiles, groups (with nested
// activity definitions), and activity logs.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	verifier := authn.NewJWTVerifier(appCfg.AuthSecret, appCfg.AuthIssuer)

	// Refresh the caller's profile off the request path: every authenticated
	// request upserts identity claims and bumps last_login, so stale display
	// names converge without a dedicated sync endpoint.
	profiles := profilestore.New(deps.MongoDatabase)
	onAuthenticated := func(id authn.Identity) {
		background.Go("ensure-profile", timeouts.Short(), func(ctx context.Context) error {
			return profiles.Ensure(ctx, id.UID, id.Name, id.Email, id.Picture)
		})
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Everything below requires a valid bearer token.
	r.Group(func(r chi.Router) {
		r.Use(authn.Middleware(verifier, onAuthenticated, logger))

		profileHandler := profilefeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/users", profilefeature.Routes(profileHandler))

		activitiesHandler := activitiesfeature.NewHandler(deps.MongoDatabase, logger)
		groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/groups", groupsfeature.Routes(groupsHandler, activitiesfeature.Routes(activitiesHandler)))

		logsHandler := activitylogsfeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/activity-logs", activitylogsfeature.Routes(logsHandler))
	})

	return r, nil
}
