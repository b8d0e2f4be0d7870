// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devAuthSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for TallyHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_secret, etc.
//   - Environment variables: TALLYHUB_MONGO_URI, TALLYHUB_AUTH_SECRET, etc.
//   - Command-line flags: --mongo_uri, --auth_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "tallyhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer-token verification
	{Name: "auth_secret", Default: devAuthSecret, Desc: "HMAC secret for verifying access tokens (must be strong in production)"},
	{Name: "auth_issuer", Default: "", Desc: "Expected token issuer (blank disables the issuer check)"},

	// Schema setup
	{Name: "ensure_indexes", Default: true, Desc: "Create/reconcile collection indexes during startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, TALLYHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TALLYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AuthSecret: appValues.String("auth_secret"),
		AuthIssuer: appValues.String("auth_issuer"),

		EnsureIndexes: appValues.Bool("ensure_indexes"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// TallyHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and refuses to run in
// production with the development token secret.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}

	if appCfg.AuthSecret == "" {
		return fmt.Errorf("auth_secret must be set")
	}
	if coreCfg.Env == "prod" && appCfg.AuthSecret == devAuthSecret {
		return fmt.Errorf("auth_secret must be changed from the development default in production")
	}

	return nil
}
