// Package profile serves the authenticated user's own profile.
package profile

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	profilestore "github.com/tallyhub/tallyhub/internal/app/store/profiles"
)

// Handler owns the user profile endpoints.
type Handler struct {
	Profiles *profilestore.Store
	Log      *zap.Logger
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles: profilestore.New(db),
		Log:      logger,
	}
}
