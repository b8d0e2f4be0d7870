// Package activities serves the point-valued activities defined inside a
// group. Reads are open to members; writes require an admin or the
// creator.
package activities

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	activitystore "github.com/tallyhub/tallyhub/internal/app/store/activities"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

// Handler is the shared dependency container for the activities feature.
type Handler struct {
	DB         *mongo.Database
	Activities *activitystore.Store
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Activities: activitystore.New(db),
		Log:        logger,
	}
}

func groupIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.Invalid, "invalid group id")
	}
	return id, nil
}

func activityIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "activityID"))
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.Invalid, "invalid activity id")
	}
	return id, nil
}

type activityResponse struct {
	ID          string     `json:"id"`
	GroupID     string     `json:"groupId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	PointValue  int        `json:"pointValue"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func toResponse(a models.Activity) activityResponse {
	return activityResponse{
		ID:          a.ID.Hex(),
		GroupID:     a.GroupID.Hex(),
		Name:        a.Name,
		Description: a.Description,
		PointValue:  a.PointValue,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
