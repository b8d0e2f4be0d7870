// Package activitylogs serves the activity log: members record completed
// activities and query their own history; group views are member-gated.
package activitylogs

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	activitystore "github.com/tallyhub/tallyhub/internal/app/store/activities"
	logstore "github.com/tallyhub/tallyhub/internal/app/store/activitylogs"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

// Handler is the shared dependency container for the activity log feature.
type Handler struct {
	DB         *mongo.Database
	Logs       *logstore.Store
	Activities *activitystore.Store
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Logs:       logstore.New(db),
		Activities: activitystore.New(db),
		Log:        logger,
	}
}

func logIDParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "logID"))
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.Invalid, "invalid log id")
	}
	return id, nil
}

type logResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	GroupID      string     `json:"groupId"`
	ActivityID   string     `json:"activityId"`
	ActivityName string     `json:"activityName"`
	Points       int        `json:"points"`
	Timestamp    time.Time  `json:"timestamp"`
	Notes        string     `json:"notes,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func toResponse(l models.ActivityLog) logResponse {
	return logResponse{
		ID:           l.ID.Hex(),
		UserID:       l.UserID,
		GroupID:      l.GroupID.Hex(),
		ActivityID:   l.ActivityID.Hex(),
		ActivityName: l.ActivityName,
		Points:       l.Points,
		Timestamp:    l.Timestamp,
		Notes:        l.Notes,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toResponses(logs []models.ActivityLog) []logResponse {
	out := make([]logResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toResponse(l))
	}
	return out
}
