// Package groups serves group creation, listing, and membership management.
package groups

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	groupstore "github.com/tallyhub/tallyhub/internal/app/store/groups"
	memberstore "github.com/tallyhub/tallyhub/internal/app/store/members"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

// Handler is the shared dependency container for the groups feature.
type Handler struct {
	DB      *mongo.Database
	Groups  *groupstore.Store
	Members *memberstore.Store
	Log     *zap.Logger
}

// NewHandler constructs a groups Handler. It is typically called from the
// bootstrap BuildHandler function, where the application's DB and logger
// are already initialized.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Groups:  groupstore.New(db, logger),
		Members: memberstore.New(db),
		Log:     logger,
	}
}

// groupIDParam parses the {groupID} URL parameter.
func groupIDParam(r *http.Request) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, "groupID")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.Invalid, "invalid group id")
	}
	return id, nil
}

type memberResponse struct {
	UID      string    `json:"uid"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

type groupResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Visibility  string           `json:"visibility"`
	Tags        []string         `json:"tags,omitempty"`
	CreatedBy   string           `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	Members     []memberResponse `json:"members"`
}

func toResponse(g models.Group) groupResponse {
	members := make([]memberResponse, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, memberResponse{UID: m.UID, Role: m.Role, JoinedAt: m.JoinedAt})
	}
	return groupResponse{
		ID:          g.ID.Hex(),
		Name:        g.Name,
		Description: g.Description,
		Visibility:  g.Visibility,
		Tags:        g.Tags,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
		Members:     members,
	}
}
