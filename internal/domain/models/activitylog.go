// internal/domain/models/activitylog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLog is one completion of an activity by one user. Logs live in a
// flat top-level collection so per-user history can span groups.
// ActivityName and Points are snapshots taken at log time and never change
// when the activity definition is later edited.
type ActivityLog struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	GroupID      primitive.ObjectID `bson:"group_id" json:"group_id"`
	ActivityID   primitive.ObjectID `bson:"activity_id" json:"activity_id"`
	ActivityName string             `bson:"activity_name" json:"activity_name"`
	Points       int                `bson:"points" json:"points"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt    *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
