// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is a point-valued activity definition owned by a group.
// Deleting or editing an activity never touches logs that reference it;
// logs carry their own frozen copy of the name and point value.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"group_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	PointValue  int                `bson:"point_value" json:"point_value"`
	CreatedBy   string             `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
