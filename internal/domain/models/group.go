// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Group is a named collection of users with its own activity catalog.
//
// NOTE:
//   - Members is a creation-time snapshot kept for display. The live,
//     authoritative membership lives in the group_members collection and is
//     the only thing authorization ever consults.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Visibility  string             `bson:"visibility" json:"visibility"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedBy   string             `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	Members     []MemberSnapshot   `bson:"members" json:"members"`
}
