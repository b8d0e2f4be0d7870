// internal/domain/models/groupmember.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles, ordered by capability.
const (
	RoleCreator = "creator"
	RoleAdmin   = "admin"
	RoleMember  = "member"
)

// GroupMember is the authoritative join between users and groups.
// Exactly one document per (group_id, uid); exactly one creator row per
// group, written atomically with the group document.
type GroupMember struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	UID      string             `bson:"uid" json:"uid"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

// MemberSnapshot is the embedded form of a membership carried on the group
// document. It is a display cache only; role checks go through GroupMember
// rows.
type MemberSnapshot struct {
	UID      string    `bson:"uid" json:"uid"`
	Role     string    `bson:"role" json:"role"`
	JoinedAt time.Time `bson:"joined_at" json:"joined_at"`
}

// IsValidRole reports whether r is one of the defined membership roles.
func IsValidRole(r string) bool {
	return r == RoleCreator || r == RoleAdmin || r == RoleMember
}
