// Package grouppolicy answers membership and role questions against the
// authoritative group_members collection. The member snapshot embedded in
// group documents is for display only and is never consulted here.
//
// The boolean checks are fail-closed: a lookup failure is logged and
// answered as "not authorized," never surfaced to the caller. A store
// outage therefore reads as Forbidden, not as a retryable server error.
package grouppolicy

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/tallyhub/tallyhub/internal/domain/models"
)

// MemberRole returns the caller's role in the group, or "" when the caller
// is not a member. This is the one lookup that surfaces errors; the
// fail-closed boolean checks below are what handlers gate on.
func MemberRole(ctx context.Context, db *mongo.Database, groupID primitive.ObjectID, uid string) (string, error) {
	c := db.Collection("group_members")

	var row struct {
		Role string `bson:"role"`
	}
	err := c.FindOne(ctx, bson.M{"group_id": groupID, "uid": uid},
		options.FindOne().SetProjection(bson.M{"role": 1})).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Role, nil
}

func roleOf(ctx context.Context, db *mongo.Database, log *zap.Logger, groupID primitive.ObjectID, uid string) string {
	role, err := MemberRole(ctx, db, groupID, uid)
	if err != nil {
		log.Error("membership lookup failed, denying",
			zap.String("group_id", groupID.Hex()),
			zap.String("uid", uid),
			zap.Error(err))
		return ""
	}
	return role
}

// IsMember reports whether uid holds any role in the group. Lookup
// failures deny.
func IsMember(ctx context.Context, db *mongo.Database, log *zap.Logger, groupID primitive.ObjectID, uid string) bool {
	return roleOf(ctx, db, log, groupID, uid) != ""
}

// IsAdminOrCreator reports whether uid can manage the group: creators and
// admins can, plain members cannot. Lookup failures deny.
func IsAdminOrCreator(ctx context.Context, db *mongo.Database, log *zap.Logger, groupID primitive.ObjectID, uid string) bool {
	role := roleOf(ctx, db, log, groupID, uid)
	return role == models.RoleCreator || role == models.RoleAdmin
}

// IsCreator reports whether uid is the group's creator. Lookup failures
// deny.
func IsCreator(ctx context.Context, db *mongo.Database, log *zap.Logger, groupID primitive.ObjectID, uid string) bool {
	return roleOf(ctx, db, log, groupID, uid) == models.RoleCreator
}
