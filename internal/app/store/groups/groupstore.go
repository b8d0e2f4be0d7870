// Package groupstore persists groups. Group creation writes the group
// document and the creator's membership row together, so a group can never
// exist without its creator as a member.
package groupstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/app/system/txn"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

// membersUserIndex is hinted on the "my groups" query so a missing index
// surfaces as a configuration error instead of a collection scan.
const membersUserIndex = "idx_members_user"

type Store struct {
	db      *mongo.Database
	groups  *mongo.Collection
	members *mongo.Collection
	log     *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		db:      db,
		groups:  db.Collection("groups"),
		members: db.Collection("group_members"),
		log:     log,
	}
}

// Create inserts the group and its creator membership row. On deployments
// with transactions both writes commit atomically; on standalone servers
// the group document is deleted again if the membership write fails.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.CreatedAt = now
	g.Members = []models.MemberSnapshot{
		{UID: g.CreatedBy, Role: models.RoleCreator, JoinedAt: now},
	}

	member := models.GroupMember{
		ID:       primitive.NewObjectID(),
		GroupID:  g.ID,
		UID:      g.CreatedBy,
		Role:     models.RoleCreator,
		JoinedAt: now,
	}

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.groups.InsertOne(ctx, g); err != nil {
			return err
		}
		if _, err := s.members.InsertOne(ctx, member); err != nil {
			// Compensation for standalone servers; a no-op rollback when a
			// real transaction aborts around us.
			if _, delErr := s.groups.DeleteOne(ctx, bson.M{"_id": g.ID}); delErr != nil {
				s.log.Error("orphaned group after failed membership insert",
					zap.String("group_id", g.ID.Hex()),
					zap.Error(delErr))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.Group{}, apperr.Wrap(apperr.Internal, "create group", err)
	}
	return g, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	err := s.groups.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, apperr.New(apperr.NotFound, "group not found")
	}
	if err != nil {
		return models.Group{}, apperr.Wrap(apperr.Internal, "load group", err)
	}
	return g, nil
}

// FindByUser returns every group uid belongs to, newest first. Membership
// rows whose group document has been removed are skipped.
func (s *Store) FindByUser(ctx context.Context, uid string) ([]models.Group, error) {
	cur, err := s.members.Find(ctx,
		bson.M{"uid": uid},
		options.Find().SetHint(membersUserIndex))
	if err != nil {
		if isBadHint(err) {
			return nil, apperr.Wrap(apperr.Config,
				"group_members index "+membersUserIndex+" is missing; run with schema setup enabled", err)
		}
		return nil, apperr.Wrap(apperr.Internal, "list memberships", err)
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.GroupMember
		if err := cur.Decode(&m); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "decode membership", err)
		}
		ids = append(ids, m.GroupID)
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list memberships", err)
	}
	if len(ids) == 0 {
		return []models.Group{}, nil
	}

	gcur, err := s.groups.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "load groups", err)
	}
	defer gcur.Close(ctx)

	groups := []models.Group{}
	if err := gcur.All(ctx, &groups); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "decode groups", err)
	}
	return groups, nil
}

// Delete removes a group by ID. The caller is responsible for cleaning up
// memberships, activities, and logs if that is wanted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.groups.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "delete group", err)
	}
	return res.DeletedCount, nil
}

// AppendMemberSnapshot mirrors a new membership into the group document's
// display snapshot.
func (s *Store) AppendMemberSnapshot(ctx context.Context, groupID primitive.ObjectID, snap models.MemberSnapshot) error {
	_, err := s.groups.UpdateByID(ctx, groupID, bson.M{
		"$push": bson.M{"members": snap},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "append member snapshot", err)
	}
	return nil
}

// RemoveMemberSnapshot drops uid from the group document's display snapshot.
func (s *Store) RemoveMemberSnapshot(ctx context.Context, groupID primitive.ObjectID, uid string) error {
	_, err := s.groups.UpdateByID(ctx, groupID, bson.M{
		"$pull": bson.M{"members": bson.M{"uid": uid}},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "remove member snapshot", err)
	}
	return nil
}

func isBadHint(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "hint") && (strings.Contains(msg, "index") || strings.Contains(msg, "bad"))
}
