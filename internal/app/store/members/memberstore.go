// Package memberstore persists the authoritative membership rows. All
// authorization checks read this collection; the snapshot embedded in
// group documents is display-only.
package memberstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_members")}
}

// Add inserts a membership row. The unique (group_id, uid) index turns a
// second join into an Invalid error.
func (s *Store) Add(ctx context.Context, groupID primitive.ObjectID, uid, role string) (models.GroupMember, error) {
	m := models.GroupMember{
		ID:       primitive.NewObjectID(),
		GroupID:  groupID,
		UID:      uid,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, m)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMember{}, apperr.New(apperr.Invalid, "user is already a member of this group")
		}
		return models.GroupMember{}, apperr.Wrap(apperr.Internal, "add member", err)
	}
	return m, nil
}

func (s *Store) Get(ctx context.Context, groupID primitive.ObjectID, uid string) (models.GroupMember, error) {
	var m models.GroupMember
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "uid": uid}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.GroupMember{}, apperr.New(apperr.NotFound, "membership not found")
	}
	if err != nil {
		return models.GroupMember{}, apperr.Wrap(apperr.Internal, "load membership", err)
	}
	return m, nil
}

// SetRole changes an existing member's role.
func (s *Store) SetRole(ctx context.Context, groupID primitive.ObjectID, uid, role string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "uid": uid},
		bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "set member role", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "membership not found")
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, groupID primitive.ObjectID, uid string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "uid": uid})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "remove member", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "membership not found")
	}
	return nil
}

// ListByGroup returns a group's members, longest-standing first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMember, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}}))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list members", err)
	}
	defer cur.Close(ctx)

	members := []models.GroupMember{}
	if err := cur.All(ctx, &members); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "decode members", err)
	}
	return members, nil
}
