// Package activitystore persists the point-valued activities defined
// inside a group.
package activitystore

import (
	"context"
	"time"

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
	return &Store{c: db.Collection("group_activities")}
}

func (s *Store) Create(ctx context.Context, a models.Activity) (models.Activity, error) {
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = nil

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Activity{}, apperr.Wrap(apperr.Internal, "create activity", err)
	}
	return a, nil
}

// GetByID loads an activity and verifies it belongs to groupID, so an id
// from one group cannot be replayed against another.
func (s *Store) GetByID(ctx context.Context, groupID, id primitive.ObjectID) (models.Activity, error) {
	var a models.Activity
	err := s.c.FindOne(ctx, bson.M{"_id": id, "group_id": groupID}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Activity{}, apperr.New(apperr.NotFound, "activity not found")
	}
	if err != nil {
		return models.Activity{}, apperr.Wrap(apperr.Internal, "load activity", err)
	}
	return a, nil
}

// ListByGroup returns a group's activities, newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Activity, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list activities", err)
	}
	defer cur.Close(ctx)

	activities := []models.Activity{}
	if err := cur.All(ctx, &activities); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "decode activities", err)
	}
	return activities, nil
}

// Update holds the activity fields an admin may change. Nil fields are
// left untouched.
type Update struct {
	Name        *string
	Description *string
	PointValue  *int
}

// Apply updates the activity and returns its post-update state, including
// changes a concurrent writer may have made between the write and the
// re-read. Existing log entries keep the name and points they were written
// with.
func (s *Store) Apply(ctx context.Context, groupID, id primitive.ObjectID, upd Update) (models.Activity, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.PointValue != nil {
		set["point_value"] = *upd.PointValue
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "group_id": groupID},
		bson.M{"$set": set})
	if err != nil {
		return models.Activity{}, apperr.Wrap(apperr.Internal, "update activity", err)
	}
	if res.MatchedCount == 0 {
		return models.Activity{}, apperr.New(apperr.NotFound, "activity not found")
	}

	return s.GetByID(ctx, groupID, id)
}

// Delete removes an activity. Log entries referencing it are kept; they
// carry their own copy of the name and points.
func (s *Store) Delete(ctx context.Context, groupID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "group_id": groupID})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "delete activity", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "activity not found")
	}
	return nil
}
