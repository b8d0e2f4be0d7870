// Package logstore persists activity log entries. Each entry denormalizes
// the activity's name and point value at logging time, so history stays
// stable when activities are later renamed, revalued, or deleted.
package logstore

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

// defaultLimit applies when a caller asks for a limit but gives a
// non-positive value. A nil limit means unlimited.
const defaultLimit = int64(20)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_logs")}
}

func (s *Store) Create(ctx context.Context, l models.ActivityLog) (models.ActivityLog, error) {
	// The entry is always stamped here. Clients cannot backdate or
	// forward-date history.
	l.ID = primitive.NewObjectID()
	l.Timestamp = time.Now().UTC()
	l.UpdatedAt = nil

	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.ActivityLog{}, apperr.Wrap(apperr.Internal, "create activity log", err)
	}
	return l, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ActivityLog, error) {
	var l models.ActivityLog
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err == mongo.ErrNoDocuments {
		return models.ActivityLog{}, apperr.New(apperr.NotFound, "activity log not found")
	}
	if err != nil {
		return models.ActivityLog{}, apperr.Wrap(apperr.Internal, "load activity log", err)
	}
	return l, nil
}

// Filter narrows a log query. Date bounds are inclusive.
type Filter struct {
	GroupID *primitive.ObjectID
	Start   *time.Time
	End     *time.Time
	Limit   *int64
}

func (f Filter) apply(query bson.M) *options.FindOptions {
	if f.GroupID != nil {
		query["group_id"] = *f.GroupID
	}
	ts := bson.M{}
	if f.Start != nil {
		ts["$gte"] = *f.Start
	}
	if f.End != nil {
		ts["$lte"] = *f.End
	}
	if len(ts) > 0 {
		query["timestamp"] = ts
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if f.Limit != nil {
		n := *f.Limit
		if n <= 0 {
			n = defaultLimit
		}
		opts.SetLimit(n)
	}
	return opts
}

// QueryByUser returns uid's log entries, newest first.
func (s *Store) QueryByUser(ctx context.Context, uid string, f Filter) ([]models.ActivityLog, error) {
	query := bson.M{"user_id": uid}
	return s.find(ctx, query, f.apply(query))
}

// QueryByGroup returns a group's log entries across all members, newest
// first.
func (s *Store) QueryByGroup(ctx context.Context, groupID primitive.ObjectID, f Filter) ([]models.ActivityLog, error) {
	f.GroupID = nil
	query := bson.M{"group_id": groupID}
	return s.find(ctx, query, f.apply(query))
}

func (s *Store) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.ActivityLog, error) {
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "query activity logs", err)
	}
	defer cur.Close(ctx)

	logs := []models.ActivityLog{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "decode activity logs", err)
	}
	return logs, nil
}

// UpdateNotes replaces the notes on a log entry and returns the updated
// entry. Ownership is checked by the caller.
func (s *Store) UpdateNotes(ctx context.Context, id primitive.ObjectID, notes string) (models.ActivityLog, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"notes": notes, "updated_at": time.Now().UTC()}})
	if err != nil {
		return models.ActivityLog{}, apperr.Wrap(apperr.Internal, "update notes", err)
	}
	if res.MatchedCount == 0 {
		return models.ActivityLog{}, apperr.New(apperr.NotFound, "activity log not found")
	}
	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "delete activity log", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "activity log not found")
	}
	return nil
}
