// Package indexes creates the MongoDB indexes tallyhub depends on.
// EnsureAll runs at startup; every ensure* function is idempotent, and
// errors are aggregated so startup can fail fast with the full picture.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureProfiles(ctx, db); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureGroupMembers(ctx, db); err != nil {
		problems = append(problems, "group_members: "+err.Error())
	}
	if err := ensureGroupActivities(ctx, db); err != nil {
		problems = append(problems, "group_activities: "+err.Error())
	}
	if err := ensureActivityLogs(ctx, db); err != nil {
		problems = append(problems, "activity_logs: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameUnique(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

func listBySig(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// ensureIndexSet reconciles the desired indexes for one collection: an
// index with the same keys and options is reused, one with the same keys
// under a different name or options is dropped and recreated, and missing
// indexes are created.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listBySig(ctx, coll)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}

	var errs []string
	for _, m := range models {
		name := ""
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if sameUnique(unique, ex.Unique) && (name == "" || ex.Name == name) {
				continue
			}
			// Same keys, different name or options: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop %s: %v", coll.Name(), name, ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique != nil && *unique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("profiles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email lookup for admin tooling; not unique, the provider uid is.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_profiles_email"),
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("groups")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Case-folded name search.
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_groups_nameci"),
		},
		// Groups a user created.
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_groups_creator_created"),
		},
	})
}

func ensureGroupMembers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("group_members")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one membership row per (group, user); role changes update
		// the row in place.
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_members_group_uid"),
		},
		// "my groups" listing. Queries hint this index so its absence is a
		// configuration error rather than a silent collection scan.
		{
			Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "joined_at", Value: -1}},
			Options: options.Index().SetName("idx_members_user"),
		},
	})
}

func ensureGroupActivities(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("group_activities")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_activities_group"),
		},
	})
}

func ensureActivityLogs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("activity_logs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-user history, latest first; also serves the date-range filters.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_logs_user"),
		},
		// Per-group history, latest first.
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_logs_group"),
		},
		// Logs referencing an activity (admin views after activity deletion).
		{
			Keys:    bson.D{{Key: "activity_id", Value: 1}},
			Options: options.Index().SetName("idx_logs_activity"),
		},
	})
}
