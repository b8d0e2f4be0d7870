// Package profilestore persists user profiles keyed by the identity
// provider's user id.
package profilestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

func (s *Store) GetByUID(ctx context.Context, uid string) (models.Profile, error) {
	var p models.Profile
	err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Profile{}, apperr.New(apperr.NotFound, "profile not found")
	}
	if err != nil {
		return models.Profile{}, apperr.Wrap(apperr.Internal, "load profile", err)
	}
	return p, nil
}

// Ensure creates the profile on first sight of a uid and refreshes
// last_login on every call. Concurrent callers race harmlessly: the upsert
// is atomic and $setOnInsert leaves an existing document's identity fields
// alone.
func (s *Store) Ensure(ctx context.Context, uid, displayName, email, photoURL string) error {
	now := time.Now().UTC()

	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{
			"$set": bson.M{"last_login": now},
			"$setOnInsert": bson.M{
				"display_name": displayName,
				"email":        email,
				"photo_url":    photoURL,
				"description":  "",
				"created_at":   now,
			},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return apperr.Wrap(apperr.Internal, "ensure profile", err)
	}
	return nil
}

// UpdateLastLogin bumps last_login on an existing profile. A missing
// profile is not an error and is never created here; Ensure owns creation.
func (s *Store) UpdateLastLogin(ctx context.Context, uid string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$set": bson.M{"last_login": time.Now().UTC()}})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "update last login", err)
	}
	return nil
}

// Update holds the profile fields a user may change. Nil fields are left
// untouched.
type Update struct {
	DisplayName *string
	Description *string
	PhotoURL    *string
}

// Apply updates the profile and returns its post-update state.
func (s *Store) Apply(ctx context.Context, uid string, upd Update) (models.Profile, error) {
	set := bson.M{}
	if upd.DisplayName != nil {
		set["display_name"] = *upd.DisplayName
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.PhotoURL != nil {
		set["photo_url"] = *upd.PhotoURL
	}

	if len(set) > 0 {
		res, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
		if err != nil {
			return models.Profile{}, apperr.Wrap(apperr.Internal, "update profile", err)
		}
		if res.MatchedCount == 0 {
			return models.Profile{}, apperr.New(apperr.NotFound, "profile not found")
		}
	}

	return s.GetByUID(ctx, uid)
}
