package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tallyhub/tallyhub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Calls stack: an existing route context keeps its earlier params.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateProfile creates a test profile for the given provider uid.
func (f *Fixtures) CreateProfile(ctx context.Context, uid, displayName, email string) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	profile := models.Profile{
		UID:         uid,
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   now,
		LastLogin:   now,
	}

	_, err := f.db.Collection("profiles").InsertOne(ctx, profile)
	if err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}

	return profile
}

// CreateGroup creates a test group owned by creatorUID, including the
// creator's membership row and snapshot entry, the same shape the groups
// store produces.
func (f *Fixtures) CreateGroup(ctx context.Context, name, creatorUID string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test group description",
		Visibility:  models.VisibilityPrivate,
		CreatedBy:   creatorUID,
		CreatedAt:   now,
		Members: []models.MemberSnapshot{
			{UID: creatorUID, Role: models.RoleCreator, JoinedAt: now},
		},
	}

	_, err := f.db.Collection("groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}

	member := models.GroupMember{
		ID:       primitive.NewObjectID(),
		GroupID:  group.ID,
		UID:      creatorUID,
		Role:     models.RoleCreator,
		JoinedAt: now,
	}
	if _, err := f.db.Collection("group_members").InsertOne(ctx, member); err != nil {
		f.t.Fatalf("failed to create creator membership: %v", err)
	}

	return group
}

// AddMember creates a membership row linking uid to the group with the
// given role.
func (f *Fixtures) AddMember(ctx context.Context, groupID primitive.ObjectID, uid, role string) models.GroupMember {
	f.t.Helper()

	member := models.GroupMember{
		ID:       primitive.NewObjectID(),
		GroupID:  groupID,
		UID:      uid,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("group_members").InsertOne(ctx, member)
	if err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}

	return member
}

// CreateActivity creates a test activity in the given group.
func (f *Fixtures) CreateActivity(ctx context.Context, groupID primitive.ObjectID, name string, points int, createdBy string) models.Activity {
	f.t.Helper()

	activity := models.Activity{
		ID:          primitive.NewObjectID(),
		GroupID:     groupID,
		Name:        name,
		Description: "Test activity description",
		PointValue:  points,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := f.db.Collection("group_activities").InsertOne(ctx, activity)
	if err != nil {
		f.t.Fatalf("failed to create test activity: %v", err)
	}

	return activity
}

// CreateLog creates an activity log entry at the given timestamp, with
// the activity name and points denormalized the way the logs store writes
// them.
func (f *Fixtures) CreateLog(ctx context.Context, uid string, activity models.Activity, at time.Time) models.ActivityLog {
	f.t.Helper()

	log := models.ActivityLog{
		ID:           primitive.NewObjectID(),
		UserID:       uid,
		GroupID:      activity.GroupID,
		ActivityID:   activity.ID,
		ActivityName: activity.Name,
		Points:       activity.PointValue,
		Timestamp:    at.UTC(),
	}

	_, err := f.db.Collection("activity_logs").InsertOne(ctx, log)
	if err != nil {
		f.t.Fatalf("failed to create test activity log: %v", err)
	}

	return log
}
