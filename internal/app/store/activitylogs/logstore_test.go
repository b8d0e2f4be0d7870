package logstore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	logstore "github.com/tallyhub/tallyhub/internal/app/store/activitylogs"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/domain/models"
	"github.com/tallyhub/tallyhub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := logstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Runners", "creator-1")
	activity := fixtures.CreateActivity(ctx, group.ID, "5k Run", 50, "creator-1")

	created, err := store.Create(ctx, models.ActivityLog{
		UserID:       "member-1",
		GroupID:      group.ID,
		ActivityID:   activity.ID,
		ActivityName: activity.Name,
		Points:       activity.PointValue,
		Notes:        "felt great",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Timestamp.IsZero() {
		t.Error("expected Timestamp to be stamped")
	}
	if created.Points != 50 || created.ActivityName != "5k Run" {
		t.Errorf("denormalized fields wrong: %+v", created)
	}
}

func TestStore_CreateStampsTimestampServerSide(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := logstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Runners", "creator-1")
	activity := fixtures.CreateActivity(ctx, group.ID, "5k Run", 50, "creator-1")

	backdated := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := store.Create(ctx, models.ActivityLog{
		UserID:       "member-1",
		GroupID:      group.ID,
		ActivityID:   activity.ID,
		ActivityName: activity.Name,
		Points:       activity.PointValue,
		Timestamp:    backdated,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Timestamp.Equal(backdated) {
		t.Error("caller-supplied timestamp was persisted; entries must be stamped at write time")
	}
	if time.Since(created.Timestamp) > time.Minute {
		t.Errorf("timestamp not near now: %v", created.Timestamp)
	}
}

func TestStore_SnapshotSurvivesActivityChanges(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := logstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Runners", "creator-1")
	activity := fixtures.CreateActivity(ctx, group.ID, "5k Run", 50, "creator-1")
	entry := fixtures.CreateLog(ctx, "member-1", activity, time.Now())

	// Rename and revalue the activity, then delete it outright
	_, err := db.Collection("group_activities").UpdateByID(ctx, activity.ID,
		map[string]any{"$set": map[string]any{"name": "10k Run", "point_value": 100}})
	if err != nil {
		t.Fatalf("update activity: %v", err)
	}
	if _, err := db.Collection("group_activities").DeleteOne(ctx, map[string]any{"_id": activity.ID}); err != nil {
		t.Fatalf("delete activity: %v", err)
	}

	got, err := store.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ActivityName != "5k Run" || got.Points != 50 {
		t.Errorf("log snapshot changed: name=%q points=%d", got.ActivityName, got.Points)
	}
}

func TestStore_QueryByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := logstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Runners", "creator-1")
	other := fixtures.CreateGroup(ctx, "Walkers", "creator-2")
	run := fixtures.CreateActivity(ctx, group.ID, "5k Run", 50, "creator-1")
	walk := fixtures.CreateActivity(ctx, other.ID, "Walk", 10, "creator-2")

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	oldest := fixtures.CreateLog(ctx, "member-1", run, base.AddDate(0, 0, -2))
	middle := fixtures.CreateLog(ctx, "member-1", walk, base.AddDate(0, 0, -1))
	newest := fixtures.CreateLog(ctx, "member-1", run, base)
	fixtures.CreateLog(ctx, "someone-else", run, base)

	t.Run("all logs newest first", func(t *testing.T) {
		logs, err := store.QueryByUser(ctx, "member-1", logstore.Filter{})
		if err != nil {
			t.Fatalf("QueryByUser failed: %v", err)
		}
		if len(logs) != 3 {
			t.Fatalf("got %d logs, want 3", len(logs))
		}
		if logs[0].ID != newest.ID || logs[2].ID != oldest.ID {
			t.Errorf("unexpected order: %v", []string{logs[0].ActivityName, logs[1].ActivityName, logs[2].ActivityName})
		}
	})

	t.Run("group filter", func(t *testing.T) {
		logs, err := store.QueryByUser(ctx, "member-1", logstore.Filter{GroupID: &group.ID})
		if err != nil {
			t.Fatalf("QueryByUser failed: %v", err)
		}
		if len(logs) != 2 {
			t.Fatalf("got %d logs, want 2", len(logs))
		}
		for _, l := range logs {
			if l.GroupID != group.ID {
				t.Errorf("log from wrong group: %+v", l)
			}
		}
	})

	t.Run("date bounds are inclusive", func(t *testing.T) {
		start := oldest.Timestamp
		end := middle.Timestamp
		logs, err := store.QueryByUser(ctx, "member-1", logstore.Filter{Start: &start, End: &end})
		if err != nil {
			t.Fatalf("QueryByUser failed: %v", err)
		}
		if len(logs) != 2 {
			t.Fatalf("got %d logs, want 2 (boundary entries included)", len(logs))
		}
	})

	t.Run("limit", func(t *testing.T) {
		limit := int64(1)
		logs, err := store.QueryByUser(ctx, "member-1", logstore.Filter{Limit: &limit})
		if err != nil {
			t.Fatalf("QueryByUser failed: %v", err)
		}
		if len(logs) != 1 || logs[0].ID != newest.ID {
			t.Errorf("limited query returned %d logs", len(logs))
		}
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		limit := int64(-3)
		logs, err := store.QueryByUser(ctx, "member-1", logstore.Filter{Limit: &limit})
		if err != nil {
			t.Fatalf("QueryByUser failed: %v", err)
		}
		// 3 entries exist, default limit is 20, so all come back
		if len(logs) != 3 {
			t.Errorf("got %d logs, want 3", len(logs))
		}
	})
}

func TestStore_QueryByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := logstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Runners", "creator-1")
	run := fixtures.CreateActivity(ctx, group.ID, "5k Run", 50, "creator-1")

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	fixtures.CreateLog(ctx, "member-1", run, base.AddDate(0, 0, -1))
	newest := fixtures.CreateLog(ctx, "member-2", run, base)

	logs, err := store.QueryByGroup(ctx, group.ID, logstore.Filter{})
	if err != nil {
		t.Fatalf("QueryByGroup failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs, want 2", len(logs))
	}
	// Entries from every member, newest first
	if logs[0].ID != newest.ID {
		t.Errorf("first log = %+v, want newest", logs[0])
	}
}

func TestStore_UpdateNotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := logstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Runners", "creator-1")
	run := fixtures.CreateActivity(ctx, group.ID, "5k Run", 50, "creator-1")
	entry := fixtures.CreateLog(ctx, "member-1", run, time.Now())

	updated, err := store.UpdateNotes(ctx, entry.ID, "new shoes today")
	if err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	if updated.Notes != "new shoes today" {
		t.Errorf("Notes = %q", updated.Notes)
	}
	if updated.UpdatedAt == nil {
		t.Error("expected UpdatedAt to be set")
	}
	// The point snapshot is untouched
	if updated.Points != 50 {
		t.Errorf("Points = %d, want 50", updated.Points)
	}

	_, err = store.UpdateNotes(ctx, primitive.NewObjectID(), "x")
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := logstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Runners", "creator-1")
	run := fixtures.CreateActivity(ctx, group.ID, "5k Run", 50, "creator-1")
	entry := fixtures.CreateLog(ctx, "member-1", run, time.Now())

	if err := store.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, entry.ID); !apperr.IsNotFound(err) {
		t.Errorf("second Delete error = %v, want NotFound", err)
	}
}
