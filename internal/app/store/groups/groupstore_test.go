package groupstore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	groupstore "github.com/tallyhub/tallyhub/internal/app/store/groups"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/domain/models"
	"github.com/tallyhub/tallyhub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := models.Group{
		Name:        "Morning Runners",
		Description: "A test group description",
		Visibility:  models.VisibilityPrivate,
		Tags:        []string{"running"},
		CreatedBy:   "creator-1",
	}

	created, err := store.Create(ctx, group)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	// The creator must appear in the display snapshot
	if len(created.Members) != 1 || created.Members[0].UID != "creator-1" || created.Members[0].Role != models.RoleCreator {
		t.Errorf("unexpected member snapshot: %+v", created.Members)
	}

	// ... and in the authoritative membership collection
	n, err := db.Collection("group_members").CountDocuments(ctx, bson.M{
		"group_id": created.ID,
		"uid":      "creator-1",
		"role":     models.RoleCreator,
	})
	if err != nil {
		t.Fatalf("count memberships: %v", err)
	}
	if n != 1 {
		t.Errorf("creator membership rows = %d, want 1", n)
	}
}

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Book Club", "creator-1")

	got, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Book Club" || got.CreatedBy != "creator-1" {
		t.Errorf("unexpected group: %+v", got)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound error, got %v", err)
	}
}

func TestStore_FindByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := fixtures.CreateGroup(ctx, "First Group", "user-1")
	time.Sleep(5 * time.Millisecond)
	second := fixtures.CreateGroup(ctx, "Second Group", "user-2")
	fixtures.AddMember(ctx, second.ID, "user-1", models.RoleMember)

	// user-1 is not in this one
	fixtures.CreateGroup(ctx, "Other Group", "user-3")

	groups, err := store.FindByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	// Newest first
	if groups[0].ID != second.ID || groups[1].ID != first.ID {
		t.Errorf("unexpected order: %q, %q", groups[0].Name, groups[1].Name)
	}
}

func TestStore_FindByUser_NoMemberships(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groups, err := store.FindByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("got %d groups, want 0", len(groups))
	}
}

func TestStore_FindByUser_SkipsOrphanedMemberships(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Doomed Group", "user-1")
	keep := fixtures.CreateGroup(ctx, "Kept Group", "user-1")

	// Delete the group document, leaving the membership row behind
	if _, err := db.Collection("groups").DeleteOne(ctx, bson.M{"_id": group.ID}); err != nil {
		t.Fatalf("delete group doc: %v", err)
	}

	groups, err := store.FindByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindByUser failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != keep.ID {
		t.Errorf("got %+v, want only the kept group", groups)
	}
}

func TestStore_MemberSnapshots(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Snapshot Group", "creator-1")

	snap := models.MemberSnapshot{UID: "member-1", Role: models.RoleMember, JoinedAt: time.Now().UTC()}
	if err := store.AppendMemberSnapshot(ctx, group.ID, snap); err != nil {
		t.Fatalf("AppendMemberSnapshot failed: %v", err)
	}

	got, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Members) != 2 {
		t.Fatalf("snapshot has %d members, want 2", len(got.Members))
	}

	if err := store.RemoveMemberSnapshot(ctx, group.ID, "member-1"); err != nil {
		t.Fatalf("RemoveMemberSnapshot failed: %v", err)
	}
	got, err = store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0].UID != "creator-1" {
		t.Errorf("snapshot after removal: %+v", got.Members)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Short Lived", "creator-1")

	n, err := store.Delete(ctx, group.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d documents, want 1", n)
	}

	n, err = store.Delete(ctx, group.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second delete removed %d documents, want 0", n)
	}
}
