package memberstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	memberstore "github.com/tallyhub/tallyhub/internal/app/store/members"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/domain/models"
	"github.com/tallyhub/tallyhub/internal/testutil"
)

func TestStore_Add(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Chess Club", "creator-1")

	m, err := store.Add(ctx, group.ID, "member-1", models.RoleMember)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if m.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if m.JoinedAt.IsZero() {
		t.Error("expected JoinedAt to be set")
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Chess Club", "creator-1")

	if _, err := store.Add(ctx, group.ID, "member-1", models.RoleMember); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}

	_, err := store.Add(ctx, group.ID, "member-1", models.RoleAdmin)
	if apperr.KindOf(err) != apperr.Invalid {
		t.Errorf("duplicate Add error kind = %v, want Invalid", apperr.KindOf(err))
	}

	// Same uid in a different group is fine
	other := fixtures.CreateGroup(ctx, "Other Club", "creator-2")
	if _, err := store.Add(ctx, other.ID, "member-1", models.RoleMember); err != nil {
		t.Errorf("Add to different group failed: %v", err)
	}
}

func TestStore_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Chess Club", "creator-1")
	fixtures.AddMember(ctx, group.ID, "member-1", models.RoleMember)

	m, err := store.Get(ctx, group.ID, "member-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if m.Role != models.RoleMember {
		t.Errorf("Role = %q, want %q", m.Role, models.RoleMember)
	}

	_, err = store.Get(ctx, group.ID, "stranger")
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound for non-member, got %v", err)
	}
}

func TestStore_SetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Chess Club", "creator-1")
	fixtures.AddMember(ctx, group.ID, "member-1", models.RoleMember)

	if err := store.SetRole(ctx, group.ID, "member-1", models.RoleAdmin); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}

	m, err := store.Get(ctx, group.ID, "member-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want %q", m.Role, models.RoleAdmin)
	}

	err = store.SetRole(ctx, group.ID, "stranger", models.RoleAdmin)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound for non-member, got %v", err)
	}
}

func TestStore_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Chess Club", "creator-1")
	fixtures.AddMember(ctx, group.ID, "member-1", models.RoleMember)

	if err := store.Remove(ctx, group.ID, "member-1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if err := store.Remove(ctx, group.ID, "member-1"); !apperr.IsNotFound(err) {
		t.Errorf("second Remove error = %v, want NotFound", err)
	}
}

func TestStore_ListByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Chess Club", "creator-1")
	fixtures.AddMember(ctx, group.ID, "member-1", models.RoleMember)
	fixtures.AddMember(ctx, group.ID, "member-2", models.RoleAdmin)

	// members of an unrelated group must not leak in
	other := fixtures.CreateGroup(ctx, "Other Club", "creator-2")
	fixtures.AddMember(ctx, other.ID, "member-3", models.RoleMember)

	members, err := store.ListByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("got %d members, want 3", len(members))
	}

	// Longest-standing first: the creator joined at group creation
	if members[0].UID != "creator-1" {
		t.Errorf("first member = %q, want creator-1", members[0].UID)
	}
}
