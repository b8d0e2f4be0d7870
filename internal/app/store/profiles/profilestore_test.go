package profilestore_test

import (
	"testing"
	"time"

	profilestore "github.com/tallyhub/tallyhub/internal/app/store/profiles"
	"github.com/tallyhub/tallyhub/internal/app/system/apperr"
	"github.com/tallyhub/tallyhub/internal/testutil"
)

func TestStore_Ensure_CreatesOnFirstSight(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Ensure(ctx, "user-1", "Alex Example", "alex@example.com", "https://example.com/a.png")
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	p, err := store.GetByUID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUID failed: %v", err)
	}
	if p.DisplayName != "Alex Example" || p.Email != "alex@example.com" {
		t.Errorf("unexpected profile: %+v", p)
	}
	if p.CreatedAt.IsZero() || p.LastLogin.IsZero() {
		t.Error("expected CreatedAt and LastLogin to be set")
	}
}

func TestStore_Ensure_RefreshesLastLoginOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Ensure(ctx, "user-1", "Original Name", "orig@example.com", ""); err != nil {
		t.Fatalf("first Ensure failed: %v", err)
	}
	first, err := store.GetByUID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUID failed: %v", err)
	}

	// A second call with different claims must not overwrite the profile
	if err := store.Ensure(ctx, "user-1", "Changed Name", "changed@example.com", ""); err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	second, err := store.GetByUID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUID failed: %v", err)
	}

	if second.DisplayName != "Original Name" || second.Email != "orig@example.com" {
		t.Errorf("identity fields changed: %+v", second)
	}
	if second.LastLogin.Before(first.LastLogin) {
		t.Errorf("LastLogin went backwards: %v -> %v", first.LastLogin, second.LastLogin)
	}
}

func TestStore_GetByUID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByUID(ctx, "nobody")
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestStore_Apply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateProfile(ctx, "user-1", "Alex", "alex@example.com")

	name := "Alexandra"
	desc := "Weekend runner"
	updated, err := store.Apply(ctx, "user-1", profilestore.Update{
		DisplayName: &name,
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if updated.DisplayName != "Alexandra" || updated.Description != "Weekend runner" {
		t.Errorf("unexpected profile: %+v", updated)
	}
	// Untouched field survives
	if updated.Email != "alex@example.com" {
		t.Errorf("Email changed: %q", updated.Email)
	}
}

func TestStore_Apply_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	name := "Ghost"
	_, err := store.Apply(ctx, "nobody", profilestore.Update{DisplayName: &name})
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestStore_Apply_EmptyUpdateReturnsProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateProfile(ctx, "user-1", "Alex", "alex@example.com")

	p, err := store.Apply(ctx, "user-1", profilestore.Update{})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if p.DisplayName != "Alex" {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestStore_UpdateLastLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Ensure(ctx, "user-9", "Niko", "niko@example.com", ""); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	before, err := store.GetByUID(ctx, "user-9")
	if err != nil {
		t.Fatalf("GetByUID failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if err := store.UpdateLastLogin(ctx, "user-9"); err != nil {
		t.Fatalf("UpdateLastLogin failed: %v", err)
	}

	after, err := store.GetByUID(ctx, "user-9")
	if err != nil {
		t.Fatalf("GetByUID failed: %v", err)
	}
	if !after.LastLogin.After(before.LastLogin) {
		t.Error("expected LastLogin to advance")
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Error("CreatedAt changed on a last-login bump")
	}
}

func TestStore_UpdateLastLogin_MissingProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Not an error, and the profile must not be conjured into existence.
	if err := store.UpdateLastLogin(ctx, "ghost-1"); err != nil {
		t.Fatalf("UpdateLastLogin on missing profile errored: %v", err)
	}
	if _, err := store.GetByUID(ctx, "ghost-1"); !apperr.IsNotFound(err) {
		t.Errorf("expected profile to stay absent, got err=%v", err)
	}
}
