package workspacestore_test

import (
	"testing"

	workspacestore "github.com/rollcallhq/rollcall/internal/app/store/workspaces"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"github.com/rollcallhq/rollcall/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := workspacestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")

	ws, err := store.Create(ctx, "  Chess Club  ", owner.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ws.Name != "Chess Club" {
		t.Errorf("Name should be trimmed, got %q", ws.Name)
	}
	if ws.OwnerUserID != owner.ID {
		t.Error("OwnerUserID should be the creator")
	}

	// The creator gets an owner membership in the same call.
	var m models.Membership
	err = db.Collection("memberships").FindOne(ctx, bson.M{
		"workspace_id": ws.ID,
		"user_id":      owner.ID,
	}).Decode(&m)
	if err != nil {
		t.Fatalf("owner membership not found: %v", err)
	}
	if !m.HasRole(models.RoleOwner) {
		t.Errorf("creator membership roles: got %v, want owner", m.Roles)
	}
}

func TestStore_Create_EmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := workspacestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "   ", primitive.NewObjectID()); err == nil {
		t.Fatal("expected error for blank workspace name")
	}
}

func TestStore_Create_DuplicateNamesAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := workspacestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice")
	bob := fixtures.CreateUser(ctx, "bob")

	if _, err := store.Create(ctx, "Book Club", alice.ID); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	// Workspace names are not unique; two tenants may share one.
	if _, err := store.Create(ctx, "Book Club", bob.ID); err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := workspacestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != workspacestore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := workspacestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice")
	bob := fixtures.CreateUser(ctx, "bob")

	zebra := fixtures.CreateWorkspace(ctx, "Zebra Society", alice.ID)
	apple := fixtures.CreateWorkspace(ctx, "Apple Club", alice.ID)
	fixtures.CreateWorkspace(ctx, "Bob's Workspace", bob.ID)

	list, err := store.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(list))
	}
	// Sorted by folded name.
	if list[0].ID != apple.ID || list[1].ID != zebra.ID {
		t.Errorf("expected [Apple Club, Zebra Society], got [%s, %s]", list[0].Name, list[1].Name)
	}
}

func TestStore_ListForUser_NoMemberships(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := workspacestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	list, err := store.ListForUser(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d workspaces", len(list))
	}
}
