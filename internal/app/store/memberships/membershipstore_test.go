package membershipstore_test

import (
	"testing"

	membershipstore "github.com/rollcallhq/rollcall/internal/app/store/memberships"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"github.com/rollcallhq/rollcall/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Add(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", owner.ID)
	bob := fixtures.CreateUser(ctx, "bob")

	m, err := store.Add(ctx, ws.ID, bob.ID, []string{models.RoleViewer})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !m.HasRole(models.RoleViewer) {
		t.Errorf("roles: got %v, want viewer", m.Roles)
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", owner.ID)
	bob := fixtures.CreateUser(ctx, "bob")

	if _, err := store.Add(ctx, ws.ID, bob.ID, []string{models.RoleViewer}); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	_, err := store.Add(ctx, ws.ID, bob.ID, []string{models.RoleViewer})
	if err != membershipstore.ErrDuplicateMembership {
		t.Fatalf("expected ErrDuplicateMembership, got %v", err)
	}
}

func TestStore_Add_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Add(ctx, primitive.NewObjectID(), primitive.NewObjectID(), []string{"superuser"})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Get(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != membershipstore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SetRoles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", owner.ID)
	bob := fixtures.CreateUser(ctx, "bob")
	fixtures.CreateMembership(ctx, ws.ID, bob.ID, models.RoleViewer)

	m, err := store.SetRoles(ctx, ws.ID, bob.ID, []string{models.RolePeopleManager, models.RoleSessionManager})
	if err != nil {
		t.Fatalf("SetRoles failed: %v", err)
	}
	if !m.HasRole(models.RolePeopleManager) || !m.HasRole(models.RoleSessionManager) {
		t.Errorf("roles: got %v", m.Roles)
	}
	if m.HasRole(models.RoleViewer) {
		t.Error("SetRoles replaces, so viewer should be gone")
	}
}

func TestStore_SetRoles_DeduplicatesInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", owner.ID)
	bob := fixtures.CreateUser(ctx, "bob")
	fixtures.CreateMembership(ctx, ws.ID, bob.ID, models.RoleViewer)

	m, err := store.SetRoles(ctx, ws.ID, bob.ID, []string{models.RoleViewer, models.RoleViewer})
	if err != nil {
		t.Fatalf("SetRoles failed: %v", err)
	}
	if len(m.Roles) != 1 {
		t.Errorf("roles should be deduplicated, got %v", m.Roles)
	}
}

func TestStore_SetRoles_RejectsOwnerGrant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", owner.ID)
	bob := fixtures.CreateUser(ctx, "bob")
	fixtures.CreateMembership(ctx, ws.ID, bob.ID, models.RoleViewer)

	// Owner is only ever granted by workspace creation.
	if _, err := store.SetRoles(ctx, ws.ID, bob.ID, []string{models.RoleOwner}); err == nil {
		t.Fatal("expected error when granting owner through SetRoles")
	}
}

func TestStore_SetRoles_LastOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", owner.ID)

	_, err := store.SetRoles(ctx, ws.ID, owner.ID, []string{models.RoleViewer})
	if err != membershipstore.ErrLastOwner {
		t.Fatalf("expected ErrLastOwner, got %v", err)
	}
}

func TestStore_SetRoles_OwnerWithBackup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", alice.ID)
	bob := fixtures.CreateUser(ctx, "bob")
	fixtures.CreateMembership(ctx, ws.ID, bob.ID, models.RoleOwner)

	// With a second owner present, demoting alice is allowed.
	m, err := store.SetRoles(ctx, ws.ID, alice.ID, []string{models.RoleViewer})
	if err != nil {
		t.Fatalf("SetRoles failed: %v", err)
	}
	if m.HasRole(models.RoleOwner) {
		t.Error("alice should no longer be an owner")
	}
}

func TestStore_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", owner.ID)
	bob := fixtures.CreateUser(ctx, "bob")
	fixtures.CreateMembership(ctx, ws.ID, bob.ID, models.RoleViewer)

	if err := store.Remove(ctx, ws.ID, bob.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := store.Get(ctx, ws.ID, bob.ID); err != membershipstore.ErrNotFound {
		t.Fatalf("expected membership gone, got %v", err)
	}
}

func TestStore_Remove_LastOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", owner.ID)

	if err := store.Remove(ctx, ws.ID, owner.ID); err != membershipstore.ErrLastOwner {
		t.Fatalf("expected ErrLastOwner, got %v", err)
	}
}

func TestStore_Remove_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Remove(ctx, primitive.NewObjectID(), primitive.NewObjectID()); err != membershipstore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListByWorkspace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", alice.ID)
	other := fixtures.CreateWorkspace(ctx, "Other", alice.ID)
	bob := fixtures.CreateUser(ctx, "bob")
	fixtures.CreateMembership(ctx, ws.ID, bob.ID, models.RoleViewer)

	list, err := store.ListByWorkspace(ctx, ws.ID)
	if err != nil {
		t.Fatalf("ListByWorkspace failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 memberships, got %d", len(list))
	}
	for _, m := range list {
		if m.WorkspaceID == other.ID {
			t.Error("list leaked a membership from another workspace")
		}
	}
}
