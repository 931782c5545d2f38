package peoplestore_test

import (
	"testing"

	peoplestore "github.com/rollcallhq/rollcall/internal/app/store/people"
	"github.com/rollcallhq/rollcall/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := peoplestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	wsID := primitive.NewObjectID()
	p, err := store.Create(ctx, wsID, "  Ada Lovelace  ")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name != "Ada Lovelace" {
		t.Errorf("Name should be trimmed, got %q", p.Name)
	}
	if p.WorkspaceID != wsID {
		t.Error("WorkspaceID not set")
	}
}

func TestStore_Create_EmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := peoplestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, primitive.NewObjectID(), "   "); err == nil {
		t.Fatal("expected error for blank person name")
	}
}

func TestStore_GetByID_WorkspaceScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := peoplestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	wsA := primitive.NewObjectID()
	wsB := primitive.NewObjectID()
	p := fixtures.CreatePerson(ctx, wsA, "Ada")

	got, err := store.GetByID(ctx, wsA, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ID != p.ID {
		t.Error("GetByID returned the wrong person")
	}

	// A valid id from another tenant reads as missing.
	if _, err := store.GetByID(ctx, wsB, p.ID); err != peoplestore.ErrNotFound {
		t.Fatalf("cross-workspace read: expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListByWorkspace_Sorted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := peoplestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	wsID := primitive.NewObjectID()
	fixtures.CreatePerson(ctx, wsID, "zoe")
	fixtures.CreatePerson(ctx, wsID, "Ada")
	fixtures.CreatePerson(ctx, primitive.NewObjectID(), "Other Tenant")

	list, err := store.ListByWorkspace(ctx, wsID)
	if err != nil {
		t.Fatalf("ListByWorkspace failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 people, got %d", len(list))
	}
	if list[0].Name != "Ada" || list[1].Name != "zoe" {
		t.Errorf("roster should sort case-insensitively, got [%s, %s]", list[0].Name, list[1].Name)
	}
}

func TestStore_Rename(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := peoplestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	wsID := primitive.NewObjectID()
	p := fixtures.CreatePerson(ctx, wsID, "Ada")

	got, err := store.Rename(ctx, wsID, p.ID, "Ada Lovelace")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if got.Name != "Ada Lovelace" {
		t.Errorf("Name: got %q", got.Name)
	}
	if !got.UpdatedAt.After(p.UpdatedAt) {
		t.Error("UpdatedAt should advance on rename")
	}
}

func TestStore_Rename_CrossWorkspace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := peoplestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fixtures.CreatePerson(ctx, primitive.NewObjectID(), "Ada")

	if _, err := store.Rename(ctx, primitive.NewObjectID(), p.ID, "Eve"); err != peoplestore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := peoplestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	wsID := primitive.NewObjectID()
	p := fixtures.CreatePerson(ctx, wsID, "Ada")

	if err := store.Delete(ctx, wsID, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, wsID, p.ID); err != peoplestore.ErrNotFound {
		t.Fatalf("expected person gone, got %v", err)
	}

	if err := store.Delete(ctx, wsID, p.ID); err != peoplestore.ErrNotFound {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}
}
