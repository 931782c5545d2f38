package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data. Documents
// are inserted directly, bypassing store validation, so tests can set
// up exactly the state they need.
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

// CreateUser inserts a user with an unusable password hash.
func (f *Fixtures) CreateUser(ctx context.Context, username string) models.User {
	f.t.Helper()

	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: "!",
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateWorkspace inserts a workspace together with an owner
// membership for ownerID, matching what workspace creation produces.
func (f *Fixtures) CreateWorkspace(ctx context.Context, name string, ownerID primitive.ObjectID) models.Workspace {
	f.t.Helper()

	now := time.Now().UTC()
	ws := models.Workspace{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		OwnerUserID: ownerID,
		CreatedAt:   now,
	}
	if _, err := f.db.Collection("workspaces").InsertOne(ctx, ws); err != nil {
		f.t.Fatalf("failed to create test workspace: %v", err)
	}
	f.CreateMembership(ctx, ws.ID, ownerID, models.RoleOwner)
	return ws
}

// CreateMembership inserts a membership with the given roles.
func (f *Fixtures) CreateMembership(ctx context.Context, workspaceID, userID primitive.ObjectID, roles ...string) models.Membership {
	f.t.Helper()

	m := models.Membership{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Roles:       roles,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreatePerson inserts a roster person.
func (f *Fixtures) CreatePerson(ctx context.Context, workspaceID primitive.ObjectID, name string) models.Person {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Person{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		WorkspaceID: workspaceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("people").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test person: %v", err)
	}
	return p
}

// CreateInvitation inserts an invitation. A zero maxUses becomes 1;
// a nil expiresAt never expires.
func (f *Fixtures) CreateInvitation(ctx context.Context, workspaceID, createdBy primitive.ObjectID, code string, maxUses int, expiresAt *time.Time) models.Invitation {
	f.t.Helper()

	if maxUses < 1 {
		maxUses = 1
	}
	inv := models.Invitation{
		ID:          primitive.NewObjectID(),
		Code:        code,
		WorkspaceID: workspaceID,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   expiresAt,
		MaxUses:     maxUses,
	}
	if _, err := f.db.Collection("invitations").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("failed to create test invitation: %v", err)
	}
	return inv
}

// CreateSession inserts an attendance session with the given records.
func (f *Fixtures) CreateSession(ctx context.Context, workspaceID, createdBy primitive.ObjectID, date, name string, records []models.AttendanceRecord) models.AttendanceSession {
	f.t.Helper()

	if records == nil {
		records = []models.AttendanceRecord{}
	}
	now := time.Now().UTC()
	sess := models.AttendanceSession{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		Date:        date,
		Name:        name,
		NameCI:      text.Fold(name),
		Records:     records,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("attendance_sessions").InsertOne(ctx, sess); err != nil {
		f.t.Fatalf("failed to create test session: %v", err)
	}
	return sess
}
