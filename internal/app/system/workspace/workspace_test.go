package workspace_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	membershipstore "github.com/rollcallhq/rollcall/internal/app/store/memberships"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/workspace"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"github.com/rollcallhq/rollcall/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-0123456789ABCDEF0000",
		"rollcall-session",
		"rollcall-workspace",
		"", false, time.Hour, zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

// requestWithWorkspace builds a request carrying an identity in context
// and a workspace assertion cookie.
func requestWithWorkspace(t *testing.T, sm *auth.SessionManager, userID primitive.ObjectID, wsID string) *http.Request {
	t.Helper()

	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := sm.SetActiveWorkspace(rec, seed, wsID); err != nil {
		t.Fatalf("SetActiveWorkspace failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return testutil.WithUser(req, userID, "tester")
}

func TestResolve(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	sm := newSessionManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", owner.ID)

	req := requestWithWorkspace(t, sm, owner.ID, ws.ID.Hex())
	info, err := workspace.Resolve(req, sm, membershipstore.New(db))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if info.WorkspaceID != ws.ID || info.UserID != owner.ID {
		t.Error("Resolve returned the wrong identifiers")
	}
	if !info.Effective.Can(authz.CapManageMembers) {
		t.Error("owner should resolve to full capabilities")
	}
}

func TestResolve_Unauthenticated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sm := newSessionManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := workspace.Resolve(req, sm, membershipstore.New(db))
	if fault.KindOf(err) != fault.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestResolve_NoAssertion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sm := newSessionManager(t)

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/", nil),
		primitive.NewObjectID(), "tester")
	_, err := workspace.Resolve(req, sm, membershipstore.New(db))
	if fault.KindOf(err) != fault.NoActiveWorkspace {
		t.Fatalf("expected NoActiveWorkspace, got %v", err)
	}
}

func TestResolve_NotAMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	sm := newSessionManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "alice")
	ws := fixtures.CreateWorkspace(ctx, "Chess Club", owner.ID)
	outsider := fixtures.CreateUser(ctx, "mallory")

	// A forged or stale assertion fails against live memberships.
	req := requestWithWorkspace(t, sm, outsider.ID, ws.ID.Hex())
	_, err := workspace.Resolve(req, sm, membershipstore.New(db))
	if fault.KindOf(err) != fault.Forbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestInfo_Require(t *testing.T) {
	info := workspace.Info{
		Membership: models.Membership{Roles: []string{models.RoleViewer}},
		Effective:  authz.Resolve([]string{models.RoleViewer}),
	}

	if err := info.Require(authz.CapViewWorkspace); err != nil {
		t.Errorf("viewer should pass CapViewWorkspace: %v", err)
	}
	err := info.Require(authz.CapManagePeople)
	if fault.KindOf(err) != fault.Forbidden {
		t.Errorf("expected Forbidden, got %v", err)
	}
}
