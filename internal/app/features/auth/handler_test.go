package auth_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	authfeature "github.com/rollcallhq/rollcall/internal/app/features/auth"
	sysauth "github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, db *mongo.Database) *authfeature.Handler {
	t.Helper()
	sm, err := sysauth.NewSessionManager(
		"test-session-key-0123456789ABCDEF0000",
		"rollcall-session",
		"rollcall-workspace",
		"", false, time.Hour, zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return authfeature.NewHandler(db, sm, zap.NewNop())
}

func TestHandleRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(http.MethodPost, "/auth/register",
		`{"username":"alice","password":"correct horse battery"}`)
	rec := testutil.NewRecorder()
	h.HandleRegister(rec, req)

	rec.AssertStatus(t, http.StatusCreated)

	var body struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Username != "alice" || body.ID == "" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestHandleRegister_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	first := testutil.NewJSONRequest(http.MethodPost, "/auth/register",
		`{"username":"alice","password":"pw one"}`)
	h.HandleRegister(testutil.NewRecorder(), first)

	second := testutil.NewJSONRequest(http.MethodPost, "/auth/register",
		`{"username":"ALICE","password":"pw two"}`)
	rec := testutil.NewRecorder()
	h.HandleRegister(rec, second)

	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleRegister_MissingFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(http.MethodPost, "/auth/register", `{"username":"alice"}`)
	rec := testutil.NewRecorder()
	h.HandleRegister(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	reg := testutil.NewJSONRequest(http.MethodPost, "/auth/register",
		`{"username":"alice","password":"correct horse battery"}`)
	h.HandleRegister(testutil.NewRecorder(), reg)

	req := testutil.NewJSONRequest(http.MethodPost, "/auth/login",
		`{"username":"alice","password":"correct horse battery"}`)
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if len(rec.Result().Cookies()) == 0 {
		t.Error("login should set the identity cookie")
	}
}

func TestHandleLogin_BadPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	reg := testutil.NewJSONRequest(http.MethodPost, "/auth/register",
		`{"username":"alice","password":"correct horse battery"}`)
	h.HandleRegister(testutil.NewRecorder(), reg)

	req := testutil.NewJSONRequest(http.MethodPost, "/auth/login",
		`{"username":"alice","password":"wrong"}`)
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestHandleMe_Unauthenticated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(http.MethodGet, "/auth/me", "")
	rec := testutil.NewRecorder()
	h.HandleMe(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}
