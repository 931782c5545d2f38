// internal/app/features/sessions/sessions.go
package sessions

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	attendancestore "github.com/rollcallhq/rollcall/internal/app/store/attendance"
	membershipstore "github.com/rollcallhq/rollcall/internal/app/store/memberships"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/httpjson"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/app/system/workspace"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name"`
}

// sessionID parses the {sessionID} route parameter.
func sessionID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sessionID"))
	if err != nil {
		return primitive.NilObjectID, fault.New(fault.Invalid, "session id is not a valid id")
	}
	return id, nil
}

// HandleCreate opens a new attendance session in the active workspace.
// POST /sessions
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := info.Require(authz.CapManageSessions); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "session name is required"))
		return
	}
	if _, err := time.Parse(attendancestore.DateLayout, strings.TrimSpace(req.Date)); err != nil {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "session date must be YYYY-MM-DD"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	sess, err := attendancestore.New(h.DB).Create(ctx, info.WorkspaceID, info.UserID, req.Date, req.Name)
	if err != nil {
		if err == attendancestore.ErrDuplicateSession {
			httpjson.Error(w, h.Log, fault.New(fault.Conflict, "a session with this name already exists on this date"))
			return
		}
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "create session failed", err))
		return
	}

	h.Log.Info("attendance session created",
		zap.String("workspace_id", info.WorkspaceID.Hex()),
		zap.String("session_id", sess.ID.Hex()),
		zap.String("date", sess.Date),
		zap.String("created_by", info.UserID.Hex()))

	httpjson.Write(w, http.StatusCreated, sess)
}

// HandleList returns the active workspace's sessions, newest date
// first. Any member may read them.
// GET /sessions
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := attendancestore.New(h.DB).ListByWorkspace(ctx, info.WorkspaceID)
	if err != nil {
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "list sessions failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// HandleGet returns one session with its full record set. Closed
// sessions stay readable.
// GET /sessions/{sessionID}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	id, err := sessionID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sess, err := attendancestore.New(h.DB).GetByID(ctx, info.WorkspaceID, id)
	if err != nil {
		if err == attendancestore.ErrNotFound {
			httpjson.Error(w, h.Log, fault.New(fault.NotFound, "session not found"))
			return
		}
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "load session failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, sess)
}
