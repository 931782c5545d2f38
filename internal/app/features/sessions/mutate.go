// internal/app/features/sessions/mutate.go
package sessions

import (
	"context"
	"net/http"

	attendancestore "github.com/rollcallhq/rollcall/internal/app/store/attendance"
	membershipstore "github.com/rollcallhq/rollcall/internal/app/store/memberships"
	peoplestore "github.com/rollcallhq/rollcall/internal/app/store/people"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/httpjson"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/app/system/workspace"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type recordsRequest struct {
	Records []models.AttendanceRecord `json:"records"`
	Close   bool                      `json:"close,omitempty"`
}

// HandleUpdateRecords replaces a session's record set. The submitted
// list is the new truth: records not echoed back are dropped, and each
// record must name a distinct person from the workspace roster. With
// close set the replacement and the transition to closed land in one
// update, leaving no window for another writer between them.
// PUT /sessions/{sessionID}/records
func (h *Handler) HandleUpdateRecords(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := info.Require(authz.CapManageSessions); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	id, err := sessionID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req recordsRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.Records == nil {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "records is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.validateRecords(ctx, info.WorkspaceID, req.Records); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	sess, err := attendancestore.New(h.DB).Mutate(ctx, info.WorkspaceID, id,
		attendancestore.Mutation{Records: req.Records, Close: req.Close})
	if err != nil {
		h.writeMutateError(w, err)
		return
	}

	if req.Close {
		h.Log.Info("attendance session closed",
			zap.String("workspace_id", info.WorkspaceID.Hex()),
			zap.String("session_id", id.Hex()),
			zap.String("closed_by", info.UserID.Hex()))
	}

	httpjson.Write(w, http.StatusOK, sess)
}

// HandleClose transitions a session to closed. Closed is terminal; a
// second close reports the same conflict a record edit would.
// POST /sessions/{sessionID}/close
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := info.Require(authz.CapManageSessions); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	id, err := sessionID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	sess, err := attendancestore.New(h.DB).Mutate(ctx, info.WorkspaceID, id,
		attendancestore.Mutation{Close: true})
	if err != nil {
		h.writeMutateError(w, err)
		return
	}

	h.Log.Info("attendance session closed",
		zap.String("workspace_id", info.WorkspaceID.Hex()),
		zap.String("session_id", id.Hex()),
		zap.String("closed_by", info.UserID.Hex()))

	httpjson.Write(w, http.StatusOK, sess)
}

// validateRecords rejects duplicate person ids and ids outside the
// workspace roster before any write happens.
func (h *Handler) validateRecords(ctx context.Context, workspaceID primitive.ObjectID, records []models.AttendanceRecord) error {
	roster, err := peoplestore.New(h.DB).ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return fault.Wrap(fault.Internal, "load roster failed", err)
	}
	known := make(map[primitive.ObjectID]bool, len(roster))
	for _, p := range roster {
		known[p.ID] = true
	}

	seen := make(map[primitive.ObjectID]bool, len(records))
	for _, rec := range records {
		if seen[rec.PersonID] {
			return fault.New(fault.Invalid, "records list the same person twice")
		}
		seen[rec.PersonID] = true
		if !known[rec.PersonID] {
			return fault.New(fault.Invalid, "record names a person not on the roster")
		}
	}
	return nil
}

func (h *Handler) writeMutateError(w http.ResponseWriter, err error) {
	switch err {
	case attendancestore.ErrNotFound:
		httpjson.Error(w, h.Log, fault.New(fault.NotFound, "session not found"))
	case attendancestore.ErrClosed:
		httpjson.Error(w, h.Log, fault.New(fault.Conflict, "session is closed"))
	default:
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "update session failed", err))
	}
}
