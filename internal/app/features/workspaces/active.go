// internal/app/features/workspaces/active.go
package workspaces

import (
	"context"
	"net/http"

	membershipstore "github.com/rollcallhq/rollcall/internal/app/store/memberships"
	workspacestore "github.com/rollcallhq/rollcall/internal/app/store/workspaces"
	"github.com/rollcallhq/rollcall/internal/app/system/httpjson"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/app/system/workspace"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type selectRequest struct {
	WorkspaceID string `json:"workspace_id"`
}

type activeResponse struct {
	Workspace *models.Workspace `json:"workspace"`
}

// HandleGetActive re-validates the asserted workspace against live
// memberships and returns it. A missing or stale assertion is not an
// error: the response carries a null workspace and the stale cookie is
// dropped.
// GET /workspaces/active
func (h *Handler) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		switch fault.KindOf(err) {
		case fault.NoActiveWorkspace:
			httpjson.Write(w, http.StatusOK, activeResponse{})
		case fault.Forbidden:
			h.SM.ClearActiveWorkspace(w, r)
			httpjson.Write(w, http.StatusOK, activeResponse{})
		default:
			httpjson.Error(w, h.Log, err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ws, err := workspacestore.New(h.DB).GetByID(ctx, info.WorkspaceID)
	if err != nil {
		if err == workspacestore.ErrNotFound {
			// Membership outlived the workspace document; fail closed.
			h.SM.ClearActiveWorkspace(w, r)
			httpjson.Write(w, http.StatusOK, activeResponse{})
			return
		}
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "load workspace failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, activeResponse{Workspace: &ws})
}

// HandleSetActive asserts a new active workspace after verifying the
// caller holds a membership in it.
// POST /workspaces/active
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req selectRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	wsID, err := primitive.ObjectIDFromHex(req.WorkspaceID)
	if err != nil {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "workspace_id is not a valid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := membershipstore.New(h.DB).Get(ctx, wsID, userID); err != nil {
		if err == membershipstore.ErrNotFound {
			httpjson.Error(w, h.Log, fault.New(fault.Forbidden, "not a member of this workspace"))
			return
		}
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "membership lookup failed", err))
		return
	}

	ws, err := workspacestore.New(h.DB).GetByID(ctx, wsID)
	if err != nil {
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "load workspace failed", err))
		return
	}

	if err := h.SM.SetActiveWorkspace(w, r, wsID.Hex()); err != nil {
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "set active workspace failed", err))
		return
	}

	h.Log.Info("active workspace set",
		zap.String("workspace_id", wsID.Hex()),
		zap.String("user_id", userID.Hex()))

	httpjson.Write(w, http.StatusOK, ws)
}

// HandleClearActive drops the workspace assertion.
// DELETE /workspaces/active
func (h *Handler) HandleClearActive(w http.ResponseWriter, r *http.Request) {
	if _, err := currentUserID(r); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	h.SM.ClearActiveWorkspace(w, r)
	w.WriteHeader(http.StatusNoContent)
}
