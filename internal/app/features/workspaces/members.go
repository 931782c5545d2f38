// internal/app/features/workspaces/members.go
package workspaces

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	membershipstore "github.com/rollcallhq/rollcall/internal/app/store/memberships"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/httpjson"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/app/system/workspace"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type rolesRequest struct {
	Roles []string `json:"roles"`
}

// HandleListMembers returns the memberships of the active workspace.
// Any member may read the list.
// GET /workspaces/members
func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	memberships := membershipstore.New(h.DB)
	info, err := workspace.Resolve(r, h.SM, memberships)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := memberships.ListByWorkspace(ctx, info.WorkspaceID)
	if err != nil {
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "list members failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// HandleSetMemberRoles replaces a member's role set. Owner-only; the
// owner role itself cannot be granted or kept through this endpoint,
// and demoting the last owner is rejected.
// PUT /workspaces/members/{userID}
func (h *Handler) HandleSetMemberRoles(w http.ResponseWriter, r *http.Request) {
	memberships := membershipstore.New(h.DB)
	info, err := workspace.Resolve(r, h.SM, memberships)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := info.Require(authz.CapManageMembers); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "user id is not a valid id"))
		return
	}

	var req rolesRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	for _, role := range req.Roles {
		switch role {
		case models.RoleViewer, models.RolePeopleManager, models.RoleSessionManager:
		default:
			httpjson.Error(w, h.Log, fault.New(fault.Invalid, "role is not assignable: "+role))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	m, err := memberships.SetRoles(ctx, info.WorkspaceID, targetID, req.Roles)
	if err != nil {
		switch err {
		case membershipstore.ErrNotFound:
			httpjson.Error(w, h.Log, fault.New(fault.NotFound, "member not found"))
		case membershipstore.ErrLastOwner:
			httpjson.Error(w, h.Log, fault.New(fault.Conflict, "workspace must keep at least one owner"))
		default:
			httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "set member roles failed", err))
		}
		return
	}

	h.Log.Info("member roles updated",
		zap.String("workspace_id", info.WorkspaceID.Hex()),
		zap.String("target_user_id", targetID.Hex()),
		zap.Strings("roles", m.Roles),
		zap.String("updated_by", info.UserID.Hex()))

	httpjson.Write(w, http.StatusOK, m)
}

// HandleRemoveMember removes a member from the active workspace.
// Owner-only; removing the last owner is rejected.
// DELETE /workspaces/members/{userID}
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	memberships := membershipstore.New(h.DB)
	info, err := workspace.Resolve(r, h.SM, memberships)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := info.Require(authz.CapManageMembers); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "user id is not a valid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := memberships.Remove(ctx, info.WorkspaceID, targetID); err != nil {
		switch err {
		case membershipstore.ErrNotFound:
			httpjson.Error(w, h.Log, fault.New(fault.NotFound, "member not found"))
		case membershipstore.ErrLastOwner:
			httpjson.Error(w, h.Log, fault.New(fault.Conflict, "workspace must keep at least one owner"))
		default:
			httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "remove member failed", err))
		}
		return
	}

	h.Log.Info("member removed",
		zap.String("workspace_id", info.WorkspaceID.Hex()),
		zap.String("target_user_id", targetID.Hex()),
		zap.String("removed_by", info.UserID.Hex()))

	w.WriteHeader(http.StatusNoContent)
}
