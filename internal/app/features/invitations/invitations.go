// internal/app/features/invitations/invitations.go
package invitations

import (
	"context"
	"net/http"
	"time"

	invitationstore "github.com/rollcallhq/rollcall/internal/app/store/invitations"
	membershipstore "github.com/rollcallhq/rollcall/internal/app/store/memberships"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/httpjson"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/app/system/workspace"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"go.uber.org/zap"
)

// createRequest's ttl_hours is a pointer so an explicit zero is
// distinguishable from an omitted field and can be rejected as invalid.
type createRequest struct {
	Code      string     `json:"code,omitempty"`
	MaxUses   int        `json:"max_uses,omitempty"`
	TTLHours  *int       `json:"ttl_hours,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// HandleCreate issues an invitation for the active workspace.
// Owner-only. A missing code is generated; max_uses is floored at 1;
// with neither ttl_hours nor expires_at the code never expires.
// POST /invitations
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := info.Require(authz.CapManageInvitations); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	maxUses := req.MaxUses
	if maxUses < 1 {
		maxUses = 1
	}
	ttlHours := 0
	if req.TTLHours != nil {
		if *req.TTLHours <= 0 {
			httpjson.Error(w, h.Log, fault.New(fault.Invalid, "ttl_hours must be positive"))
			return
		}
		ttlHours = *req.TTLHours
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "expires_at must be in the future"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	inv, err := invitationstore.New(h.DB).Create(ctx, invitationstore.CreateParams{
		WorkspaceID: info.WorkspaceID,
		CreatedBy:   info.UserID,
		Code:        req.Code,
		MaxUses:     maxUses,
		ExpiresAt:   req.ExpiresAt,
		TTLHours:    ttlHours,
	})
	if err != nil {
		if err == invitationstore.ErrDuplicateCode {
			httpjson.Error(w, h.Log, fault.New(fault.Conflict, "an invitation with this code already exists"))
			return
		}
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "create invitation failed", err))
		return
	}

	h.Log.Info("invitation created",
		zap.String("workspace_id", info.WorkspaceID.Hex()),
		zap.String("code", inv.Code),
		zap.Int("max_uses", inv.MaxUses),
		zap.String("created_by", info.UserID.Hex()))

	httpjson.Write(w, http.StatusCreated, inv)
}

// HandleList returns the active workspace's invitations, spent and
// expired ones included. Owner-only.
// GET /invitations
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	info, err := workspace.Resolve(r, h.SM, membershipstore.New(h.DB))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := info.Require(authz.CapManageInvitations); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := invitationstore.New(h.DB).ListByWorkspace(ctx, info.WorkspaceID)
	if err != nil {
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "list invitations failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}
