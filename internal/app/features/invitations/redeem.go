// internal/app/features/invitations/redeem.go
package invitations

import (
	"context"
	"net/http"
	"strings"

	invitationstore "github.com/rollcallhq/rollcall/internal/app/store/invitations"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/httpjson"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type redeemRequest struct {
	Code string `json:"code"`
}

type redeemResponse struct {
	WorkspaceID string `json:"workspace_id"`
}

// HandleRedeem joins the caller to the invitation's workspace as a
// viewer. Only an identity is required; no active workspace is
// involved. Redeeming a code for a workspace the caller already
// belongs to succeeds without consuming a use, and the joined
// workspace becomes the caller's active one.
// POST /invitations/redeem
func (h *Handler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, h.Log, fault.New(fault.Unauthenticated, "sign in required"))
		return
	}
	userID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		httpjson.Error(w, h.Log, fault.New(fault.Unauthenticated, "sign in required"))
		return
	}

	var req redeemRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "code is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	wsID, err := invitationstore.New(h.DB).Redeem(ctx, userID, req.Code)
	if err != nil {
		switch err {
		case invitationstore.ErrNotFound:
			httpjson.Error(w, h.Log, fault.New(fault.NotFound, "invitation not found"))
		case invitationstore.ErrExpired:
			httpjson.Error(w, h.Log, fault.New(fault.Expired, "invitation has expired"))
		case invitationstore.ErrExhausted:
			httpjson.Error(w, h.Log, fault.New(fault.Conflict, "invitation has no uses remaining"))
		default:
			httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "redeem invitation failed", err))
		}
		return
	}

	if err := h.SM.SetActiveWorkspace(w, r, wsID.Hex()); err != nil {
		h.Log.Warn("failed to set active workspace cookie", zap.Error(err))
	}

	h.Log.Info("invitation redeemed",
		zap.String("workspace_id", wsID.Hex()),
		zap.String("user_id", userID.Hex()))

	httpjson.Write(w, http.StatusOK, redeemResponse{WorkspaceID: wsID.Hex()})
}
