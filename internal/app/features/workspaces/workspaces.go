// internal/app/features/workspaces/workspaces.go
package workspaces

import (
	"context"
	"net/http"
	"strings"

	workspacestore "github.com/rollcallhq/rollcall/internal/app/store/workspaces"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/httpjson"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Name string `json:"name"`
}

// currentUserID resolves the signed-in user's ObjectID or returns an
// Unauthenticated fault.
func currentUserID(r *http.Request) (primitive.ObjectID, error) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, fault.New(fault.Unauthenticated, "sign in required")
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, fault.New(fault.Unauthenticated, "sign in required")
	}
	return id, nil
}

// HandleCreate creates a workspace, grants the creator an owner
// membership, and makes the new workspace active.
// POST /workspaces
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "workspace name is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ws, err := workspacestore.New(h.DB).Create(ctx, req.Name, userID)
	if err != nil {
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "create workspace failed", err))
		return
	}

	if err := h.SM.SetActiveWorkspace(w, r, ws.ID.Hex()); err != nil {
		h.Log.Warn("failed to set active workspace cookie", zap.Error(err))
	}

	h.Log.Info("workspace created",
		zap.String("workspace_id", ws.ID.Hex()),
		zap.String("name", ws.Name),
		zap.String("created_by", userID.Hex()))

	httpjson.Write(w, http.StatusCreated, ws)
}

// HandleList returns the caller's workspaces.
// GET /workspaces
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := workspacestore.New(h.DB).ListForUser(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "list workspaces failed", err))
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}
