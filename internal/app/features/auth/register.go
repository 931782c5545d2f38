// internal/app/features/auth/register.go
package auth

import (
	"context"
	"net/http"
	"strings"

	userstore "github.com/rollcallhq/rollcall/internal/app/store/users"
	"github.com/rollcallhq/rollcall/internal/app/system/httpjson"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"go.uber.org/zap"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// HandleRegister creates a new account.
// POST /auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		httpjson.Error(w, h.Log, fault.New(fault.Invalid, "username and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, req.Username, req.Password)
	if err != nil {
		if err == userstore.ErrDuplicateUsername {
			httpjson.Error(w, h.Log, fault.New(fault.Conflict, "username is already taken"))
			return
		}
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "create user failed", err))
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("username", u.Username))

	httpjson.Write(w, http.StatusCreated, userResponse{ID: u.ID.Hex(), Username: u.Username})
}
