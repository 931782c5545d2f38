// internal/app/features/auth/login.go
package auth

import (
	"context"
	"net/http"

	userstore "github.com/rollcallhq/rollcall/internal/app/store/users"
	sysauth "github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/httpjson"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and sets the identity cookie.
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		if err == userstore.ErrBadCredentials {
			h.Log.Warn("login rejected", zap.String("username", req.Username))
			httpjson.Error(w, h.Log, fault.New(fault.Unauthenticated, "invalid credentials"))
			return
		}
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "credential check failed", err))
		return
	}

	if err := h.SM.SignIn(w, r, u.ID.Hex()); err != nil {
		httpjson.Error(w, h.Log, fault.Wrap(fault.Internal, "session write failed", err))
		return
	}

	h.Log.Info("user logged in", zap.String("user_id", u.ID.Hex()))

	httpjson.Write(w, http.StatusOK, userResponse{ID: u.ID.Hex(), Username: u.Username})
}

// HandleLogout clears both the identity and workspace cookies.
// POST /auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.SM.SignOut(w, r)
	httpjson.Write(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleMe returns the current identity.
// GET /auth/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := sysauth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, h.Log, fault.New(fault.Unauthenticated, "sign in required"))
		return
	}
	httpjson.Write(w, http.StatusOK, userResponse{ID: u.ID, Username: u.Username})
}
