// Package auth manages the two client-held tokens: the identity cookie
// (user id plus an absolute expiry) and the active-workspace cookie
// (a workspace id asserted by the client). Both are signed cookie
// sessions; the workspace assertion is never trusted on its own and is
// re-validated against live memberships by the workspace package.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Session value keys.
const (
	userIDKey    = "user_id"
	expiresAtKey = "expires_at"
	workspaceKey = "workspace_id"
)

// SessionUser is what LoadSessionUser injects into r.Context().
type SessionUser struct {
	ID       string
	Username string
}

// UserFetcher loads fresh user data for the id carried by the identity
// cookie. Returning nil means the identity no longer resolves (deleted
// account) and the request proceeds unauthenticated.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// SessionManager owns the cookie store and the two session names.
type SessionManager struct {
	store         *sessions.CookieStore
	sessionName   string
	workspaceName string
	ttl           time.Duration
	fetcher       UserFetcher
	log           *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure with SameSite=Lax; in
// local dev over http they are accepted without the Secure flag.
func NewSessionManager(sessionKey, sessionName, workspaceName, domain string, secure bool, ttl time.Duration, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.Duration("ttl", ttl),
		zap.String("domain", domain))

	return &SessionManager{
		store:         store,
		sessionName:   sessionName,
		workspaceName: workspaceName,
		ttl:           ttl,
		log:           logger,
	}, nil
}

// SetUserFetcher wires the user lookup used by LoadSessionUser so role
// and account changes take effect on the next request.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// CurrentUser returns the user injected by LoadSessionUser, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// LoadSessionUser injects the user into context when the identity
// cookie is present, well-formed, and unexpired. Malformed and expired
// cookies fail closed: the request proceeds unauthenticated and the
// cookie is cleared. There is no refresh; after expiry the user logs in
// again.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.sessionName)
		if err != nil {
			var scErr securecookie.Error
			if errors.As(err, &scErr) && scErr.IsDecode() {
				// Tampered or stale cookie from a rotated key.
				sm.clearSession(w, r, sm.sessionName)
			}
			next.ServeHTTP(w, r)
			return
		}

		userID, _ := sess.Values[userIDKey].(string)
		expUnix, _ := sess.Values[expiresAtKey].(int64)
		if userID == "" || expUnix == 0 {
			next.ServeHTTP(w, r)
			return
		}
		if time.Now().After(time.Unix(expUnix, 0)) {
			sm.clearSession(w, r, sm.sessionName)
			next.ServeHTTP(w, r)
			return
		}

		u := &SessionUser{ID: userID}
		if sm.fetcher != nil {
			if u = sm.fetcher.FetchUser(r.Context(), userID); u == nil {
				sm.clearSession(w, r, sm.sessionName)
				next.ServeHTTP(w, r)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), currentUserKey, u)))
	})
}

// SignIn writes the identity cookie for userID with an absolute expiry
// of now+ttl.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, _ := sm.store.Get(r, sm.sessionName)
	sess.Values[userIDKey] = userID
	sess.Values[expiresAtKey] = time.Now().Add(sm.ttl).Unix()
	return sess.Save(r, w)
}

// SignOut clears both the identity and the workspace cookies.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) {
	sm.clearSession(w, r, sm.sessionName)
	sm.clearSession(w, r, sm.workspaceName)
}

// SetActiveWorkspace records the asserted workspace id in its own
// cookie, independent of the identity session.
func (sm *SessionManager) SetActiveWorkspace(w http.ResponseWriter, r *http.Request, workspaceID string) error {
	sess, _ := sm.store.Get(r, sm.workspaceName)
	sess.Values[workspaceKey] = workspaceID
	return sess.Save(r, w)
}

// ClearActiveWorkspace drops the workspace assertion.
func (sm *SessionManager) ClearActiveWorkspace(w http.ResponseWriter, r *http.Request) {
	sm.clearSession(w, r, sm.workspaceName)
}

// ActiveWorkspaceID returns the raw asserted workspace id. This is
// client-carried state: callers must re-validate it against live
// memberships before acting on it.
func (sm *SessionManager) ActiveWorkspaceID(r *http.Request) (string, bool) {
	sess, err := sm.store.Get(r, sm.workspaceName)
	if err != nil {
		return "", false
	}
	id, _ := sess.Values[workspaceKey].(string)
	return id, id != ""
}

// RequireSignedIn rejects requests without an identity with a plain 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithTestUser injects a user into the request context, bypassing the
// session middleware. For handler tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func (sm *SessionManager) clearSession(w http.ResponseWriter, r *http.Request, name string) {
	sess, _ := sm.store.Get(r, name)
	sess.Options.MaxAge = -1
	sess.Values = map[interface{}]interface{}{}
	if err := sess.Save(r, w); err != nil && sm.log != nil {
		sm.log.Warn("failed to clear session cookie", zap.String("name", name), zap.Error(err))
	}
}
