// Package workspace resolves the active workspace for a request.
//
// The active workspace is client-carried state: a cookie asserts an id,
// and every authorized operation re-validates that assertion against
// live membership records before acting. Nothing here is cached across
// requests; a stale or forged assertion fails closed.
package workspace

import (
	"net/http"

	membershipstore "github.com/rollcallhq/rollcall/internal/app/store/memberships"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/domain/fault"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Info is the request-scoped authorization context: who, where, and
// what they may do there.
type Info struct {
	UserID      primitive.ObjectID
	WorkspaceID primitive.ObjectID
	Membership  models.Membership
	Effective   authz.Effective
}

// Resolve walks the three authorization preconditions in order and
// returns a distinct fault for each missing one: Unauthenticated when
// there is no identity, NoActiveWorkspace when no workspace is
// asserted (or the assertion is malformed), and Forbidden when the
// asserted workspace has no membership row for the user.
func Resolve(r *http.Request, sm *auth.SessionManager, memberships *membershipstore.Store) (Info, error) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return Info{}, fault.New(fault.Unauthenticated, "sign in required")
	}
	userID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		// Session corruption; treat like a missing identity.
		return Info{}, fault.New(fault.Unauthenticated, "sign in required")
	}

	asserted, ok := sm.ActiveWorkspaceID(r)
	if !ok {
		return Info{}, fault.New(fault.NoActiveWorkspace, "no active workspace selected")
	}
	wsID, err := primitive.ObjectIDFromHex(asserted)
	if err != nil {
		return Info{}, fault.New(fault.NoActiveWorkspace, "no active workspace selected")
	}

	m, err := memberships.Get(r.Context(), wsID, userID)
	if err != nil {
		if err == membershipstore.ErrNotFound {
			return Info{}, fault.New(fault.Forbidden, "not a member of this workspace")
		}
		return Info{}, fault.Wrap(fault.Internal, "membership lookup failed", err)
	}

	return Info{
		UserID:      userID,
		WorkspaceID: wsID,
		Membership:  m,
		Effective:   authz.Resolve(m.Roles),
	}, nil
}

// Require returns a Forbidden fault unless the resolved context holds
// the capability.
func (i Info) Require(c authz.Capability) error {
	if !i.Effective.Can(c) {
		return fault.New(fault.Forbidden, "insufficient role for this action")
	}
	return nil
}
