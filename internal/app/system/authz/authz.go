// Package authz is the capability engine. It is pure: given the role
// set from a membership snapshot it resolves the effective capability
// set once, and call sites only ever ask Effective.Can. Owner is not
// special-cased anywhere downstream; it simply resolves to every
// capability here.
package authz

import "github.com/rollcallhq/rollcall/internal/domain/models"

// Capability is an abstract permission mapped to a minimum role.
type Capability int

const (
	// CapViewWorkspace: read-only listing of people, sessions, and
	// membership. Held by every member.
	CapViewWorkspace Capability = iota
	// CapManagePeople: create/edit/delete roster people.
	CapManagePeople
	// CapManageSessions: create/mutate/close attendance sessions.
	CapManageSessions
	// CapManageMembers: change roles and remove members.
	CapManageMembers
	// CapManageInvitations: issue and list invitation codes.
	CapManageInvitations
)

// minRole maps each capability to the non-owner role that grants it.
// An empty value means owner-only.
var minRole = map[Capability]string{
	CapViewWorkspace:     models.RoleViewer,
	CapManagePeople:      models.RolePeopleManager,
	CapManageSessions:    models.RoleSessionManager,
	CapManageMembers:     "",
	CapManageInvitations: "",
}

// Effective is the resolved permission set for one (user, workspace)
// pair within one request. It is resolved once and passed down; it is
// never cached across requests.
type Effective struct {
	caps map[Capability]bool
}

// Resolve computes the effective capability set for a role list.
// Any membership at all grants CapViewWorkspace; owner grants
// everything.
func Resolve(roles []string) Effective {
	caps := map[Capability]bool{CapViewWorkspace: true}

	owner := false
	for _, r := range roles {
		if r == models.RoleOwner {
			owner = true
			break
		}
	}

	for c, min := range minRole {
		if owner {
			caps[c] = true
			continue
		}
		if min == "" {
			continue
		}
		for _, r := range roles {
			if r == min {
				caps[c] = true
				break
			}
		}
	}

	return Effective{caps: caps}
}

// Can reports whether the capability is held.
func (e Effective) Can(c Capability) bool {
	return e.caps[c]
}
