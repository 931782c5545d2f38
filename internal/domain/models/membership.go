// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names a grant inside one workspace.
const (
	RoleOwner          = "owner"
	RoleViewer         = "viewer"
	RolePeopleManager  = "people_manager"
	RoleSessionManager = "session_manager"
)

// AssignableRoles are the roles an owner may set on another member.
// Owner itself is only ever granted by workspace creation.
var AssignableRoles = []string{RoleViewer, RolePeopleManager, RoleSessionManager}

// IsValidRole reports whether name is one of the four defined roles.
func IsValidRole(name string) bool {
	switch name {
	case RoleOwner, RoleViewer, RolePeopleManager, RoleSessionManager:
		return true
	}
	return false
}

// Membership joins a user to a workspace with a role set.
// At most one membership exists per (workspace, user) pair; the
// memberships collection carries a unique compound index on the two ids.
type Membership struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Roles       []string           `bson:"roles" json:"roles"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasRole reports whether the membership carries the role directly.
// Callers that want owner-implies-everything semantics go through
// authz.Effective, not this method.
func (m Membership) HasRole(role string) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}
