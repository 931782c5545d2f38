// internal/domain/models/invitation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation is a bounded-use code that mints a viewer membership in
// its workspace when redeemed. Codes are unique across all workspaces,
// compared case-insensitively. Invitations are append-only: exhausted
// and expired codes stay in the collection as an audit trail.
type Invitation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Code        string             `bson:"code" json:"code"` // stored upper-cased
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`
	CreatedBy   primitive.ObjectID `bson:"created_by_user_id" json:"created_by_user_id"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`

	MaxUses int `bson:"max_uses" json:"max_uses"` // >= 1
	Uses    int `bson:"uses" json:"uses"`         // 0 <= uses <= max_uses
}

// Expired reports whether the invitation's expiry has passed at now.
// Invitations without an expiry never expire.
func (i Invitation) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// Exhausted reports whether every use has been consumed.
func (i Invitation) Exhausted() bool {
	return i.Uses >= i.MaxUses
}
