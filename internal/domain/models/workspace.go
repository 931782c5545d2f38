package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workspace is the tenant boundary in Rollcall. People, attendance
// sessions, and invitations all belong to exactly one workspace via
// their workspace_id field, and nothing crosses that line.
//
// OwnerUserID records who created the workspace; the creator is also
// granted an owner Membership at creation time, and it is the
// membership (not this field) that authorization reads.
type Workspace struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name   string `bson:"name" json:"name"`
	NameCI string `bson:"name_ci" json:"-"` // Case-insensitive for search

	OwnerUserID primitive.ObjectID `bson:"owner_user_id" json:"owner_user_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
