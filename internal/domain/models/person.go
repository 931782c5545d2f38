// internal/domain/models/person.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Person is someone whose attendance is tracked. People are roster
// entries, not accounts: a Person has no credentials and no relation
// to User beyond living in a workspace that users are members of.
type Person struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
