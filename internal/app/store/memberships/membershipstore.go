// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("memberships")}
}

var (
	// ErrNotFound is returned when no membership exists for the pair.
	ErrNotFound = errors.New("membership not found")
	// ErrDuplicateMembership is returned when the (workspace, user) pair
	// already has a membership row.
	ErrDuplicateMembership = errors.New("user is already a member of this workspace")
	// ErrLastOwner is returned when an update or removal would leave the
	// workspace with no owner membership.
	ErrLastOwner = errors.New("workspace must keep at least one owner")

	errBadRole = errors.New("role is not one of viewer, people_manager, session_manager")
)

// Get returns the membership for (workspaceID, userID).
func (s *Store) Get(ctx context.Context, workspaceID, userID primitive.ObjectID) (models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"workspace_id": workspaceID, "user_id": userID}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Membership{}, ErrNotFound
		}
		return models.Membership{}, err
	}
	return m, nil
}

// Add creates a membership with the given role set. The unique index on
// (workspace_id, user_id) rejects a second row for the same pair.
func (s *Store) Add(ctx context.Context, workspaceID, userID primitive.ObjectID, roles []string) (models.Membership, error) {
	for _, r := range roles {
		if !models.IsValidRole(r) {
			return models.Membership{}, errBadRole
		}
	}

	m := models.Membership{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Roles:       roles,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Membership{}, ErrDuplicateMembership
		}
		return models.Membership{}, err
	}
	return m, nil
}

// ListByWorkspace returns all memberships of a workspace, oldest first.
func (s *Store) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"workspace_id": workspaceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Membership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetRoles replaces a member's role set with roles drawn from
// AssignableRoles. Owner cannot be granted here, and stripping owner
// from the last remaining owner is rejected with ErrLastOwner.
func (s *Store) SetRoles(ctx context.Context, workspaceID, userID primitive.ObjectID, roles []string) (models.Membership, error) {
	clean := make([]string, 0, len(roles))
	for _, r := range roles {
		switch r {
		case models.RoleViewer, models.RolePeopleManager, models.RoleSessionManager:
			if !contains(clean, r) {
				clean = append(clean, r)
			}
		default:
			return models.Membership{}, errBadRole
		}
	}

	m, err := s.Get(ctx, workspaceID, userID)
	if err != nil {
		return models.Membership{}, err
	}
	if m.HasRole(models.RoleOwner) {
		n, err := s.countOtherOwners(ctx, workspaceID, userID)
		if err != nil {
			return models.Membership{}, err
		}
		if n == 0 {
			return models.Membership{}, ErrLastOwner
		}
	}

	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"workspace_id": workspaceID, "user_id": userID},
		bson.M{"$set": bson.M{"roles": clean}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Membership
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Membership{}, ErrNotFound
		}
		return models.Membership{}, err
	}
	return updated, nil
}

// Remove deletes the membership for (workspaceID, userID). Removing the
// last owner of a workspace is rejected with ErrLastOwner.
func (s *Store) Remove(ctx context.Context, workspaceID, userID primitive.ObjectID) error {
	m, err := s.Get(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if m.HasRole(models.RoleOwner) {
		n, err := s.countOtherOwners(ctx, workspaceID, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrLastOwner
		}
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"workspace_id": workspaceID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// countOtherOwners counts owner memberships in the workspace excluding
// the given user.
func (s *Store) countOtherOwners(ctx context.Context, workspaceID, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"workspace_id": workspaceID,
		"user_id":      bson.M{"$ne": userID},
		"roles":        models.RoleOwner,
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
