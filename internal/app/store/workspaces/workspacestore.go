// internal/app/store/workspaces/workspacestore.go
package workspacestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c           *mongo.Collection
	memberships *mongo.Collection
}

var (
	ErrNotFound  = errors.New("workspace not found")
	errEmptyName = errors.New("workspace name is required")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("workspaces"),
		memberships: db.Collection("memberships"),
	}
}

// Create inserts a new workspace and grants the creator an owner
// membership. The membership insert follows the workspace insert; if it
// fails the workspace document is removed so a tenant never exists
// without an owner.
func (s *Store) Create(ctx context.Context, name string, ownerUserID primitive.ObjectID) (models.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Workspace{}, errEmptyName
	}

	now := time.Now().UTC()
	ws := models.Workspace{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		OwnerUserID: ownerUserID,
		CreatedAt:   now,
	}

	if _, err := s.c.InsertOne(ctx, ws); err != nil {
		return models.Workspace{}, err
	}

	m := models.Membership{
		ID:          primitive.NewObjectID(),
		WorkspaceID: ws.ID,
		UserID:      ownerUserID,
		Roles:       []string{models.RoleOwner},
		CreatedAt:   now,
	}
	if _, err := s.memberships.InsertOne(ctx, m); err != nil {
		_, _ = s.c.DeleteOne(ctx, bson.M{"_id": ws.ID})
		return models.Workspace{}, err
	}

	return ws, nil
}

// GetByID retrieves a workspace by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Workspace, error) {
	var ws models.Workspace
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ws)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Workspace{}, ErrNotFound
		}
		return models.Workspace{}, err
	}
	return ws, nil
}

// ListForUser returns the workspaces the user holds a membership in,
// sorted by folded name.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	cur, err := s.memberships.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.Membership
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		ids = append(ids, m.WorkspaceID)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Workspace{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	wcur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer wcur.Close(ctx)

	var out []models.Workspace
	if err := wcur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
