// internal/app/store/people/peoplestore.go
package peoplestore

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
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("people")}
}

var (
	// ErrNotFound covers both a missing id and an id scoped to another
	// workspace; callers cannot tell the cases apart.
	ErrNotFound = errors.New("person not found")

	errEmptyName = errors.New("person name is required")
)

// Create adds a person to the workspace roster.
func (s *Store) Create(ctx context.Context, workspaceID primitive.ObjectID, name string) (models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Person{}, errEmptyName
	}

	now := time.Now().UTC()
	p := models.Person{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		WorkspaceID: workspaceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Person{}, err
	}
	return p, nil
}

// GetByID loads a person, scoped to the given workspace.
func (s *Store) GetByID(ctx context.Context, workspaceID, id primitive.ObjectID) (models.Person, error) {
	var p models.Person
	err := s.c.FindOne(ctx, bson.M{"_id": id, "workspace_id": workspaceID}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Person{}, ErrNotFound
		}
		return models.Person{}, err
	}
	return p, nil
}

// ListByWorkspace returns the roster sorted by folded name.
func (s *Store) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Person, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"workspace_id": workspaceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Person
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Rename updates a person's name, scoped to the workspace.
func (s *Store) Rename(ctx context.Context, workspaceID, id primitive.ObjectID, name string) (models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Person{}, errEmptyName
	}

	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "workspace_id": workspaceID},
		bson.M{"$set": bson.M{
			"name":       name,
			"name_ci":    text.Fold(name),
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var p models.Person
	if err := res.Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Person{}, ErrNotFound
		}
		return models.Person{}, err
	}
	return p, nil
}

// Delete removes a person from the roster, scoped to the workspace.
func (s *Store) Delete(ctx context.Context, workspaceID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "workspace_id": workspaceID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
