// internal/app/store/invitations/invitationstore.go
package invitationstore

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	membershipstore "github.com/rollcallhq/rollcall/internal/app/store/memberships"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CodeAlphabet excludes glyphs that read ambiguously (0/O, 1/I).
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the length of generated invitation codes.
const CodeLength = 10

type Store struct {
	c           *mongo.Collection
	memberships *membershipstore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("invitations"),
		memberships: membershipstore.New(db),
	}
}

var (
	// ErrNotFound is returned when no invitation matches the code.
	ErrNotFound = errors.New("invitation not found")
	// ErrDuplicateCode is returned when a caller-supplied code is taken.
	ErrDuplicateCode = errors.New("an invitation with this code already exists")
	// ErrExpired is returned when the invitation's expiry has passed.
	ErrExpired = errors.New("invitation has expired")
	// ErrExhausted is returned when every use has been consumed.
	ErrExhausted = errors.New("invitation has no uses remaining")
)

// CreateParams carries invitation issuance input. Expiry is given as
// either an absolute instant or a relative hour count; when both are
// zero the invitation never expires.
type CreateParams struct {
	WorkspaceID primitive.ObjectID
	CreatedBy   primitive.ObjectID
	Code        string // optional; generated when empty
	MaxUses     int    // floored at 1
	ExpiresAt   *time.Time
	TTLHours    int
}

// Create issues an invitation. Caller-supplied codes are trimmed,
// upper-cased, and accepted only if globally unique; otherwise a random
// code is generated and insertion retried until a free one is found.
func (s *Store) Create(ctx context.Context, p CreateParams) (models.Invitation, error) {
	now := time.Now().UTC()

	maxUses := p.MaxUses
	if maxUses < 1 {
		maxUses = 1
	}

	expiresAt := p.ExpiresAt
	if expiresAt == nil && p.TTLHours > 0 {
		t := now.Add(time.Duration(p.TTLHours) * time.Hour)
		expiresAt = &t
	}

	inv := models.Invitation{
		WorkspaceID: p.WorkspaceID,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
		MaxUses:     maxUses,
	}

	if code := strings.ToUpper(strings.TrimSpace(p.Code)); code != "" {
		inv.ID = primitive.NewObjectID()
		inv.Code = code
		if _, err := s.c.InsertOne(ctx, inv); err != nil {
			if wafflemongo.IsDup(err) {
				return models.Invitation{}, ErrDuplicateCode
			}
			return models.Invitation{}, err
		}
		return inv, nil
	}

	// Generated codes: the unique index arbitrates collisions, so a
	// duplicate insert just means generate again.
	for {
		code, err := generateCode(CodeLength)
		if err != nil {
			return models.Invitation{}, err
		}
		inv.ID = primitive.NewObjectID()
		inv.Code = code
		_, err = s.c.InsertOne(ctx, inv)
		if err == nil {
			return inv, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Invitation{}, err
		}
	}
}

// GetByCode looks up an invitation by its trimmed, upper-cased code.
func (s *Store) GetByCode(ctx context.Context, code string) (models.Invitation, error) {
	var inv models.Invitation
	err := s.c.FindOne(ctx, bson.M{"code": strings.ToUpper(strings.TrimSpace(code))}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Invitation{}, ErrNotFound
		}
		return models.Invitation{}, err
	}
	return inv, nil
}

// ListByWorkspace returns the workspace's invitations, newest first.
func (s *Store) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Invitation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"workspace_id": workspaceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Invitation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Redeem applies a code on behalf of userID and returns the workspace
// joined. Expiry and exhaustion are checked before anything else, so a
// spent code is rejected even for existing members. A member of the
// workspace redeeming a live code gets an idempotent success: no role
// change and no use consumed.
//
// For a first-time join the use is consumed by a single guarded
// FindOneAndUpdate (uses < max_uses), so two racing redemptions of the
// last remaining use cannot both succeed. The membership insert happens
// after the increment; if it loses a same-user race to a parallel
// redemption the consumed use is handed back.
func (s *Store) Redeem(ctx context.Context, userID primitive.ObjectID, code string) (primitive.ObjectID, error) {
	inv, err := s.GetByCode(ctx, code)
	if err != nil {
		return primitive.NilObjectID, err
	}

	now := time.Now().UTC()
	if inv.Expired(now) {
		return primitive.NilObjectID, ErrExpired
	}
	if inv.Exhausted() {
		return primitive.NilObjectID, ErrExhausted
	}

	// Idempotent join: an existing member consumes nothing.
	if _, err := s.memberships.Get(ctx, inv.WorkspaceID, userID); err == nil {
		return inv.WorkspaceID, nil
	} else if err != membershipstore.ErrNotFound {
		return primitive.NilObjectID, err
	}

	res := s.c.FindOneAndUpdate(ctx,
		bson.M{
			"_id":  inv.ID,
			"uses": bson.M{"$lt": inv.MaxUses},
		},
		bson.M{"$inc": bson.M{"uses": 1}},
	)
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return primitive.NilObjectID, ErrExhausted
		}
		return primitive.NilObjectID, err
	}

	_, err = s.memberships.Add(ctx, inv.WorkspaceID, userID, []string{models.RoleViewer})
	if err != nil {
		// Lost a same-user race after consuming a use: hand it back.
		_, _ = s.c.UpdateByID(ctx, inv.ID, bson.M{"$inc": bson.M{"uses": -1}})
		if err == membershipstore.ErrDuplicateMembership {
			return inv.WorkspaceID, nil
		}
		return primitive.NilObjectID, err
	}

	return inv.WorkspaceID, nil
}

// generateCode returns a random code drawn from CodeAlphabet.
func generateCode(length int) (string, error) {
	max := big.NewInt(int64(len(CodeAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = CodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
