// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DateLayout is the wire format for session dates.
const DateLayout = "2006-01-02"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance_sessions")}
}

var (
	// ErrNotFound covers both a missing id and an id scoped to another
	// workspace; callers cannot tell the cases apart.
	ErrNotFound = errors.New("session not found")
	// ErrDuplicateSession is returned when the workspace already has a
	// session with the same date and normalized name.
	ErrDuplicateSession = errors.New("a session with this name already exists on this date")
	// ErrClosed is returned when a mutation reaches a closed session.
	ErrClosed = errors.New("session is closed")

	errEmptyName = errors.New("session name is required")
	errEmptyDate = errors.New("session date is required")
	errBadDate   = errors.New("session date must be YYYY-MM-DD")
)

// Create opens a new attendance session with an empty record set.
// (workspace, date, name) uniqueness is normalized: the name is trimmed
// and case-folded, and the unique index on (workspace_id, date, name_ci)
// arbitrates concurrent creates.
func (s *Store) Create(ctx context.Context, workspaceID, createdBy primitive.ObjectID, date, name string) (models.AttendanceSession, error) {
	name = strings.TrimSpace(name)
	date = strings.TrimSpace(date)
	if name == "" {
		return models.AttendanceSession{}, errEmptyName
	}
	if date == "" {
		return models.AttendanceSession{}, errEmptyDate
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return models.AttendanceSession{}, errBadDate
	}

	now := time.Now().UTC()
	sess := models.AttendanceSession{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		Date:        date,
		Name:        name,
		NameCI:      text.Fold(name),
		Closed:      false,
		Records:     []models.AttendanceRecord{},
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		if wafflemongo.IsDup(err) {
			return models.AttendanceSession{}, ErrDuplicateSession
		}
		return models.AttendanceSession{}, err
	}
	return sess, nil
}

// GetByID loads a session, scoped to the given workspace. Closed
// sessions stay readable.
func (s *Store) GetByID(ctx context.Context, workspaceID, id primitive.ObjectID) (models.AttendanceSession, error) {
	var sess models.AttendanceSession
	err := s.c.FindOne(ctx, bson.M{"_id": id, "workspace_id": workspaceID}).Decode(&sess)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.AttendanceSession{}, ErrNotFound
		}
		return models.AttendanceSession{}, err
	}
	return sess, nil
}

// ListByWorkspace returns the workspace's sessions, newest date first.
func (s *Store) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.AttendanceSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"workspace_id": workspaceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AttendanceSession
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Mutation describes one mutate call against an open session.
// Records, when non-nil, replaces the session's full record set (an
// empty non-nil slice clears it); callers echo records they keep.
// Close transitions the session to Closed after the replacement.
type Mutation struct {
	Records []models.AttendanceRecord
	Close   bool
}

// Mutate applies a record replacement and/or close to an open session.
//
// MarkedAt follows the transition rules: a record entering present
// keeps a caller-supplied timestamp, inherits the previous one when the
// person was already present, and is stamped with now otherwise; a
// record leaving present is cleared.
//
// The write is filtered on closed=false so a mutation racing a close
// matches zero documents and reports ErrClosed rather than silently
// resurrecting records.
func (s *Store) Mutate(ctx context.Context, workspaceID, id primitive.ObjectID, mut Mutation) (models.AttendanceSession, error) {
	sess, err := s.GetByID(ctx, workspaceID, id)
	if err != nil {
		return models.AttendanceSession{}, err
	}
	if sess.Closed {
		return models.AttendanceSession{}, ErrClosed
	}

	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	if mut.Records != nil {
		set["records"] = applyMarkRules(sess, mut.Records, now)
	}
	if mut.Close {
		set["closed"] = true
	}

	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "workspace_id": workspaceID, "closed": false},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.AttendanceSession
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			// The session existed a moment ago; a racing close won.
			return models.AttendanceSession{}, ErrClosed
		}
		return models.AttendanceSession{}, err
	}
	return updated, nil
}

// applyMarkRules normalizes MarkedAt across the replacement set using
// the previous session state for transition detection.
func applyMarkRules(prev models.AttendanceSession, incoming []models.AttendanceRecord, now time.Time) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, 0, len(incoming))
	for _, rec := range incoming {
		if !rec.Present {
			rec.MarkedAt = nil
			out = append(out, rec)
			continue
		}
		if rec.MarkedAt == nil {
			if before, ok := prev.RecordFor(rec.PersonID); ok && before.Present && before.MarkedAt != nil {
				rec.MarkedAt = before.MarkedAt
			} else {
				t := now
				rec.MarkedAt = &t
			}
		}
		out = append(out, rec)
	}
	return out
}
