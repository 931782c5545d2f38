// internal/domain/models/attendancesession.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceSession is a dated, named container of per-person presence
// records. A session is Open on creation and editable until it is
// closed; Closed is terminal and freezes the record set.
//
// (workspace, date, name) is unique with the name compared
// trimmed and case-folded; the attendance collection carries a unique
// index on (workspace_id, date, name_ci).
type AttendanceSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`

	Date   string `bson:"date" json:"date"` // YYYY-MM-DD
	Name   string `bson:"name" json:"name"`
	NameCI string `bson:"name_ci" json:"-"`

	Closed  bool               `bson:"closed" json:"closed"`
	Records []AttendanceRecord `bson:"records" json:"records"`

	CreatedBy primitive.ObjectID `bson:"created_by_user_id" json:"created_by_user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// AttendanceRecord is one person's presence mark within a session.
// MarkedAt is set only while Present is true.
type AttendanceRecord struct {
	PersonID primitive.ObjectID `bson:"person_id" json:"person_id"`
	Present  bool               `bson:"present" json:"present"`
	MarkedAt *time.Time         `bson:"marked_at,omitempty" json:"marked_at,omitempty"`
}

// RecordFor returns the record for personID and whether one exists.
func (s AttendanceSession) RecordFor(personID primitive.ObjectID) (AttendanceRecord, bool) {
	for _, rec := range s.Records {
		if rec.PersonID == personID {
			return rec, true
		}
	}
	return AttendanceRecord{}, false
}
