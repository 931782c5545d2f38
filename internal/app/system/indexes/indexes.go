// Package indexes reconciles the unique indexes that back the
// application's concurrency discipline. Duplicate-key rejection from
// these indexes is what turns racing writes (second membership for a
// pair, colliding invitation codes, same-day session names) into clean
// Conflict results instead of lost updates.
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll is called at startup. Each ensure function is idempotent;
// errors are aggregated so every problem is visible and startup can
// fail fast.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureWorkspaces(ctx, db); err != nil {
		problems = append(problems, "workspaces: "+err.Error())
	}
	if err := ensureMemberships(ctx, db); err != nil {
		problems = append(problems, "memberships: "+err.Error())
	}
	if err := ensureInvitations(ctx, db); err != nil {
		problems = append(problems, "invitations: "+err.Error())
	}
	if err := ensurePeople(ctx, db); err != nil {
		problems = append(problems, "people: "+err.Error())
	}
	if err := ensureAttendanceSessions(ctx, db); err != nil {
		problems = append(problems, "attendance_sessions: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}

	logger.Info("indexes ensured")
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username_ci", Value: 1}},
		Options: options.Index().SetName("uniq_users_username_ci").SetUnique(true),
	})
	return err
}

func ensureWorkspaces(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("workspaces").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_ci", Value: 1}},
		Options: options.Index().SetName("idx_workspaces_name_ci"),
	})
	return err
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("memberships")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_memberships_ws_user").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_memberships_user"),
		},
	})
	return err
}

func ensureInvitations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("invitations")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Codes are stored upper-cased, so this is the global
			// case-insensitive uniqueness the redemption lookup relies on.
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetName("uniq_invitations_code").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_invitations_ws"),
		},
	})
	return err
}

func ensurePeople(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("people").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "name_ci", Value: 1}},
		Options: options.Index().SetName("idx_people_ws_name"),
	})
	return err
}

func ensureAttendanceSessions(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("attendance_sessions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "workspace_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "name_ci", Value: 1},
		},
		Options: options.Index().SetName("uniq_attendance_ws_date_name").SetUnique(true),
	})
	return err
}
