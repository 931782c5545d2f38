// internal/app/features/workspaces/handler.go
package workspaces

import (
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides workspace creation/listing, active-workspace
// selection, and member management.
type Handler struct {
	DB  *mongo.Database
	SM  *auth.SessionManager
	Log *zap.Logger
}

// NewHandler creates a new workspaces Handler.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{DB: db, SM: sm, Log: logger}
}
