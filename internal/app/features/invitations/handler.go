// internal/app/features/invitations/handler.go
package invitations

import (
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler issues, lists, and redeems invitation codes.
type Handler struct {
	DB  *mongo.Database
	SM  *auth.SessionManager
	Log *zap.Logger
}

// NewHandler creates a new invitations Handler.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{DB: db, SM: sm, Log: logger}
}
