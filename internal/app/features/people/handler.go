// internal/app/features/people/handler.go
package people

import (
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler manages the workspace roster.
type Handler struct {
	DB  *mongo.Database
	SM  *auth.SessionManager
	Log *zap.Logger
}

// NewHandler creates a new people Handler.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{DB: db, SM: sm, Log: logger}
}
