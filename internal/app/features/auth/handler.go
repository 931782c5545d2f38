// internal/app/features/auth/handler.go
package auth

import (
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides the account endpoints: register, login, logout, me.
type Handler struct {
	DB  *mongo.Database
	SM  *auth.SessionManager
	Log *zap.Logger
}

// NewHandler creates a new auth Handler.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{DB: db, SM: sm, Log: logger}
}
