package http

import (
	"log/slog"

	"github.com/go-office-api/internal/application/leave"
	"github.com/go-office-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-office-api/internal/infrastructure/jwt"
	"github.com/redis/go-redis/v9"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	LeaveRepo        *dynamo.LeaveRepo
	NotificationRepo *dynamo.NotificationRepo
	JWTProvider      *jwtinfra.Provider

	// Publisher receives committed leave events. Nil disables publishing.
	Publisher leave.Publisher
	// Redis backs Idempotency-Key handling on leave filing. Nil disables it.
	Redis redis.UniversalClient

	Logger *slog.Logger
}
