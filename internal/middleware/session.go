package middleware

import (
	"strings"

	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/service"
	"pdf-study-agent/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	SessionIDKey        = "sessionID" // Key for storing the session id in fiber.Ctx locals
)

// RequireSession validates the bearer session token and stores its session id in locals.
func RequireSession(tokens service.TokenService) fiber.Handler {
	validator := validation.NewValidator()
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return domain.NewUnauthorizedError("Authorization header is missing")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return domain.NewUnauthorizedError("Authorization scheme is not Bearer")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return domain.NewUnauthorizedError("Token is empty")
		}

		sessionID, err := tokens.Validate(tokenString)
		if err != nil {
			return err
		}
		if errs := validator.ValidateSessionID(sessionID); len(errs) > 0 {
			return domain.NewUnauthorizedError("Invalid session token")
		}
		c.Locals(SessionIDKey, sessionID)
		return c.Next()
	}
}

// SessionID returns the session id stored by RequireSession.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionIDKey).(string)
	return id
}
