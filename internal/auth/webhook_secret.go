package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/lessonkit/season-bot/pkg/util"
)

// SecretMiddleware authenticates webhook calls via the secret query
// parameter Telegram was given when the webhook was set. This is the
// entire authentication surface of the service.
type SecretMiddleware struct {
	secret []byte
}

// NewSecretMiddleware constructs middleware for the configured secret.
func NewSecretMiddleware(secret string) *SecretMiddleware {
	return &SecretMiddleware{secret: []byte(secret)}
}

// Handle rejects requests whose secret does not match.
func (m *SecretMiddleware) Handle(c *fiber.Ctx) error {
	provided := []byte(c.Query("secret"))
	if subtle.ConstantTimeCompare(provided, m.secret) != 1 {
		return util.NewUnauthorized("invalid webhook secret")
	}
	return c.Next()
}
