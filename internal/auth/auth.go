// Package auth validates the session tokens minted by the identity layer.
// The service only needs the external uid claim; everything else about the
// sign-in flow is the identity provider's business.
package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const localsUIDKey = "external_uid"

// ParseExternalUID validates an HS256 session token and extracts its uid claim.
func ParseExternalUID(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	uid, _ := claims["uid"].(string)
	if uid == "" {
		return "", errors.New("token has no uid claim")
	}
	return uid, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's external uid for handlers.
func Middleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		uid, err := ParseExternalUID(tokenString, secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid session token")
		}

		c.Locals(localsUIDKey, uid)
		return c.Next()
	}
}

// ExternalUID returns the uid stored by Middleware, or "".
func ExternalUID(c *fiber.Ctx) string {
	uid, _ := c.Locals(localsUIDKey).(string)
	return uid
}
