package middleware

import (
	"errors"
	"strings"

	"github.com/arnold/habitus-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localUserID = "userId"
	localEmail  = "email"
	localClaims = "claims"
)

func Protected(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization format",
			})
		}

		return authenticate(c, auth, tokenString)
	}
}

// ProtectedUpgrade authenticates websocket upgrades, which cannot always set
// headers, via ?token= with the bearer header as a fallback.
func ProtectedUpgrade(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Query("token")
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		return authenticate(c, auth, tokenString)
	}
}

func authenticate(c *fiber.Ctx, auth *services.AuthService, tokenString string) error {
	claims, err := auth.Session(c.UserContext(), tokenString)
	if err != nil {
		msg := "Invalid or expired token"
		switch {
		case errors.Is(err, services.ErrRevoked):
			msg = "Session has been signed out"
		case !errors.Is(err, services.ErrInvalidToken):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to verify session",
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": msg,
		})
	}

	// Store user info in context
	c.Locals(localUserID, claims.UserID)
	c.Locals(localEmail, claims.Email)
	c.Locals(localClaims, claims)

	return c.Next()
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals(localUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

func GetClaims(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(localClaims).(*services.Claims)
	return claims
}
