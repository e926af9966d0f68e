// Package middleware provides authentication, logging, and rate limiting
// middleware for the gateway server.
package middleware

import (
	"strconv"
	"strings"

	"campushub/internal/config"
	"campushub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

func parseBearer(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, models.NewUnauthorizedError("Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, models.NewUnauthorizedError("Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}
	return claims, nil
}

func applyClaims(c *fiber.Ctx, claims jwt.MapClaims) error {
	sub, ok := claims["sub"].(string)
	if !ok {
		return models.NewUnauthorizedError("Invalid token structure - missing subject")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return models.NewUnauthorizedError("Invalid user ID in token")
	}

	role, _ := claims["role"].(string)

	c.Locals("userID", uint(userID))
	c.Locals("role", models.NormalizeRole(role))
	return nil
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	claims, err := parseBearer(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}
	if err := applyClaims(c, claims); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}
	return c.Next()
}

// AuthOptional resolves the viewer when a valid token is present but lets
// anonymous requests through. Public listings use it to compute per-viewer
// like flags.
func AuthOptional(c *fiber.Ctx) error {
	if c.Get("Authorization") != "" {
		if claims, err := parseBearer(c); err == nil {
			_ = applyClaims(c, claims)
		}
	}
	return c.Next()
}
