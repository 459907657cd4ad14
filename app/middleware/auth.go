package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vibast-solutions/ms-go-tasks/app/entity"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type bearerUserResolver interface {
	CurrentUser(ctx context.Context, accessToken string) (*entity.User, error)
}

type AuthMiddleware struct {
	authService bearerUserResolver
}

func NewAuthMiddleware(authService bearerUserResolver) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireAuth resolves the bearer token to a user and stores it in the echo
// context under "user". Any failure fails the whole request with 401.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			logrus.Debug("Missing authorization header")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "missing authorization header",
			})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logrus.Debug("Invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid authorization header format",
			})
		}

		user, err := m.authService.CurrentUser(c.Request().Context(), parts[1])
		if err != nil {
			logrus.Debug("Could not resolve bearer token to a user")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "could not validate credentials",
			})
		}

		c.Set("user", user)

		return next(c)
	}
}
