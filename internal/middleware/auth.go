package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/linkhive/backend/internal/models"
	"github.com/linkhive/backend/internal/repositories"
	"github.com/linkhive/backend/internal/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userContextKey = "user"

// Auth verifies the bearer token and loads the account it names, so bans
// and deletions take effect immediately. The user is stored on the request
// context for handlers.
func Auth(users repositories.UserRepository, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolveUser(c, users, jwtSecret)
			if err != nil {
				return err
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// OptionalAuth resolves the actor when a valid token is present and
// continues anonymously otherwise.
func OptionalAuth(users repositories.UserRepository, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, err := resolveUser(c, users, jwtSecret); err == nil {
				c.Set(userContextKey, user)
			}
			return next(c)
		}
	}
}

// AdminOnly gates a route to accounts carrying the admin role. Must run
// after Auth.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil || !user.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "Not authorized as an admin")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated account, or nil for anonymous
// requests.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

func resolveUser(c echo.Context, users repositories.UserRepository, jwtSecret string) (*models.User, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token provided")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}

	claims, err := token.Parse(parts[1], jwtSecret)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	user, err := users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User no longer exists")
	}
	if user.IsDeleted {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Account is banned")
	}
	return user, nil
}
