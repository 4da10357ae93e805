package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/linkhive/backend/internal/middleware"
	"github.com/linkhive/backend/internal/models"
	"github.com/linkhive/backend/internal/services"
	"github.com/linkhive/backend/internal/token"
)

// AuthHandler handles registration and sign-in
type AuthHandler struct {
	userService *services.UserService
	jwtSecret   string
	jwtTTL      time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService *services.UserService, jwtSecret string, jwtTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtSecret:   jwtSecret,
		jwtTTL:      jwtTTL,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/admin/login", h.AdminLogin)
	g.GET("/me", h.Me, authRequired)
}

type authPayload struct {
	User  authUser `json:"user"`
	Token string   `json:"token"`
}

type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
	Role     string `json:"role,omitempty"`
}

// Signup registers a new account and returns it with a fresh token
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userService.Signup(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	t, err := token.Generate(user.ID.Hex(), h.jwtSecret, h.jwtTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return respondMessage(c, http.StatusCreated, "User registered successfully", authPayload{
		User:  publicUser(user, false),
		Token: t,
	})
}

// Login signs a user in with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, false)
}

// AdminLogin signs an administrator in; non-admin accounts are rejected
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, true)
}

func (h *AuthHandler) login(c echo.Context, adminOnly bool) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user *models.User
	var err error
	if adminOnly {
		user, err = h.userService.AdminLogin(c.Request().Context(), req.Email, req.Password)
	} else {
		user, err = h.userService.Login(c.Request().Context(), req.Email, req.Password)
	}
	if err != nil {
		return httpError(err)
	}

	t, err := token.Generate(user.ID.Hex(), h.jwtSecret, h.jwtTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	message := "Login successful"
	if adminOnly {
		message = "Admin login successful"
	}
	return respondMessage(c, http.StatusOK, message, authPayload{
		User:  publicUser(user, adminOnly),
		Token: t,
	})
}

// Me returns the authenticated account
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return respondOK(c, publicUser(user, true))
}

func publicUser(u *models.User, withRole bool) authUser {
	out := authUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
	}
	if withRole {
		out.Role = u.Role
	}
	return out
}
