package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-reservation/internal/model"
	"github.com/iliyamo/workspace-reservation/internal/repository"
	"github.com/iliyamo/workspace-reservation/internal/utils"
)

// AuthHandler is a thin identity front end for the booking API. It
// registers users, verifies credentials and hands out access tokens;
// everything downstream only ever sees the numeric user ID from the
// token subject.
type AuthHandler struct {
	Users      *repository.UserRepo
	JWTSecret  string
	AccessTTL  int
	BcryptCost int
}

// NewAuthHandler constructs an AuthHandler. The user repo must be
// non-nil.
func NewAuthHandler(users *repository.UserRepo, secret string, ttlMin, bcryptCost int) *AuthHandler {
	if users == nil {
		panic("nil user repo passed to NewAuthHandler")
	}
	return &AuthHandler{Users: users, JWTSecret: secret, AccessTTL: ttlMin, BcryptCost: bcryptCost}
}

// Register handles POST /v1/auth/register. Email addresses are
// normalized to lower case and must be unique.
func (h *AuthHandler) Register(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "invalid request body"})
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	body.Name = strings.TrimSpace(body.Name)
	if body.Email == "" || !strings.Contains(body.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "a valid email is required"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "name is required"})
	}
	if len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "password must be at least 8 characters"})
	}

	hash, err := utils.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal", "message": "could not hash password"})
	}
	u := &model.User{Email: body.Email, Name: body.Name, PasswordHash: hash}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "conflict", "message": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal", "message": "could not create user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"user":    echo.Map{"id": u.ID, "email": u.Email, "name": u.Name},
	})
}

// Login handles POST /v1/auth/login and returns a short-lived access
// token on valid credentials. Unknown email and wrong password produce
// the same response so the endpoint does not leak which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "invalid request body"})
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	u, err := h.Users.GetByEmail(c.Request().Context(), body.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "not_authorized", "message": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal", "message": "could not look up user"})
	}
	if !utils.VerifyPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "not_authorized", "message": "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, u.ID, h.AccessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal", "message": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
	})
}

// Me handles GET /v1/me and returns the profile behind the presented
// token.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized", "message": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "not_found", "message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal", "message": "could not look up user"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    echo.Map{"id": u.ID, "email": u.Email, "name": u.Name},
	})
}
