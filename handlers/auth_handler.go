package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/nellaibill/teachersbank/database"
	"github.com/nellaibill/teachersbank/models"
)

type AuthHandler struct {
	JWTSecret string
}

func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{JWTSecret: secret}
}

func (h *AuthHandler) signJWT(u *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"name":    u.Name,
		"email":   u.Email,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	var u models.User
	if err := database.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "ACCOUNT_DEACTIVATED"})
	}

	now := time.Now()
	database.DB.Model(&u).Update("last_login", &now)

	token, err := h.signJWT(&u, 7*24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]any{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role},
	})
}

// POST /api/auth/logout - bearer tokens are stateless; the client drops its
// copy
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"message": "Logged out"})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint)
	var u models.User
	if err := database.DB.First(&u, "id = ?", uid).Error; err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "ACCOUNT_NOT_FOUND"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "ACCOUNT_DEACTIVATED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"user": map[string]any{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role},
	})
}
