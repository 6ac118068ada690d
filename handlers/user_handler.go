package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nellaibill/teachersbank/database"
	"github.com/nellaibill/teachersbank/models"
)

var usrReEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var userRoles = map[string]bool{"admin": true, "operator": true}

type UserHandler struct{}

func NewUserHandler() *UserHandler { return &UserHandler{} }

type userPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

func (p *userPayload) norm() {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Role = strings.ToLower(strings.TrimSpace(p.Role))
}

func validateUser(p *userPayload, requirePassword bool) map[string]string {
	errs := map[string]string{}
	if p.Name == "" || len(p.Name) > 100 {
		errs["name"] = "Name is required (max 100)"
	}
	if p.Email == "" || len(p.Email) > 100 || !usrReEmail.MatchString(p.Email) {
		errs["email"] = "A valid email is required (max 100)"
	}
	if !userRoles[p.Role] {
		errs["role"] = "Role must be admin or operator"
	}
	if requirePassword && len(p.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	if !requirePassword && p.Password != "" && len(p.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// GET /api/users - admin only (routes enforce the role)
func (h *UserHandler) List(c echo.Context) error {
	var users []models.User
	if err := database.DB.Order("id ASC").Find(&users).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users, "total": len(users)})
}

// GET /api/users/:id - admin, or the user themselves
func (h *UserHandler) Get(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	role, _ := c.Get("role").(string)
	uid, _ := c.Get("user_id").(uint)
	if role != "admin" && uid != uint(id) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
	}

	var u models.User
	if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"user": u})
}

// POST /api/users - admin only
func (h *UserHandler) Create(c echo.Context) error {
	var p userPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.norm()
	if errs := validateUser(&p, true); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	var cnt int64
	database.DB.Model(&models.User{}).Where("email = ?", p.Email).Count(&cnt)
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "EMAIL_EXISTS"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), 12)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "HASH_FAILED"})
	}

	u := models.User{
		Name:     p.Name,
		Email:    p.Email,
		Password: string(hash),
		Role:     p.Role,
		IsActive: true,
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if err := database.DB.Create(&u).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"user": u})
}

// PUT /api/users/:id - admin only
func (h *UserHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var cur models.User
	if err := database.DB.First(&cur, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var p userPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.norm()
	if errs := validateUser(&p, false); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	var cnt int64
	database.DB.Model(&models.User{}).Where("email = ? AND id <> ?", p.Email, cur.ID).Count(&cnt)
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "EMAIL_EXISTS"})
	}

	cur.Name = p.Name
	cur.Email = p.Email
	cur.Role = p.Role
	if p.IsActive != nil {
		cur.IsActive = *p.IsActive
	}
	if p.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), 12)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "HASH_FAILED"})
		}
		cur.Password = string(hash)
	}

	if err := database.DB.Save(&cur).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"user": cur})
}

// DELETE /api/users/:id - deactivate, never drop the row
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	var u models.User
	if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if err := database.DB.Model(&u).Update("is_active", false).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deactivated"})
}
