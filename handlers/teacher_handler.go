package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nellaibill/teachersbank/barcode"
	"github.com/nellaibill/teachersbank/database"
	"github.com/nellaibill/teachersbank/models"
)

/*** Validation rules ***/

var (
	tchReName  = regexp.MustCompile(`^[A-Za-z.\- ]{1,100}$`)
	tchReCode  = regexp.MustCompile(`^[A-Za-z0-9]{1,10}$`)
	tchRePhone = regexp.MustCompile(`^[0-9\- ]{1,15}$`)
)

type TeacherHandler struct{}

func NewTeacherHandler() *TeacherHandler { return &TeacherHandler{} }

type teacherPayload struct {
	TeacherName   string `json:"teacher_name"`
	ContactNumber string `json:"contact_number"`
	Address1      string `json:"address_1"`
	Address2      string `json:"address_2"`
	Address3      string `json:"address_3"`
	DtCode        string `json:"dt_code"`
	SubCode       string `json:"sub_code"`
	Std           string `json:"std"`
	YearCode      string `json:"year_code"`
	Medium        string `json:"medium"`
	SchoolName    string `json:"school_name"`
	SchoolType    string `json:"school_type"`
	IsActive      *bool  `json:"isActive"`
}

func (p *teacherPayload) norm() {
	p.TeacherName = strings.Join(strings.Fields(p.TeacherName), " ")
	p.ContactNumber = strings.TrimSpace(p.ContactNumber)
	p.Address1 = strings.TrimSpace(p.Address1)
	p.Address2 = strings.TrimSpace(p.Address2)
	p.Address3 = strings.TrimSpace(p.Address3)
	p.DtCode = strings.ToUpper(strings.TrimSpace(p.DtCode))
	p.SubCode = strings.ToUpper(strings.TrimSpace(p.SubCode))
	p.Std = strings.TrimSpace(p.Std)
	p.YearCode = strings.TrimSpace(p.YearCode)
	p.Medium = strings.ToUpper(strings.TrimSpace(p.Medium))
	p.SchoolName = strings.Join(strings.Fields(p.SchoolName), " ")
	p.SchoolType = strings.TrimSpace(p.SchoolType)
}

func tchOnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validateTeacher(p *teacherPayload) map[string]string {
	errs := map[string]string{}
	if p.TeacherName == "" || !tchReName.MatchString(p.TeacherName) {
		errs["teacher_name"] = "Name is required (letters/space/dot, max 100)"
	}
	d := tchOnlyDigits(p.ContactNumber)
	if d == "" || len(d) < 6 || len(d) > 12 || !tchRePhone.MatchString(p.ContactNumber) {
		errs["contact_number"] = "Contact number must have 6-12 digits"
	}
	if p.DtCode != "" && !tchReCode.MatchString(p.DtCode) {
		errs["dt_code"] = "District code must be alphanumeric (max 10)"
	}
	if p.SubCode != "" && !tchReCode.MatchString(p.SubCode) {
		errs["sub_code"] = "Subject code must be alphanumeric (max 10)"
	}
	if p.Std != "" && !models.Standards[p.Std] {
		errs["std"] = "Standard must be one of 6-12"
	}
	if p.Medium != "" && !models.Mediums[p.Medium] {
		errs["medium"] = "Medium must be TM or EM"
	}
	if p.SchoolType != "" && !models.SchoolTypes[p.SchoolType] {
		errs["school_type"] = "Unknown school type"
	}
	if len(p.SchoolName) > 150 {
		errs["school_name"] = "School name too long (max 150)"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p *teacherPayload) apply(t *models.Teacher) {
	t.TeacherName = p.TeacherName
	t.ContactNumber = p.ContactNumber
	t.Address1 = p.Address1
	t.Address2 = p.Address2
	t.Address3 = p.Address3
	t.DtCode = p.DtCode
	t.SubCode = p.SubCode
	t.Std = p.Std
	t.YearCode = p.YearCode
	t.Medium = p.Medium
	t.SchoolName = p.SchoolName
	t.SchoolType = p.SchoolType
}

/*** CRUD ***/

// GET /api/teachers?search=&dt_code=&sub_code=&std=&medium=&school_type=&isActive=&page=&limit=
func (h *TeacherHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Teacher{})

	if s := strings.TrimSpace(c.QueryParam("search")); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("teacher_name ILIKE ? OR contact_number ILIKE ? OR school_name ILIKE ?", like, like, like)
	}
	if v := strings.TrimSpace(c.QueryParam("dt_code")); v != "" {
		tx = tx.Where("dt_code = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("sub_code")); v != "" {
		tx = tx.Where("sub_code = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("std")); v != "" {
		tx = tx.Where("std = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("medium")); v != "" {
		tx = tx.Where("medium = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("school_type")); v != "" {
		tx = tx.Where("school_type = ?", v)
	}
	if v := c.QueryParam("isActive"); v != "" {
		tx = tx.Where("is_active = ?", v == "1" || strings.EqualFold(v, "true"))
	}

	page, limit := pageLimit(c)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_COUNT_FAILED"})
	}
	var items []models.Teacher
	if err := tx.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"teachers":   items,
		"pagination": pagination(total, page, limit),
	})
}

// dispatchHistoryRow is a dispatch plus how many followups hang off it.
type dispatchHistoryRow struct {
	models.Dispatch
	FollowupCount int64 `json:"followup_count"`
}

// GET /api/teachers/:id - teacher with dispatch history
func (h *TeacherHandler) Get(c echo.Context) error {
	id := c.Param("id")
	var t models.Teacher
	if err := database.DB.First(&t, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var history []dispatchHistoryRow
	if err := database.DB.Table("dispatches AS d").
		Select("d.*, (SELECT COUNT(*) FROM followups f WHERE f.dispatch_id = d.id) AS followup_count").
		Where("d.teacher_id = ?", t.ID).
		Order("d.dispatch_date DESC").
		Scan(&history).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"teacher":    t,
		"dispatches": history,
	})
}

// POST /api/teachers
func (h *TeacherHandler) Create(c echo.Context) error {
	var p teacherPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.norm()
	if errs := validateTeacher(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	var t models.Teacher
	p.apply(&t)
	t.IsActive = true

	// the barcode embeds the generated id, so insert first and stamp the
	// barcode in the same transaction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		t.Barcode = barcode.ForTeacher(&t)
		return tx.Model(&t).Update("barcode", t.Barcode).Error
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, t)
}

// PUT /api/teachers/:id - barcode stays as issued
func (h *TeacherHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var cur models.Teacher
	if err := database.DB.First(&cur, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var p teacherPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.norm()
	if errs := validateTeacher(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	p.apply(&cur)
	if p.IsActive != nil {
		cur.IsActive = *p.IsActive
	}

	if err := database.DB.Save(&cur).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cur)
}

// DELETE /api/teachers/:id - soft delete only; dispatch rows keep pointing
// at the teacher
func (h *TeacherHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	var t models.Teacher
	if err := database.DB.First(&t, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if err := database.DB.Model(&t).Update("is_active", false).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Teacher deactivated"})
}
