package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nellaibill/teachersbank/database"
	"github.com/nellaibill/teachersbank/dates"
	"github.com/nellaibill/teachersbank/lifecycle"
	"github.com/nellaibill/teachersbank/logger"
	"github.com/nellaibill/teachersbank/models"
)

type DispatchHandler struct {
	svc *lifecycle.Service
}

func NewDispatchHandler() *DispatchHandler {
	return &DispatchHandler{svc: lifecycle.NewService(lifecycle.NewGormStore(), logger.Log)}
}

type scanPayload struct {
	Barcode      string      `json:"barcode"`
	DispatchDate *dates.Date `json:"dispatch_date"`
}

// POST /api/dispatch - barcode scan; creates the dispatch and seeds the
// level-1 followup
func (h *DispatchHandler) Scan(c echo.Context) error {
	var p scanPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if strings.TrimSpace(p.Barcode) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "message": "barcode is required"})
	}

	day := dates.Today(time.Local)
	if p.DispatchDate != nil {
		day = *p.DispatchDate
	}

	res, err := h.svc.RegisterDispatch(p.Barcode, day)
	if err != nil {
		return lifecycleError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"dispatch":      res.Dispatch,
		"reminder_date": res.ReminderDate,
	})
}

// dispatchRow joins a dispatch with the teacher columns the list screen shows.
type dispatchRow struct {
	models.Dispatch
	TeacherName   string `json:"teacher_name"`
	ContactNumber string `json:"contact_number"`
	SchoolName    string `json:"school_name,omitempty"`
	Barcode       string `json:"barcode"`
	DtCode        string `json:"dt_code,omitempty"`
	SubCode       string `json:"sub_code,omitempty"`
	Medium        string `json:"medium,omitempty"`
	Std           string `json:"std,omitempty"`
	FollowupCount int64  `json:"followup_count"`
}

// GET /api/dispatch?date=&status=&teacher_id=&from_date=&to_date=&page=&limit=
func (h *DispatchHandler) List(c echo.Context) error {
	base := database.DB.Table("dispatches AS d").
		Joins("JOIN teachers t ON d.teacher_id = t.id")

	if v := strings.TrimSpace(c.QueryParam("date")); v != "" {
		base = base.Where("d.dispatch_date = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		base = base.Where("d.status = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("teacher_id")); v != "" {
		base = base.Where("d.teacher_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("from_date")); v != "" {
		base = base.Where("d.dispatch_date >= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("to_date")); v != "" {
		base = base.Where("d.dispatch_date <= ?", v)
	}

	page, limit := pageLimit(c)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_COUNT_FAILED"})
	}

	var rows []dispatchRow
	if err := base.
		Select(`d.*, t.teacher_name, t.contact_number, t.school_name, t.barcode,
			t.dt_code, t.sub_code, t.medium, t.std,
			(SELECT COUNT(*) FROM followups f WHERE f.dispatch_id = d.id) AS followup_count`).
		Order("d.dispatch_date DESC, d.id DESC").
		Limit(limit).Offset((page - 1) * limit).
		Scan(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"dispatches": rows,
		"pagination": pagination(total, page, limit),
	})
}

// GET /api/dispatch/:id - dispatch with teacher fields and its followups
func (h *DispatchHandler) Get(c echo.Context) error {
	id := c.Param("id")

	type detailRow struct {
		models.Dispatch
		TeacherName   string `json:"teacher_name"`
		ContactNumber string `json:"contact_number"`
		SchoolName    string `json:"school_name,omitempty"`
		Barcode       string `json:"barcode"`
		Address1      string `json:"address_1,omitempty"`
		Address2      string `json:"address_2,omitempty"`
		Address3      string `json:"address_3,omitempty"`
	}
	var row detailRow
	err := database.DB.Table("dispatches AS d").
		Select("d.*, t.teacher_name, t.contact_number, t.school_name, t.barcode, t.address_1, t.address_2, t.address_3").
		Joins("JOIN teachers t ON d.teacher_id = t.id").
		Where("d.id = ?", id).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var fups []models.Followup
	if err := database.DB.Where("dispatch_id = ?", row.ID).Order("followup_level").Find(&fups).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"dispatch":  row,
		"followups": fups,
	})
}

type dispatchUpdatePayload struct {
	PodDate *dates.Date `json:"pod_date"`
	Status  *string     `json:"status"`
}

// PUT /api/dispatch/:id - record POD date and/or flip status
func (h *DispatchHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var cur models.Dispatch
	if err := database.DB.First(&cur, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var p dispatchUpdatePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if p.PodDate == nil && p.Status == nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "message": "no fields to update"})
	}
	if p.Status != nil && !models.DispatchStatuses[*p.Status] {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "message": "unknown status"})
	}

	if p.PodDate != nil {
		cur.PodDate = p.PodDate
	}
	if p.Status != nil {
		cur.Status = *p.Status
	}
	if err := database.DB.Save(&cur).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cur)
}
