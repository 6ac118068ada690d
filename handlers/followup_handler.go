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

type FollowupHandler struct {
	svc *lifecycle.Service
}

func NewFollowupHandler() *FollowupHandler {
	return &FollowupHandler{svc: lifecycle.NewService(lifecycle.NewGormStore(), logger.Log)}
}

// followupRow joins a followup with its dispatch and teacher display fields;
// the call sheet works from this row alone.
type followupRow struct {
	models.Followup
	DispatchDate   dates.Date  `json:"dispatch_date"`
	PodDate        *dates.Date `json:"pod_date,omitempty"`
	DispatchStatus string      `json:"dispatch_status"`
	TeacherName    string      `json:"teacher_name"`
	ContactNumber  string      `json:"contact_number"`
	SchoolName     string      `json:"school_name,omitempty"`
	Address1       string      `json:"address_1,omitempty"`
	Address2       string      `json:"address_2,omitempty"`
	Address3       string      `json:"address_3,omitempty"`
	Barcode        string      `json:"barcode"`
}

// GET /api/followups?date=&status=&dispatch_id=&followup_level=&from_date=&to_date=&page=&limit=
// date accepts the literal "today" for the day's call sheet.
func (h *FollowupHandler) List(c echo.Context) error {
	base := database.DB.Table("followups AS f").
		Joins("JOIN dispatches d ON f.dispatch_id = d.id").
		Joins("JOIN teachers t ON d.teacher_id = t.id")

	if v := strings.TrimSpace(c.QueryParam("date")); v != "" {
		if v == "today" {
			v = dates.Today(time.Local).String()
		}
		base = base.Where("f.reminder_date = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		base = base.Where("f.status = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("dispatch_id")); v != "" {
		base = base.Where("f.dispatch_id = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("followup_level")); v != "" {
		base = base.Where("f.followup_level = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("from_date")); v != "" {
		base = base.Where("f.reminder_date >= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("to_date")); v != "" {
		base = base.Where("f.reminder_date <= ?", v)
	}

	page, limit := pageLimit(c)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_COUNT_FAILED"})
	}

	var rows []followupRow
	if err := base.
		Select(`f.*, d.dispatch_date, d.pod_date, d.status AS dispatch_status,
			t.teacher_name, t.contact_number, t.school_name,
			t.address_1, t.address_2, t.address_3, t.barcode`).
		Order("f.reminder_date ASC, f.followup_level ASC").
		Limit(limit).Offset((page - 1) * limit).
		Scan(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"followups":  rows,
		"pagination": pagination(total, page, limit),
	})
}

// GET /api/followups/:id
func (h *FollowupHandler) Get(c echo.Context) error {
	id := c.Param("id")
	var row followupRow
	err := database.DB.Table("followups AS f").
		Select(`f.*, d.dispatch_date, d.pod_date, d.status AS dispatch_status,
			t.teacher_name, t.contact_number, t.school_name, t.barcode`).
		Joins("JOIN dispatches d ON f.dispatch_id = d.id").
		Joins("JOIN teachers t ON d.teacher_id = t.id").
		Where("f.id = ?", id).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, row)
}

// PUT /api/followups/:id - operator resolves a followup; the escalation
// engine may schedule the next level in the same transaction
func (h *FollowupHandler) Update(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "message": "followup id required"})
	}

	var in lifecycle.ResolveInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}

	res, err := h.svc.ResolveFollowup(uint(id), in)
	if err != nil {
		return lifecycleError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"updated":       res.Updated,
		"next_followup": res.Next,
	})
}
