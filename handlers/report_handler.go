package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nellaibill/teachersbank/database"
	"github.com/nellaibill/teachersbank/dates"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler { return &ReportHandler{} }

// GET /api/reports?type=consolidated|label|dispatch|school_address
func (h *ReportHandler) Get(c echo.Context) error {
	switch c.QueryParam("type") {
	case "consolidated":
		return h.consolidated(c)
	case "label":
		return h.label(c)
	case "dispatch":
		return h.dispatch(c)
	case "school_address":
		return h.schoolAddress(c)
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error":   "INVALID_REPORT_TYPE",
			"message": "use: consolidated, label, dispatch, school_address",
		})
	}
}

// teacherFilters applies the shared classification filters every report
// accepts.
func teacherFilters(c echo.Context, tx *gorm.DB) *gorm.DB {
	if v := strings.TrimSpace(c.QueryParam("dt_code")); v != "" {
		tx = tx.Where("t.dt_code = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("sub_code")); v != "" {
		tx = tx.Where("t.sub_code = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("medium")); v != "" {
		tx = tx.Where("t.medium = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("std")); v != "" {
		tx = tx.Where("t.std = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("school_type")); v != "" {
		tx = tx.Where("t.school_type = ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("teacher_name")); v != "" {
		tx = tx.Where("t.teacher_name ILIKE ?", "%"+v+"%")
	}
	if v := strings.TrimSpace(c.QueryParam("contact")); v != "" {
		tx = tx.Where("t.contact_number ILIKE ?", "%"+v+"%")
	}
	return tx
}

type consolidatedRow struct {
	Sno                  int64       `json:"sno" gorm:"-"`
	ID                   uint        `json:"id"`
	TeacherName          string      `json:"teacher_name"`
	ContactNumber        string      `json:"contact_number"`
	DtCode               string      `json:"dt_code,omitempty"`
	SubCode              string      `json:"sub_code,omitempty"`
	Std                  string      `json:"std,omitempty"`
	Medium               string      `json:"medium,omitempty"`
	YearCode             string      `json:"year_code,omitempty"`
	SchoolName           string      `json:"school_name,omitempty"`
	SchoolType           string      `json:"school_type,omitempty"`
	Address1             string      `json:"address_1,omitempty"`
	Address2             string      `json:"address_2,omitempty"`
	Address3             string      `json:"address_3,omitempty"`
	Barcode              string      `json:"barcode"`
	TotalDispatches      int64       `json:"total_dispatches"`
	LastDispatchDate     *dates.Date `json:"last_dispatch_date,omitempty"`
	LatestFollowupStatus *string     `json:"latest_followup_status,omitempty"`
	LatestFollowupLevel  *int        `json:"latest_followup_level,omitempty"`
}

// One line per active teacher with dispatch totals and the state of the
// latest followup.
func (h *ReportHandler) consolidated(c echo.Context) error {
	tx := teacherFilters(c, database.DB.Table("teachers AS t")).
		Where("t.is_active = ?", true)

	var rows []consolidatedRow
	err := tx.Select(`t.id, t.teacher_name, t.contact_number,
		t.dt_code, t.sub_code, t.std, t.medium, t.year_code,
		t.school_name, t.school_type, t.address_1, t.address_2, t.address_3, t.barcode,
		(SELECT COUNT(*) FROM dispatches d WHERE d.teacher_id = t.id) AS total_dispatches,
		(SELECT MAX(d.dispatch_date) FROM dispatches d WHERE d.teacher_id = t.id) AS last_dispatch_date,
		(SELECT f.status FROM followups f JOIN dispatches d ON f.dispatch_id = d.id
			WHERE d.teacher_id = t.id ORDER BY f.id DESC LIMIT 1) AS latest_followup_status,
		(SELECT f.followup_level FROM followups f JOIN dispatches d ON f.dispatch_id = d.id
			WHERE d.teacher_id = t.id ORDER BY f.id DESC LIMIT 1) AS latest_followup_level`).
		Order("t.dt_code, t.teacher_name").
		Scan(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	for i := range rows {
		rows[i].Sno = int64(i + 1)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"report_type": "consolidated",
		"total":       len(rows),
		"records":     rows,
	})
}

type labelRow struct {
	ID            uint   `json:"id"`
	Barcode       string `json:"barcode"`
	TeacherName   string `json:"teacher_name"`
	ContactNumber string `json:"contact_number"`
	SchoolName    string `json:"school_name,omitempty"`
	Address1      string `json:"address_1,omitempty"`
	Address2      string `json:"address_2,omitempty"`
	Address3      string `json:"address_3,omitempty"`
	FullAddress   string `json:"full_address" gorm:"-"`
}

// Data for printable mailing labels: barcode, name, collapsed address.
func (h *ReportHandler) label(c echo.Context) error {
	tx := teacherFilters(c, database.DB.Table("teachers AS t")).
		Where("t.is_active = ?", true)

	var rows []labelRow
	err := tx.Select(`t.id, t.barcode, t.teacher_name, t.contact_number,
		t.school_name, t.address_1, t.address_2, t.address_3`).
		Order("t.dt_code, t.teacher_name").
		Scan(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	for i := range rows {
		rows[i].FullAddress = joinNonEmpty(", ",
			rows[i].SchoolName, rows[i].Address1, rows[i].Address2, rows[i].Address3)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"report_type": "label",
		"total":       len(rows),
		"labels":      rows,
	})
}

type dispatchReportRow struct {
	DispatchID     uint        `json:"dispatch_id"`
	DispatchDate   dates.Date  `json:"dispatch_date"`
	PodDate        *dates.Date `json:"pod_date,omitempty"`
	Status         string      `json:"status"`
	TeacherName    string      `json:"teacher_name"`
	ContactNumber  string      `json:"contact_number"`
	SchoolName     string      `json:"school_name,omitempty"`
	SchoolType     string      `json:"school_type,omitempty"`
	Barcode        string      `json:"barcode"`
	DtCode         string      `json:"dt_code,omitempty"`
	SubCode        string      `json:"sub_code,omitempty"`
	Medium         string      `json:"medium,omitempty"`
	Std            string      `json:"std,omitempty"`
	Address1       string      `json:"address_1,omitempty"`
	Address2       string      `json:"address_2,omitempty"`
	Address3       string      `json:"address_3,omitempty"`
	FollowupLevels *string     `json:"followup_levels,omitempty"`
	LatestFollowup *string     `json:"latest_followup,omitempty"`
}

// Dispatch register over a date range, with the followup chain summarized
// per dispatch.
func (h *ReportHandler) dispatch(c echo.Context) error {
	tx := database.DB.Table("dispatches AS d").
		Joins("JOIN teachers t ON d.teacher_id = t.id")

	if v := strings.TrimSpace(c.QueryParam("from_date")); v != "" {
		tx = tx.Where("d.dispatch_date >= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("to_date")); v != "" {
		tx = tx.Where("d.dispatch_date <= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("status")); v != "" {
		tx = tx.Where("d.status = ?", v)
	}
	tx = teacherFilters(c, tx)

	var rows []dispatchReportRow
	err := tx.Select(`d.id AS dispatch_id, d.dispatch_date, d.pod_date, d.status,
		t.teacher_name, t.contact_number, t.school_name, t.barcode,
		t.dt_code, t.sub_code, t.medium, t.std, t.school_type,
		t.address_1, t.address_2, t.address_3,
		(SELECT STRING_AGG(f.followup_level::text, ',' ORDER BY f.followup_level)
			FROM followups f WHERE f.dispatch_id = d.id) AS followup_levels,
		(SELECT f.status FROM followups f WHERE f.dispatch_id = d.id
			ORDER BY f.id DESC LIMIT 1) AS latest_followup`).
		Order("d.dispatch_date DESC").
		Scan(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"report_type": "dispatch",
		"total":       len(rows),
		"records":     rows,
	})
}

type schoolAddressRow struct {
	ID            uint   `json:"id"`
	TeacherName   string `json:"teacher_name"`
	ContactNumber string `json:"contact_number"`
	SchoolName    string `json:"school_name,omitempty"`
	SchoolType    string `json:"school_type,omitempty"`
	DtCode        string `json:"dt_code,omitempty"`
	Address1      string `json:"address_1,omitempty"`
	Address2      string `json:"address_2,omitempty"`
	Address3      string `json:"address_3,omitempty"`
	FullAddress   string `json:"full_address" gorm:"-"`
}

// School-facing address labels.
func (h *ReportHandler) schoolAddress(c echo.Context) error {
	tx := teacherFilters(c, database.DB.Table("teachers AS t")).
		Where("t.is_active = ?", true)

	var rows []schoolAddressRow
	err := tx.Select(`t.id, t.teacher_name, t.contact_number,
		t.school_name, t.address_1, t.address_2, t.address_3,
		t.school_type, t.dt_code`).
		Order("t.school_name, t.teacher_name").
		Scan(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	for i := range rows {
		rows[i].FullAddress = joinNonEmpty(", ",
			rows[i].SchoolName, rows[i].Address1, rows[i].Address2, rows[i].Address3)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"report_type": "school_address",
		"total":       len(rows),
		"records":     rows,
	})
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
