package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nellaibill/teachersbank/dates"
	"github.com/nellaibill/teachersbank/lifecycle"
	"github.com/nellaibill/teachersbank/models"
)

func newScanContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/dispatch", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func scanFixture() (*DispatchHandler, *lifecycle.MemoryStore) {
	store := lifecycle.NewMemoryStore()
	store.AddTeacher(models.Teacher{
		TeacherName:   "K. Amutha",
		ContactNumber: "9876543210",
		SchoolName:    "GHS Nanguneri",
		Barcode:       "ARL|EN6|X|EM|01|000001",
		IsActive:      true,
	})
	return &DispatchHandler{svc: lifecycle.NewService(store, nil)}, store
}

func TestScanCreatesDispatchAndReminder(t *testing.T) {
	e := echo.New()
	h, store := scanFixture()

	ctx, rec := newScanContext(e, `{"barcode":"ARL|EN6|X|EM|01|000001","dispatch_date":"2026-02-27"}`)
	require.NoError(t, h.Scan(ctx))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Dispatch     lifecycle.RegisteredDispatch `json:"dispatch"`
		ReminderDate string                       `json:"reminder_date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-03-09", resp.ReminderDate)
	assert.Equal(t, models.DispatchStatusDispatched, resp.Dispatch.Status)
	assert.Equal(t, "K. Amutha", resp.Dispatch.TeacherName)

	fups := store.FollowupsForDispatch(resp.Dispatch.ID)
	require.Len(t, fups, 1)
	assert.Equal(t, "2026-03-09", fups[0].ReminderDate.String())
}

func TestScanDefaultsToToday(t *testing.T) {
	e := echo.New()
	h, _ := scanFixture()

	ctx, rec := newScanContext(e, `{"barcode":"ARL|EN6|X|EM|01|000001"}`)
	require.NoError(t, h.Scan(ctx))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ReminderDate string `json:"reminder_date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	want := dates.Today(time.Local).AddDays(10).String()
	assert.Equal(t, want, resp.ReminderDate)
}

func TestScanRejectsDuplicate(t *testing.T) {
	e := echo.New()
	h, _ := scanFixture()

	ctx, rec := newScanContext(e, `{"barcode":"ARL|EN6|X|EM|01|000001","dispatch_date":"2026-02-27"}`)
	require.NoError(t, h.Scan(ctx))
	require.Equal(t, http.StatusCreated, rec.Code)

	ctx, rec = newScanContext(e, `{"barcode":"ARL|EN6|X|EM|01|000001","dispatch_date":"2026-02-27"}`)
	require.NoError(t, h.Scan(ctx))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_DISPATCH")
}

func TestScanErrors(t *testing.T) {
	e := echo.New()
	h, _ := scanFixture()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"missing barcode", `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"blank barcode", `{"barcode":"   "}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown barcode", `{"barcode":"ARL|ZZ|Z|EM|99|999999","dispatch_date":"2026-02-27"}`, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rec := newScanContext(e, tt.body)
			require.NoError(t, h.Scan(ctx))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantErr)
		})
	}
}
