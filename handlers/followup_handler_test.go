package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
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

type resolveResponse struct {
	Updated      models.Followup  `json:"updated"`
	NextFollowup *models.Followup `json:"next_followup"`
}

func followupFixture(t *testing.T) (*FollowupHandler, *lifecycle.MemoryStore, models.Followup) {
	t.Helper()
	store := lifecycle.NewMemoryStore()
	teacher := store.AddTeacher(models.Teacher{
		TeacherName:   "K. Amutha",
		ContactNumber: "9876543210",
		Barcode:       "ARL|EN6|X|EM|01|000001",
		IsActive:      true,
	})
	svc := lifecycle.NewService(store, nil)
	reg, err := svc.RegisterDispatch(teacher.Barcode, dates.New(2026, time.February, 27))
	require.NoError(t, err)
	level1 := store.FollowupsForDispatch(reg.Dispatch.ID)[0]
	return &FollowupHandler{svc: svc}, store, level1
}

func newResolveContext(e *echo.Echo, id uint, body string) (echo.Context, *httptest.ResponseRecorder) {
	sid := strconv.FormatUint(uint64(id), 10)
	req := httptest.NewRequest(http.MethodPut, "/api/followups/"+sid, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetPath("/api/followups/:id")
	ctx.SetParamNames("id")
	ctx.SetParamValues(sid)
	return ctx, rec
}

func TestResolveEscalatesToNextLevel(t *testing.T) {
	e := echo.New()
	h, store, level1 := followupFixture(t)

	ctx, rec := newResolveContext(e, level1.ID, `{"status":"Informed","remarks":"HM confirmed receipt"}`)
	require.NoError(t, h.Update(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.FollowupStatusInformed, resp.Updated.Status)
	assert.Equal(t, "HM confirmed receipt", resp.Updated.Remarks)
	require.NotNil(t, resp.NextFollowup)
	assert.Equal(t, 2, resp.NextFollowup.FollowupLevel)
	assert.Equal(t, "2026-03-19", resp.NextFollowup.ReminderDate.String())

	assert.Len(t, store.FollowupsForDispatch(level1.DispatchID), 2)
}

func TestResolveNoAnswerReturnsNullNext(t *testing.T) {
	e := echo.New()
	h, store, level1 := followupFixture(t)

	ctx, rec := newResolveContext(e, level1.ID, `{"status":"No Answer","remarks":"rang thrice"}`)
	require.NoError(t, h.Update(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.NextFollowup)
	assert.Len(t, store.FollowupsForDispatch(level1.DispatchID), 1)
}

func TestResolveErrors(t *testing.T) {
	e := echo.New()
	h, _, level1 := followupFixture(t)

	tests := []struct {
		name     string
		id       uint
		body     string
		wantCode int
		wantErr  string
	}{
		{"empty payload", level1.ID, `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown status", level1.ID, `{"status":"Busy"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing id", 0, `{"status":"Informed"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", 999, `{"status":"Informed"}`, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rec := newResolveContext(e, tt.id, tt.body)
			require.NoError(t, h.Update(ctx))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantErr)
		})
	}
}

// The workflow the scanning desk actually runs, end to end over HTTP
// payloads: scan on 2026-02-27, complete level 1, lose the teacher at
// level 2.
func TestFollowupChainOverHTTP(t *testing.T) {
	e := echo.New()
	h, store, level1 := followupFixture(t)

	ctx, rec := newResolveContext(e, level1.ID, `{"status":"Completed"}`)
	require.NoError(t, h.Update(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.NextFollowup)
	assert.Equal(t, "2026-03-19", resp.NextFollowup.ReminderDate.String())

	nextID := resp.NextFollowup.ID
	ctx, rec = newResolveContext(e, nextID, `{"status":"No Answer"}`)
	require.NoError(t, h.Update(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.NextFollowup)
	assert.Len(t, store.FollowupsForDispatch(level1.DispatchID), 2)
}
