package lifecycle

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nellaibill/teachersbank/dates"
	"github.com/nellaibill/teachersbank/models"
)

func newTestService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	return NewService(store, nil), store
}

func seedTeacher(store *MemoryStore) models.Teacher {
	return store.AddTeacher(models.Teacher{
		TeacherName:   "K. Amutha",
		ContactNumber: "9876543210",
		Barcode:       "ARL|EN6|X|EM|01|000001",
		IsActive:      true,
	})
}

func ptr[T any](v T) *T { return &v }

func TestRegisterDispatch(t *testing.T) {
	svc, store := newTestService()
	teacher := seedTeacher(store)

	day := dates.New(2026, time.February, 27)
	res, err := svc.RegisterDispatch(teacher.Barcode, day)
	require.NoError(t, err)

	assert.Equal(t, teacher.ID, res.Dispatch.TeacherID)
	assert.Equal(t, models.DispatchStatusDispatched, res.Dispatch.Status)
	assert.Equal(t, teacher.TeacherName, res.Dispatch.TeacherName)
	assert.Equal(t, "2026-03-09", res.ReminderDate.String())

	fups := store.FollowupsForDispatch(res.Dispatch.ID)
	require.Len(t, fups, 1)
	assert.Equal(t, 1, fups[0].FollowupLevel)
	assert.Equal(t, models.FollowupStatusPending, fups[0].Status)
	assert.Equal(t, "2026-03-09", fups[0].ReminderDate.String())
}

func TestRegisterDispatchReminderDates(t *testing.T) {
	tests := []struct {
		name string
		day  dates.Date
		want string
	}{
		{"month end", dates.New(2026, time.January, 25), "2026-02-04"},
		{"leap february", dates.New(2024, time.February, 25), "2024-03-06"},
		{"plain", dates.New(2026, time.March, 1), "2026-03-11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService()
			teacher := seedTeacher(store)
			res, err := svc.RegisterDispatch(teacher.Barcode, tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.ReminderDate.String())
		})
	}
}

func TestRegisterDispatchDuplicateScan(t *testing.T) {
	svc, store := newTestService()
	teacher := seedTeacher(store)
	day := dates.New(2026, time.February, 27)

	first, err := svc.RegisterDispatch(teacher.Barcode, day)
	require.NoError(t, err)

	_, err = svc.RegisterDispatch(teacher.Barcode, day)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	// exactly one dispatch and one level-1 followup survived the double scan
	assert.Equal(t, 1, store.DispatchCount(teacher.ID))
	assert.Len(t, store.FollowupsForDispatch(first.Dispatch.ID), 1)

	// a different date is a fresh dispatch
	_, err = svc.RegisterDispatch(teacher.Barcode, day.AddDays(1))
	assert.NoError(t, err)
}

func TestRegisterDispatchBadInput(t *testing.T) {
	svc, store := newTestService()
	seedTeacher(store)
	day := dates.New(2026, time.February, 27)

	_, err := svc.RegisterDispatch("", day)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.RegisterDispatch("ARL|ZZ|Z|EM|99|999999", day)
	assert.ErrorIs(t, err, ErrNotFound)

	// inactive teachers cannot be dispatched to
	gone := store.AddTeacher(models.Teacher{Barcode: "ARL|EN6|X|EM|01|000077", IsActive: false})
	_, err = svc.RegisterDispatch(gone.Barcode, day)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveFollowupEscalates(t *testing.T) {
	svc, store := newTestService()
	teacher := seedTeacher(store)
	day := dates.New(2026, time.February, 27)
	reg, err := svc.RegisterDispatch(teacher.Barcode, day)
	require.NoError(t, err)
	level1 := store.FollowupsForDispatch(reg.Dispatch.ID)[0]

	res, err := svc.ResolveFollowup(level1.ID, ResolveInput{
		Status:  ptr(models.FollowupStatusInformed),
		Remarks: ptr("spoke to HM, books received"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.FollowupStatusInformed, res.Updated.Status)
	assert.Equal(t, "spoke to HM, books received", res.Updated.Remarks)

	require.NotNil(t, res.Next)
	assert.Equal(t, 2, res.Next.FollowupLevel)
	assert.Equal(t, models.FollowupStatusPending, res.Next.Status)
	// level 2 counts 20 days from the dispatch date, not from today
	assert.Equal(t, "2026-03-19", res.Next.ReminderDate.String())

	fups := store.FollowupsForDispatch(reg.Dispatch.ID)
	require.Len(t, fups, 2)
}

func TestResolveFollowupNoAnswerDoesNotEscalate(t *testing.T) {
	svc, store := newTestService()
	teacher := seedTeacher(store)
	reg, err := svc.RegisterDispatch(teacher.Barcode, dates.New(2026, time.February, 27))
	require.NoError(t, err)
	level1 := store.FollowupsForDispatch(reg.Dispatch.ID)[0]

	res, err := svc.ResolveFollowup(level1.ID, ResolveInput{Status: ptr(models.FollowupStatusNoAnswer)})
	require.NoError(t, err)
	assert.Nil(t, res.Next)
	assert.Len(t, store.FollowupsForDispatch(reg.Dispatch.ID), 1)
}

func TestResolveFollowupCeiling(t *testing.T) {
	svc, store := newTestService()
	teacher := seedTeacher(store)
	reg, err := svc.RegisterDispatch(teacher.Barcode, dates.New(2026, time.February, 27))
	require.NoError(t, err)

	// walk the chain all the way up
	for level := 1; level < models.MaxFollowupLevel; level++ {
		fups := store.FollowupsForDispatch(reg.Dispatch.ID)
		cur := fups[len(fups)-1]
		res, err := svc.ResolveFollowup(cur.ID, ResolveInput{Status: ptr(models.FollowupStatusCompleted)})
		require.NoError(t, err)
		require.NotNil(t, res.Next)
		assert.Equal(t, level+1, res.Next.FollowupLevel)
	}

	fups := store.FollowupsForDispatch(reg.Dispatch.ID)
	require.Len(t, fups, models.MaxFollowupLevel)
	level4 := fups[len(fups)-1]

	res, err := svc.ResolveFollowup(level4.ID, ResolveInput{Status: ptr(models.FollowupStatusCompleted)})
	require.NoError(t, err)
	assert.Nil(t, res.Next, "level 4 is the ceiling")
	assert.Len(t, store.FollowupsForDispatch(reg.Dispatch.ID), models.MaxFollowupLevel)
}

func TestResolveFollowupValidation(t *testing.T) {
	svc, store := newTestService()
	teacher := seedTeacher(store)
	reg, err := svc.RegisterDispatch(teacher.Barcode, dates.New(2026, time.February, 27))
	require.NoError(t, err)
	level1 := store.FollowupsForDispatch(reg.Dispatch.ID)[0]

	_, err = svc.ResolveFollowup(level1.ID, ResolveInput{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ResolveFollowup(level1.ID, ResolveInput{Status: ptr("Maybe Later")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ResolveFollowup(99999, ResolveInput{Status: ptr(models.FollowupStatusInformed)})
	assert.ErrorIs(t, err, ErrNotFound)

	// failed attempts left the row untouched
	got, _ := store.FollowupByID(level1.ID)
	assert.Equal(t, models.FollowupStatusPending, got.Status)
}

func TestResolveFollowupRemarksOnly(t *testing.T) {
	svc, store := newTestService()
	teacher := seedTeacher(store)
	reg, err := svc.RegisterDispatch(teacher.Barcode, dates.New(2026, time.February, 27))
	require.NoError(t, err)
	level1 := store.FollowupsForDispatch(reg.Dispatch.ID)[0]

	res, err := svc.ResolveFollowup(level1.ID, ResolveInput{Remarks: ptr("number unreachable, retry friday")})
	require.NoError(t, err)
	assert.Nil(t, res.Next)
	assert.Equal(t, models.FollowupStatusPending, res.Updated.Status)
	assert.Equal(t, "number unreachable, retry friday", res.Updated.Remarks)

	// moving the reminder by itself never escalates either
	moved := dates.New(2026, time.March, 20)
	res, err = svc.ResolveFollowup(level1.ID, ResolveInput{ReminderDate: &moved})
	require.NoError(t, err)
	assert.Nil(t, res.Next)
	assert.Equal(t, "2026-03-20", res.Updated.ReminderDate.String())
}

func TestResolveFollowupConcurrentEscalation(t *testing.T) {
	svc, store := newTestService()
	teacher := seedTeacher(store)
	reg, err := svc.RegisterDispatch(teacher.Barcode, dates.New(2026, time.February, 27))
	require.NoError(t, err)

	// march the chain to level 3
	for i := 0; i < 2; i++ {
		fups := store.FollowupsForDispatch(reg.Dispatch.ID)
		_, err := svc.ResolveFollowup(fups[len(fups)-1].ID, ResolveInput{Status: ptr(models.FollowupStatusCompleted)})
		require.NoError(t, err)
	}
	fups := store.FollowupsForDispatch(reg.Dispatch.ID)
	require.Len(t, fups, 3)
	level3 := fups[2]

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.ResolveFollowup(level3.ID, ResolveInput{Status: ptr(models.FollowupStatusInformed)})
		}()
	}
	wg.Wait()

	fups = store.FollowupsForDispatch(reg.Dispatch.ID)
	require.Len(t, fups, 4, "rival resolutions must not double-create level 4")
	assert.Equal(t, 4, fups[3].FollowupLevel)
}

// Full workflow from scan to dead end, in one sitting.
func TestDispatchLifecycleScenario(t *testing.T) {
	svc, store := newTestService()
	seedTeacher(store)

	reg, err := svc.RegisterDispatch("ARL|EN6|X|EM|01|000001", dates.New(2026, time.February, 27))
	require.NoError(t, err)
	assert.Equal(t, models.DispatchStatusDispatched, reg.Dispatch.Status)
	assert.Equal(t, "2026-03-09", reg.ReminderDate.String())

	level1 := store.FollowupsForDispatch(reg.Dispatch.ID)[0]
	res, err := svc.ResolveFollowup(level1.ID, ResolveInput{Status: ptr(models.FollowupStatusCompleted)})
	require.NoError(t, err)
	require.NotNil(t, res.Next)
	assert.Equal(t, "2026-03-19", res.Next.ReminderDate.String())

	res, err = svc.ResolveFollowup(res.Next.ID, ResolveInput{Status: ptr(models.FollowupStatusNoAnswer)})
	require.NoError(t, err)
	assert.Nil(t, res.Next)
	assert.Len(t, store.FollowupsForDispatch(reg.Dispatch.ID), 2)
}

func TestShouldEscalate(t *testing.T) {
	tests := []struct {
		level  int
		status string
		want   bool
	}{
		{1, models.FollowupStatusInformed, true},
		{1, models.FollowupStatusCompleted, true},
		{1, models.FollowupStatusNoAnswer, false},
		{1, models.FollowupStatusPending, false},
		{3, models.FollowupStatusCompleted, true},
		{4, models.FollowupStatusInformed, false},
		{4, models.FollowupStatusCompleted, false},
	}
	for _, tt := range tests {
		if got := shouldEscalate(tt.level, tt.status); got != tt.want {
			t.Errorf("shouldEscalate(%d, %q) = %v, want %v", tt.level, tt.status, got, tt.want)
		}
	}
}
