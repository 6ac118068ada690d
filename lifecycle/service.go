// Package lifecycle holds the dispatch registrar and the follow-up
// escalation engine: the rules for when materials count as dispatched and
// when the next phone reminder gets scheduled.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nellaibill/teachersbank/dates"
	"github.com/nellaibill/teachersbank/models"
)

// reminderStepDays is the escalation ladder: level n reminds at
// dispatch_date + n*10 days.
const reminderStepDays = 10

type Service struct {
	store Store
	log   *logrus.Logger
}

func NewService(store Store, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, log: log}
}

// RegisteredDispatch is a dispatch joined with the teacher display fields
// the scanning screen shows back to the operator.
type RegisteredDispatch struct {
	models.Dispatch
	TeacherName   string `json:"teacher_name"`
	ContactNumber string `json:"contact_number"`
	SchoolName    string `json:"school_name,omitempty"`
	Address1      string `json:"address_1,omitempty"`
	Address2      string `json:"address_2,omitempty"`
	Address3      string `json:"address_3,omitempty"`
}

type RegisterResult struct {
	Dispatch     RegisteredDispatch `json:"dispatch"`
	ReminderDate dates.Date         `json:"reminder_date"`
}

// RegisterDispatch records a barcode scan: it creates the dispatch for the
// teacher on the given date and seeds the level-1 followup, reminder at
// dispatchDate + 10 days. Both rows are written atomically. A second scan
// of the same teacher on the same date fails with ErrConflict.
func (s *Service) RegisterDispatch(rawBarcode string, dispatchDate dates.Date) (*RegisterResult, error) {
	code := strings.TrimSpace(rawBarcode)
	if code == "" {
		return nil, fmt.Errorf("%w: barcode is required", ErrValidation)
	}
	if dispatchDate.IsZero() {
		return nil, fmt.Errorf("%w: dispatch date is required", ErrValidation)
	}

	teacher, err := s.store.ActiveTeacherByBarcode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if teacher == nil {
		return nil, fmt.Errorf("%w: invalid barcode, teacher not found", ErrNotFound)
	}

	d := models.Dispatch{
		TeacherID:    teacher.ID,
		DispatchDate: dispatchDate,
		Status:       models.DispatchStatusDispatched,
	}
	reminder := dispatchDate.AddDays(reminderStepDays)
	first := models.Followup{
		FollowupLevel: 1,
		ReminderDate:  reminder,
		Status:        models.FollowupStatusPending,
	}

	if err := s.store.CreateDispatch(&d, &first); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: already dispatched on %s, duplicate scan rejected", ErrConflict, dispatchDate)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.log.WithFields(logrus.Fields{
		"teacher_id":    teacher.ID,
		"dispatch_id":   d.ID,
		"dispatch_date": dispatchDate.String(),
		"reminder_date": reminder.String(),
	}).Info("dispatch registered")

	return &RegisterResult{
		Dispatch: RegisteredDispatch{
			Dispatch:      d,
			TeacherName:   teacher.TeacherName,
			ContactNumber: teacher.ContactNumber,
			SchoolName:    teacher.SchoolName,
			Address1:      teacher.Address1,
			Address2:      teacher.Address2,
			Address3:      teacher.Address3,
		},
		ReminderDate: reminder,
	}, nil
}

// ResolveInput carries the operator's update; nil fields are untouched.
type ResolveInput struct {
	Status       *string     `json:"status"`
	Remarks      *string     `json:"remarks"`
	ReminderDate *dates.Date `json:"reminder_date"`
}

type ResolveResult struct {
	Updated models.Followup  `json:"updated"`
	Next    *models.Followup `json:"next_followup"` // nil when no escalation fired
}

// ResolveFollowup applies the operator's update to a followup and, when the
// new status closes the level out positively, schedules the next level.
// The escalation decision reads the level as it was before the update, the
// next reminder counts from the original dispatch date, and the write pair
// is atomic. Retries cannot double-create a level: the insert backs off when
// the level already exists.
func (s *Service) ResolveFollowup(id uint, in ResolveInput) (*ResolveResult, error) {
	if in.Status == nil && in.Remarks == nil && in.ReminderDate == nil {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if in.Status != nil && !models.FollowupStatuses[*in.Status] {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
	}
	if in.ReminderDate != nil && in.ReminderDate.IsZero() {
		return nil, fmt.Errorf("%w: invalid reminder date", ErrValidation)
	}

	cur, err := s.store.FollowupByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if cur == nil {
		return nil, fmt.Errorf("%w: followup %d not found", ErrNotFound, id)
	}

	levelBefore := cur.FollowupLevel

	if in.Status != nil {
		cur.Status = *in.Status
	}
	if in.Remarks != nil {
		cur.Remarks = *in.Remarks
	}
	if in.ReminderDate != nil {
		cur.ReminderDate = *in.ReminderDate
	}

	var next *models.Followup
	if in.Status != nil && shouldEscalate(levelBefore, *in.Status) {
		dispatch, err := s.store.DispatchByID(cur.DispatchID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if dispatch == nil {
			return nil, fmt.Errorf("%w: dispatch %d not found", ErrNotFound, cur.DispatchID)
		}
		nextLevel := levelBefore + 1
		next = &models.Followup{
			DispatchID:    cur.DispatchID,
			FollowupLevel: nextLevel,
			ReminderDate:  dispatch.DispatchDate.AddDays(nextLevel * reminderStepDays),
			Status:        models.FollowupStatusPending,
		}
	}

	created, err := s.store.SaveFollowup(cur, next)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	res := &ResolveResult{Updated: *cur}
	if next != nil && created {
		res.Next = next
		s.log.WithFields(logrus.Fields{
			"dispatch_id":   next.DispatchID,
			"level":         next.FollowupLevel,
			"reminder_date": next.ReminderDate.String(),
		}).Info("followup escalated")
	}
	return res, nil
}

// shouldEscalate is the escalation policy in one place: a level below the
// ceiling escalates when resolved as Informed or Completed. "No Answer"
// deliberately does not escalate; any further attempt is the operator's
// manual call.
func shouldEscalate(level int, status string) bool {
	if level >= models.MaxFollowupLevel {
		return false
	}
	return status == models.FollowupStatusInformed || status == models.FollowupStatusCompleted
}
