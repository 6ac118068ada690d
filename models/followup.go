package models

import (
	"time"

	"github.com/nellaibill/teachersbank/dates"
)

// Followup statuses. Pending moves to exactly one of the other three;
// there is no way back to Pending.
const (
	FollowupStatusPending   = "Pending"
	FollowupStatusInformed  = "Informed"
	FollowupStatusCompleted = "Completed"
	FollowupStatusNoAnswer  = "No Answer"
)

var FollowupStatuses = map[string]bool{
	FollowupStatusPending:   true,
	FollowupStatusInformed:  true,
	FollowupStatusCompleted: true,
	FollowupStatusNoAnswer:  true,
}

// MaxFollowupLevel caps the escalation chain per dispatch.
const MaxFollowupLevel = 4

// Followup is one scheduled or resolved phone-contact attempt for a
// dispatch, at escalation level 1..4. Levels for a dispatch always form a
// gapless prefix starting at 1: level 1 is seeded with the dispatch, each
// further level only ever comes from resolving the one before it. The
// unique (dispatch_id, followup_level) index doubles as the idempotence
// guard against a level being created twice by racing resolutions.
type Followup struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	DispatchID    uint       `gorm:"not null;uniqueIndex:idx_followup_dispatch_level" json:"dispatch_id"`
	FollowupLevel int        `gorm:"not null;uniqueIndex:idx_followup_dispatch_level" json:"followup_level"`
	ReminderDate  dates.Date `gorm:"type:date;not null" json:"reminder_date"`
	Status        string     `gorm:"size:20;not null;default:Pending" json:"status"`
	Remarks       string     `gorm:"type:text" json:"remarks,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
