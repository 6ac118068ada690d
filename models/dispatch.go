package models

import (
	"time"

	"github.com/nellaibill/teachersbank/dates"
)

// Dispatch statuses.
const (
	DispatchStatusDispatched = "Dispatched"
	DispatchStatusDelivered  = "Delivered"
	DispatchStatusReturned   = "Returned"
)

var DispatchStatuses = map[string]bool{
	DispatchStatusDispatched: true,
	DispatchStatusDelivered:  true,
	DispatchStatusReturned:   true,
}

// Dispatch is one mailing of materials to one teacher on one calendar date.
// The composite unique index makes the double-scan guard race safe: a second
// insert for the same (teacher, date) fails at the database regardless of
// what a concurrent request read beforehand.
type Dispatch struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	TeacherID    uint        `gorm:"not null;uniqueIndex:idx_dispatch_teacher_date" json:"teacher_id"`
	DispatchDate dates.Date  `gorm:"type:date;not null;uniqueIndex:idx_dispatch_teacher_date" json:"dispatch_date"`
	PodDate      *dates.Date `gorm:"type:date" json:"pod_date,omitempty"` // proof of delivery
	Status       string      `gorm:"size:20;not null;default:Dispatched" json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
