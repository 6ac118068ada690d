package models

import "time"

type User struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"size:100;not null"`
	Email     string     `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password  string     `json:"-" gorm:"not null"`            // bcrypt hash
	Role      string     `json:"role" gorm:"size:20;not null"` // "admin" | "operator"
	IsActive  bool       `json:"isActive" gorm:"not null;default:true"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
