package models

import "time"

type Teacher struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TeacherName   string    `gorm:"size:100;not null" json:"teacher_name"`
	ContactNumber string    `gorm:"size:15;not null" json:"contact_number"`
	Address1      string    `gorm:"size:100" json:"address_1,omitempty"`
	Address2      string    `gorm:"size:100" json:"address_2,omitempty"`
	Address3      string    `gorm:"size:100" json:"address_3,omitempty"`
	DtCode        string    `gorm:"size:10" json:"dt_code,omitempty"`  // district code
	SubCode       string    `gorm:"size:10" json:"sub_code,omitempty"` // subject code
	Std           string    `gorm:"size:5" json:"std,omitempty"`       // standard, "6".."12"
	YearCode      string    `gorm:"size:10" json:"year_code,omitempty"`
	Medium        string    `gorm:"size:5" json:"medium,omitempty"` // "TM" | "EM"
	SchoolName    string    `gorm:"size:150" json:"school_name,omitempty"`
	SchoolType    string    `gorm:"size:50" json:"school_type,omitempty"`
	Barcode       string    `gorm:"size:40;uniqueIndex" json:"barcode"` // derived once at creation, never regenerated
	IsActive      bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var SchoolTypes = map[string]bool{
	"Govt. School":         true,
	"Govt. Aided School":   true,
	"Matriculation School": true,
	"Corporation School":   true,
}

var Mediums = map[string]bool{"TM": true, "EM": true}

var Standards = map[string]bool{
	"6": true, "7": true, "8": true, "9": true, "10": true, "11": true, "12": true,
}
