package models

import (
	"time"

	"gorm.io/gorm"
)

// Employee represents a staff member of the restaurant
type Employee struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Username    string         `gorm:"unique;not null" json:"username"`
	PIN         string         `json:"-"`    // Hashed quick access PIN
	Role        string         `json:"role"` // "admin", "cashier", "waiter", "delivery"
	Phone       string         `json:"phone"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// IsStaff reports whether the employee role gets staff pricing rules
// (surcharges for special proteins apply to staff-placed orders).
func (e *Employee) IsStaff() bool {
	switch e.Role {
	case "admin", "cashier", "waiter", "delivery":
		return true
	}
	return false
}
