package models

import (
	"time"

	"gorm.io/gorm"
)

// User belongs to exactly one organization. Username is immutable after
// creation because article ownership is keyed on it.
type User struct {
	ID             uint           `json:"id" gorm:"primarykey"`
	Username       string         `json:"username" gorm:"uniqueIndex;not null"`
	Password       string         `json:"-" gorm:"not null"`
	FullName       string         `json:"full_name"`
	Email          string         `json:"email" gorm:"uniqueIndex;not null"`
	OrganizationID uint           `json:"organization_id" gorm:"not null;index"`
	Organization   *Organization  `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	LastLogin      *time.Time     `json:"last_login"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}
