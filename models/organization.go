package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization is a tenant. CreatedAt doubles as the visibility horizon:
// articles published before it never surface to this organization.
type Organization struct {
	ID             uint           `json:"id" gorm:"primarykey"`
	Name           string         `json:"name" gorm:"uniqueIndex;not null"`
	CompanyContext string         `json:"company_context" gorm:"type:text"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}
