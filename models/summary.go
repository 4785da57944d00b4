package models

import "time"

// Summary is a generated narrative for one (date, organization). Multiple
// versions per date are retained; the latest is the one with max version.
type Summary struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	Date           string    `json:"date" gorm:"size:10;not null;uniqueIndex:idx_summaries_date_version_org"`
	Version        int       `json:"version" gorm:"not null;uniqueIndex:idx_summaries_date_version_org"`
	OrganizationID uint      `json:"organization_id" gorm:"not null;uniqueIndex:idx_summaries_date_version_org"`
	Content        string    `json:"content" gorm:"type:text"`
	ModelUsed      string    `json:"model_used"`
	CreatedAt      time.Time `json:"created_at"`
}
