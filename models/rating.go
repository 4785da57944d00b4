package models

import "time"

// Rating is unique per (article, user, organization); resubmission
// overwrites via an atomic upsert.
type Rating struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	ArticleID      uint      `json:"article_id" gorm:"not null;uniqueIndex:idx_ratings_article_user_org"`
	UserID         uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_ratings_article_user_org"`
	OrganizationID uint      `json:"organization_id" gorm:"not null;uniqueIndex:idx_ratings_article_user_org"`
	Rating         int       `json:"rating" gorm:"not null"`
	Review         string    `json:"review" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
