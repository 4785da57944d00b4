package models

import (
	"strings"
	"time"
)

const (
	SourceImported       = "imported"
	SourceUploaded       = "uploaded"
	sourceUploadedPrefix = "uploaded by "
)

// Article is shared across organizations; per-tenant state lives on the
// Classification rows. Starred is a global flag on the shared row.
type Article struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	Title         string    `json:"title" gorm:"not null"`
	Link          string    `json:"link"`
	Summary       string    `json:"summary" gorm:"type:text"`
	Source        string    `json:"source" gorm:"index;default:'imported'"`
	DatePublished time.Time `json:"date_published" gorm:"index;not null"`
	DateAdded     time.Time `json:"date_added"`
	Starred       bool      `json:"starred" gorm:"default:false"`

	Classifications []Classification `json:"classifications,omitempty" gorm:"foreignKey:ArticleID"`
}

// UploadedSource tags an article as uploaded by the given user.
func UploadedSource(username string) string {
	return sourceUploadedPrefix + username
}

// OwnedBy reports whether the article's source marks it as uploaded by the
// given user. Ownership is a string convention on the source field.
func (a *Article) OwnedBy(username string) bool {
	return username != "" && strings.EqualFold(a.Source, sourceUploadedPrefix+username)
}
