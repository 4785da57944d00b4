package repositories

import (
	"threatlens/models"

	"gorm.io/gorm"
)

// Tenant visibility is expressed once, here, as composable gorm scopes.
// Every article read path goes through VisibleArticles so no endpoint can
// forget the creation-date horizon or the OUTDATED exclusion.

// OrgHorizon restricts article rows to those published on or after the
// organization's creation date. The cutoff is an article-level policy and
// applies whether or not a classification row exists yet.
func OrgHorizon(org *models.Organization) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("articles.date_published >= ?", org.CreatedAt)
	}
}

// ExcludeOutdated hides superseded classification rows. Articles without a
// classification yet must stay visible, so NULLs pass. The terminal state
// was historically written to both fields, so both are checked.
func ExcludeOutdated() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(classifications.classification IS NULL OR classifications.classification <> ?) AND (classifications.status IS NULL OR classifications.status <> ?)",
			models.ValueOutdated, models.StatusOutdated,
		)
	}
}

// VisibleArticles is the canonical tenant-scoped article query: articles
// left-joined with the organization's own classification rows, horizon
// applied, OUTDATED rows hidden. Callers must resolve the organization
// before calling; an unresolved organization never reaches this function,
// so there is no unscoped fallback to fail open into.
func VisibleArticles(db *gorm.DB, org *models.Organization) *gorm.DB {
	return db.Model(&models.Article{}).
		Joins("LEFT JOIN classifications ON classifications.article_id = articles.id AND classifications.organization_id = ?", org.ID).
		Scopes(OrgHorizon(org), ExcludeOutdated())
}
