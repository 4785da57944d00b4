package repositories

import (
	"threatlens/models"

	"gorm.io/gorm"
)

type ClassificationRepository interface {
	Create(cls *models.Classification) error
	Update(cls *models.Classification) error
	GetByArticleAndOrg(articleID, orgID uint) (*models.Classification, error)
	GetVisibleForArticles(orgID uint, articleIDs []uint) ([]models.Classification, error)
}

type classificationRepository struct {
	db *gorm.DB
}

func NewClassificationRepository(db *gorm.DB) ClassificationRepository {
	return &classificationRepository{db: db}
}

func (r *classificationRepository) Create(cls *models.Classification) error {
	return r.db.Create(cls).Error
}

func (r *classificationRepository) Update(cls *models.Classification) error {
	return r.db.Save(cls).Error
}

func (r *classificationRepository) GetByArticleAndOrg(articleID, orgID uint) (*models.Classification, error) {
	var cls models.Classification
	err := r.db.Where("article_id = ? AND organization_id = ?", articleID, orgID).First(&cls).Error
	return &cls, err
}

// GetVisibleForArticles loads the organization's non-OUTDATED rows for a
// page of articles, to be zipped onto the article list.
func (r *classificationRepository) GetVisibleForArticles(orgID uint, articleIDs []uint) ([]models.Classification, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}
	var rows []models.Classification
	err := r.db.
		Where("organization_id = ? AND article_id IN ?", orgID, articleIDs).
		Where("classification <> ? AND status <> ?", models.ValueOutdated, models.StatusOutdated).
		Find(&rows).Error
	return rows, err
}
