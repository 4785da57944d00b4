package repositories

import (
	"threatlens/models"

	"gorm.io/gorm"
)

type SummaryRepository interface {
	Create(summary *models.Summary) error
	GetByID(id uint) (*models.Summary, error)
	ListByDate(orgID uint, date string) ([]models.Summary, error)
	Latest(orgID uint, date string) (*models.Summary, error)
	MaxVersion(orgID uint, date string) (int, error)
	Delete(id uint) error
}

type summaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) Create(summary *models.Summary) error {
	return r.db.Create(summary).Error
}

func (r *summaryRepository) GetByID(id uint) (*models.Summary, error) {
	var summary models.Summary
	err := r.db.First(&summary, id).Error
	return &summary, err
}

func (r *summaryRepository) ListByDate(orgID uint, date string) ([]models.Summary, error) {
	var summaries []models.Summary
	err := r.db.
		Where("organization_id = ? AND date = ?", orgID, date).
		Order("version desc").
		Find(&summaries).Error
	return summaries, err
}

func (r *summaryRepository) Latest(orgID uint, date string) (*models.Summary, error) {
	var summary models.Summary
	err := r.db.
		Where("organization_id = ? AND date = ?", orgID, date).
		Order("version desc").
		First(&summary).Error
	return &summary, err
}

func (r *summaryRepository) MaxVersion(orgID uint, date string) (int, error) {
	var max *int
	err := r.db.Model(&models.Summary{}).
		Where("organization_id = ? AND date = ?", orgID, date).
		Select("MAX(version)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

func (r *summaryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Summary{}, id).Error
}
