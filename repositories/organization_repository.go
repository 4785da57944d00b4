package repositories

import (
	"threatlens/models"

	"gorm.io/gorm"
)

type OrganizationRepository interface {
	Create(org *models.Organization) error
	GetByID(id uint) (*models.Organization, error)
	GetAll() ([]models.Organization, error)
	Update(org *models.Organization) error
	Delete(id uint) error
	CountUsers(orgID uint) (int64, error)
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

func (r *organizationRepository) GetByID(id uint) (*models.Organization, error) {
	var org models.Organization
	err := r.db.First(&org, id).Error
	return &org, err
}

func (r *organizationRepository) GetAll() ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.db.Order("name asc").Find(&orgs).Error
	return orgs, err
}

func (r *organizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

func (r *organizationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Organization{}, id).Error
}

func (r *organizationRepository) CountUsers(orgID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("organization_id = ?", orgID).Count(&count).Error
	return count, err
}
