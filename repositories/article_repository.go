package repositories

import (
	"fmt"
	"time"

	"threatlens/models"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(article *models.Article) error
	Update(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetVisibleByID(org *models.Organization, id uint) (*models.Article, error)
	ListVisible(org *models.Organization, params models.ArticleListParams) ([]models.Article, int64, error)
	HardDelete(id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *articleRepository) Update(article *models.Article) error {
	return r.db.Save(article).Error
}

// GetByID ignores tenant scoping; only write paths that run their own
// ownership checks may use it.
func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.First(&article, id).Error
	return &article, err
}

func (r *articleRepository) GetVisibleByID(org *models.Organization, id uint) (*models.Article, error) {
	var article models.Article
	err := VisibleArticles(r.db, org).
		Where("articles.id = ?", id).
		Select("articles.*").
		First(&article).Error
	return &article, err
}

func (r *articleRepository) ListVisible(org *models.Organization, params models.ArticleListParams) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := VisibleArticles(r.db, org)

	if params.Type != "" {
		query = query.Where("classifications.classification = ? AND classifications.status = ?",
			params.Type, models.StatusClassified)
	}

	if params.Starred != nil {
		query = query.Where("articles.starred = ?", *params.Starred)
	}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("LOWER(articles.title) LIKE LOWER(?) OR LOWER(articles.summary) LIKE LOWER(?)", pattern, pattern)
	}

	if from, err := time.Parse("2006-01-02", params.From); err == nil {
		query = query.Where("articles.date_published >= ?", from)
	}
	if to, err := time.Parse("2006-01-02", params.To); err == nil {
		query = query.Where("articles.date_published < ?", to.AddDate(0, 0, 1))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := params.SortBy
	switch sortBy {
	case "date_published", "date_added", "title":
	default:
		sortBy = "date_published"
	}
	sortOrder := params.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("articles.%s %s", sortBy, sortOrder))

	offset := (params.Page - 1) * params.Limit
	err := query.Select("articles.*").Offset(offset).Limit(params.Limit).Find(&articles).Error

	return articles, total, err
}

// HardDelete removes the article row and every organization's
// classification of it, in one transaction. Used only for uploader-owned
// articles; shared articles are soft-hidden per tenant instead.
func (r *articleRepository) HardDelete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.Classification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Article{}, id).Error
	})
}
