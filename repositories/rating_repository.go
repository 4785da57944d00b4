package repositories

import (
	"threatlens/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	Upsert(rating *models.Rating) error
	Get(articleID, userID, orgID uint) (*models.Rating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert is a single atomic insert-or-update on the (article, user,
// organization) key, so concurrent resubmissions cannot race.
func (r *ratingRepository) Upsert(rating *models.Rating) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "article_id"},
			{Name: "user_id"},
			{Name: "organization_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
	}).Create(rating).Error
}

func (r *ratingRepository) Get(articleID, userID, orgID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.
		Where("article_id = ? AND user_id = ? AND organization_id = ?", articleID, userID, orgID).
		First(&rating).Error
	return &rating, err
}
