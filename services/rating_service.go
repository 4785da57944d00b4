package services

import (
	"errors"

	"threatlens/models"
	"threatlens/repositories"

	"gorm.io/gorm"
)

type RatingService interface {
	Rate(orgID, userID, articleID uint, req models.RateArticleRequest) (*models.Rating, error)
	Get(orgID, userID, articleID uint) (*models.Rating, error)
}

type ratingService struct {
	ratingRepo  repositories.RatingRepository
	articleRepo repositories.ArticleRepository
	orgRepo     repositories.OrganizationRepository
}

func NewRatingService(
	ratingRepo repositories.RatingRepository,
	articleRepo repositories.ArticleRepository,
	orgRepo repositories.OrganizationRepository,
) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		articleRepo: articleRepo,
		orgRepo:     orgRepo,
	}
}

// Rate upserts the caller's rating; resubmission overwrites. The article
// must be visible to the caller's organization.
func (s *ratingService) Rate(orgID, userID, articleID uint, req models.RateArticleRequest) (*models.Rating, error) {
	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}
	if _, err := s.articleRepo.GetVisibleByID(org, articleID); err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}

	rating := &models.Rating{
		ArticleID:      articleID,
		UserID:         userID,
		OrganizationID: orgID,
		Rating:         req.Rating,
		Review:         req.Review,
	}
	if err := s.ratingRepo.Upsert(rating); err != nil {
		return nil, err
	}

	return s.ratingRepo.Get(articleID, userID, orgID)
}

func (s *ratingService) Get(orgID, userID, articleID uint) (*models.Rating, error) {
	rating, err := s.ratingRepo.Get(articleID, userID, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "rating not found"}
		}
		return nil, err
	}
	return rating, nil
}
