package services

import (
	"errors"

	"threatlens/models"
	"threatlens/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ArticleView is the tenant-facing article shape: the shared row plus this
// organization's classification, if any.
type ArticleView struct {
	models.Article
	Classification *models.Classification `json:"classification,omitempty"`
}

type ArticleService interface {
	List(orgID uint, params models.ArticleListParams) ([]ArticleView, int64, error)
	Get(orgID, id uint) (*ArticleView, error)
	Delete(orgID uint, username string, id uint) error
	ToggleStar(orgID, id uint) (*models.Article, error)
}

type articleService struct {
	articleRepo repositories.ArticleRepository
	clsRepo     repositories.ClassificationRepository
	orgRepo     repositories.OrganizationRepository
	clsService  ClassificationService
	log         *zap.Logger
}

func NewArticleService(
	articleRepo repositories.ArticleRepository,
	clsRepo repositories.ClassificationRepository,
	orgRepo repositories.OrganizationRepository,
	clsService ClassificationService,
	log *zap.Logger,
) ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		clsRepo:     clsRepo,
		orgRepo:     orgRepo,
		clsService:  clsService,
		log:         log,
	}
}

func (s *articleService) List(orgID uint, params models.ArticleListParams) ([]ArticleView, int64, error) {
	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		// Fail closed: an unresolvable organization sees nothing, never an
		// unfiltered result.
		return []ArticleView{}, 0, nil
	}

	articles, total, err := s.articleRepo.ListVisible(org, params)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
	}
	clsRows, err := s.clsRepo.GetVisibleForArticles(org.ID, ids)
	if err != nil {
		return nil, 0, err
	}
	byArticle := make(map[uint]*models.Classification, len(clsRows))
	for i := range clsRows {
		byArticle[clsRows[i].ArticleID] = &clsRows[i]
	}

	views := make([]ArticleView, len(articles))
	for i := range articles {
		views[i] = ArticleView{
			Article:        articles[i],
			Classification: byArticle[articles[i].ID],
		}
	}
	return views, total, nil
}

func (s *articleService) Get(orgID, id uint) (*ArticleView, error) {
	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}

	article, err := s.articleRepo.GetVisibleByID(org, id)
	if err != nil {
		// Absent and tenant-invisible are indistinguishable on purpose.
		return nil, models.ErrorNotFound{Message: "article not found"}
	}

	view := &ArticleView{Article: *article}
	cls, err := s.clsRepo.GetByArticleAndOrg(article.ID, org.ID)
	if err == nil && !cls.Outdated() {
		view.Classification = cls
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return view, nil
}

// Delete applies the ownership rule: an uploader deleting their own
// article removes the row and every tenant's classification of it; for a
// shared article only the caller's classification is marked OUTDATED.
func (s *articleService) Delete(orgID uint, username string, id uint) error {
	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return models.ErrorNotFound{Message: "article not found"}
	}

	article, err := s.articleRepo.GetVisibleByID(org, id)
	if err != nil {
		return models.ErrorNotFound{Message: "article not found"}
	}

	if article.OwnedBy(username) {
		s.log.Info("hard-deleting uploader-owned article",
			zap.Uint("article_id", article.ID),
			zap.String("username", username))
		return s.articleRepo.HardDelete(article.ID)
	}

	return s.clsService.MarkOutdated(article.ID, org.ID)
}

func (s *articleService) ToggleStar(orgID, id uint) (*models.Article, error) {
	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}

	article, err := s.articleRepo.GetVisibleByID(org, id)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}

	// Starred lives on the shared article row, so the flag is visible to
	// every organization sharing the article.
	article.Starred = !article.Starred
	if err := s.articleRepo.Update(article); err != nil {
		return nil, err
	}
	return article, nil
}
