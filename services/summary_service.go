package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"threatlens/models"
	"threatlens/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// summaryArticleCap bounds how many of a day's articles feed one summary,
// keeping the LLM prompt within context limits. Articles beyond the cap
// (sorted by publication date) are left out of the narrative.
const summaryArticleCap = 200

type SummaryService interface {
	List(orgID uint, date string) ([]models.Summary, error)
	Latest(orgID uint, date string) (*models.Summary, error)
	Generate(ctx context.Context, orgID uint, date string) (*models.Summary, error)
	Delete(orgID, id uint) error
}

type summaryService struct {
	summaryRepo repositories.SummaryRepository
	articleRepo repositories.ArticleRepository
	clsRepo     repositories.ClassificationRepository
	orgRepo     repositories.OrganizationRepository
	classifier  Classifier
	log         *zap.Logger
}

func NewSummaryService(
	summaryRepo repositories.SummaryRepository,
	articleRepo repositories.ArticleRepository,
	clsRepo repositories.ClassificationRepository,
	orgRepo repositories.OrganizationRepository,
	classifier Classifier,
	log *zap.Logger,
) SummaryService {
	return &summaryService{
		summaryRepo: summaryRepo,
		articleRepo: articleRepo,
		clsRepo:     clsRepo,
		orgRepo:     orgRepo,
		classifier:  classifier,
		log:         log,
	}
}

func (s *summaryService) List(orgID uint, date string) ([]models.Summary, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return s.summaryRepo.ListByDate(orgID, date)
}

func (s *summaryService) Latest(orgID uint, date string) (*models.Summary, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	summary, err := s.summaryRepo.Latest(orgID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "no summary for this date"}
		}
		return nil, err
	}
	return summary, nil
}

// Generate builds a narrative over the organization's visible classified
// articles for one date. Every version is retained; the new one gets
// max(existing)+1.
func (s *summaryService) Generate(ctx context.Context, orgID uint, date string) (*models.Summary, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "organization not found"}
	}

	articles, _, err := s.articleRepo.ListVisible(org, models.ArticleListParams{
		From:   date,
		To:     date,
		Page:   1,
		Limit:  summaryArticleCap,
		SortBy: "date_published",
	})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, models.ErrorNotFound{Message: "no visible articles for this date"}
	}

	ids := make([]uint, len(articles))
	titles := make(map[uint]string, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
		titles[articles[i].ID] = articles[i].Title
	}
	clsRows, err := s.clsRepo.GetVisibleForArticles(org.ID, ids)
	if err != nil {
		return nil, err
	}

	var headlines []string
	for _, cls := range clsRows {
		if cls.Status != models.StatusClassified {
			continue
		}
		headlines = append(headlines, fmt.Sprintf("[%s, criticality %d] %s", cls.Classification, cls.Criticality, titles[cls.ArticleID]))
	}
	if len(headlines) == 0 {
		return nil, models.ErrorNotFound{Message: "no classified articles for this date"}
	}

	content, err := s.classifier.Summarize(ctx, org.CompanyContext, headlines)
	if err != nil {
		s.log.Error("summary generation failed",
			zap.Uint("organization_id", org.ID),
			zap.String("date", date),
			zap.Error(err))
		return nil, err
	}

	maxVersion, err := s.summaryRepo.MaxVersion(org.ID, date)
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		Date:           date,
		Version:        maxVersion + 1,
		OrganizationID: org.ID,
		Content:        content,
		ModelUsed:      s.classifier.Model(),
	}
	if err := s.summaryRepo.Create(summary); err != nil {
		// Two generates racing for the same version hit the
		// (date, version, organization) unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrorConflict{Message: "summary version already exists, retry"}
		}
		return nil, err
	}
	return summary, nil
}

func (s *summaryService) Delete(orgID, id uint) error {
	summary, err := s.summaryRepo.GetByID(id)
	if err != nil || summary.OrganizationID != orgID {
		return models.ErrorNotFound{Message: "summary not found"}
	}
	return s.summaryRepo.Delete(id)
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return models.ErrorValidation{Message: "date must be formatted YYYY-MM-DD"}
	}
	return nil
}
