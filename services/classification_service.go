package services

import (
	"context"
	"errors"
	"time"

	"threatlens/llm"
	"threatlens/metrics"
	"threatlens/models"
	"threatlens/repositories"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Classifier is the external LLM collaborator contract.
type Classifier interface {
	Classify(ctx context.Context, title, body, orgContext string) (*llm.Verdict, error)
	Summarize(ctx context.Context, orgContext string, headlines []string) (string, error)
	Model() string
}

type ClassificationService interface {
	Ingest(articleID, orgID uint) (*models.Classification, error)
	Classify(ctx context.Context, orgID, articleID uint) (*models.Classification, error)
	MarkOutdated(articleID, orgID uint) error
}

type classificationService struct {
	clsRepo     repositories.ClassificationRepository
	articleRepo repositories.ArticleRepository
	orgRepo     repositories.OrganizationRepository
	classifier  Classifier
	log         *zap.Logger
}

func NewClassificationService(
	clsRepo repositories.ClassificationRepository,
	articleRepo repositories.ArticleRepository,
	orgRepo repositories.OrganizationRepository,
	classifier Classifier,
	log *zap.Logger,
) ClassificationService {
	return &classificationService{
		clsRepo:     clsRepo,
		articleRepo: articleRepo,
		orgRepo:     orgRepo,
		classifier:  classifier,
		log:         log,
	}
}

// Ingest creates the PENDING record that puts an article into an
// organization's pipeline. A record existing in any state, OUTDATED
// included, makes this a no-op: OUTDATED is terminal and is not
// resurrected by re-ingestion.
func (s *classificationService) Ingest(articleID, orgID uint) (*models.Classification, error) {
	existing, err := s.clsRepo.GetByArticleAndOrg(articleID, orgID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cls := &models.Classification{
		ArticleID:      articleID,
		OrganizationID: orgID,
		Status:         models.StatusPending,
	}
	if err := s.clsRepo.Create(cls); err != nil {
		return nil, err
	}
	return cls, nil
}

// Classify synchronously asks the LLM for a verdict and moves the record
// PENDING -> CLASSIFIED. Visibility is checked first, so articles outside
// the organization's horizon read as absent.
func (s *classificationService) Classify(ctx context.Context, orgID, articleID uint) (*models.Classification, error) {
	org, err := s.orgRepo.GetByID(orgID)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "organization not found"}
	}

	article, err := s.articleRepo.GetVisibleByID(org, articleID)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "article not found"}
	}

	cls, err := s.Ingest(article.ID, org.ID)
	if err != nil {
		return nil, err
	}
	if cls.Outdated() {
		return nil, models.ErrorConflict{Message: "classification is outdated"}
	}
	if cls.Status == models.StatusClassified {
		return nil, models.ErrorConflict{Message: "article already classified"}
	}
	if !models.CanTransition(cls.Status, models.StatusClassified) {
		return nil, models.ErrorConflict{Message: "invalid classification state"}
	}

	start := time.Now()
	verdict, err := s.classifier.Classify(ctx, article.Title, article.Summary, org.CompanyContext)
	metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error("classification call failed",
			zap.Uint("article_id", article.ID),
			zap.Uint("organization_id", org.ID),
			zap.Error(err))
		return nil, err
	}

	now := time.Now()
	cls.Classification = models.ClassificationValue(verdict.Classification)
	cls.Status = models.StatusClassified
	cls.Explanation = verdict.Explanation
	cls.Reasoning = verdict.Reasoning
	cls.Advice = verdict.Advice
	cls.ClassificationDate = &now
	cls.Criticality = verdict.Criticality
	cls.Impact = factorScore(verdict.Impact)
	cls.Likelihood = factorScore(verdict.Likelihood)
	cls.Urgency = factorScore(verdict.Urgency)
	cls.Scope = factorScore(verdict.Scope)
	cls.Novelty = factorScore(verdict.Novelty)
	cls.Actionability = factorScore(verdict.Actionability)
	cls.RawVerdict = datatypes.JSON(verdict.Raw)

	if err := s.clsRepo.Update(cls); err != nil {
		return nil, err
	}

	metrics.ClassificationsCompleted.WithLabelValues(verdict.Classification).Inc()
	return cls, nil
}

// MarkOutdated soft-deletes the organization's view of an article. The
// terminal state is written to both fields. A missing record gets created
// directly as OUTDATED so the article disappears for this tenant either
// way; marking an already-OUTDATED record is a no-op.
func (s *classificationService) MarkOutdated(articleID, orgID uint) error {
	cls, err := s.clsRepo.GetByArticleAndOrg(articleID, orgID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.clsRepo.Create(&models.Classification{
			ArticleID:      articleID,
			OrganizationID: orgID,
			Classification: models.ValueOutdated,
			Status:         models.StatusOutdated,
		})
	}

	if cls.Outdated() {
		return nil
	}
	if !models.CanTransition(cls.Status, models.StatusOutdated) {
		return models.ErrorConflict{Message: "invalid classification state"}
	}

	cls.Classification = models.ValueOutdated
	cls.Status = models.StatusOutdated
	return s.clsRepo.Update(cls)
}

func factorScore(f llm.Factor) models.FactorScore {
	return models.FactorScore{Score: f.Score, Explanation: f.Explanation}
}
