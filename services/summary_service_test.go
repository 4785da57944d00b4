package services

import (
	"context"
	"testing"
	"time"

	"threatlens/models"
	"threatlens/repositories"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SummaryServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	service    SummaryService
	clsService ClassificationService
	org        *models.Organization
}

func (s *SummaryServiceTestSuite) SetupSuite() {
	s.db = newTestDB(s.T(), "summary_service")
}

func (s *SummaryServiceTestSuite) SetupTest() {
	truncateAll(s.db)

	clsRepo := repositories.NewClassificationRepository(s.db)
	articleRepo := repositories.NewArticleRepository(s.db)
	orgRepo := repositories.NewOrganizationRepository(s.db)
	classifier := &stubClassifier{verdict: threatVerdict(), summary: "quiet day overall"}
	s.clsService = NewClassificationService(clsRepo, articleRepo, orgRepo, classifier, zap.NewNop())
	s.service = NewSummaryService(
		repositories.NewSummaryRepository(s.db),
		articleRepo, clsRepo, orgRepo, classifier, zap.NewNop(),
	)
	s.org = makeOrg(s.db, "acme", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (s *SummaryServiceTestSuite) classifyOn(day time.Time) {
	article := makeArticle(s.db, "news on "+day.Format("2006-01-02"), models.SourceImported, day)
	_, err := s.clsService.Classify(context.Background(), s.org.ID, article.ID)
	s.NoError(err)
}

func (s *SummaryServiceTestSuite) TestGenerateAssignsIncrementingVersions() {
	day := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	s.classifyOn(day)

	first, err := s.service.Generate(context.Background(), s.org.ID, "2024-02-01")
	s.NoError(err)
	s.Equal(1, first.Version)
	s.Equal("quiet day overall", first.Content)
	s.Equal("stub-model", first.ModelUsed)

	second, err := s.service.Generate(context.Background(), s.org.ID, "2024-02-01")
	s.NoError(err)
	s.Equal(2, second.Version)

	// Both versions are retained; latest is the higher one.
	summaries, err := s.service.List(s.org.ID, "2024-02-01")
	s.NoError(err)
	s.Len(summaries, 2)

	latest, err := s.service.Latest(s.org.ID, "2024-02-01")
	s.NoError(err)
	s.Equal(2, latest.Version)
}

func (s *SummaryServiceTestSuite) TestGenerateWithoutClassifiedArticlesFails() {
	_, err := s.service.Generate(context.Background(), s.org.ID, "2024-02-01")
	s.IsType(models.ErrorNotFound{}, err)
}

func (s *SummaryServiceTestSuite) TestBadDateIsValidationError() {
	_, err := s.service.Generate(context.Background(), s.org.ID, "02/01/2024")
	s.IsType(models.ErrorValidation{}, err)
}

func (s *SummaryServiceTestSuite) TestDeleteIsTenantScoped() {
	day := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	s.classifyOn(day)
	summary, err := s.service.Generate(context.Background(), s.org.ID, "2024-02-01")
	s.NoError(err)

	other := makeOrg(s.db, "globex", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s.IsType(models.ErrorNotFound{}, s.service.Delete(other.ID, summary.ID))
	s.NoError(s.service.Delete(s.org.ID, summary.ID))
}

func TestSummaryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SummaryServiceTestSuite))
}
