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

type ClassificationServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	classifier *stubClassifier
	service    ClassificationService
	org        *models.Organization
}

func (s *ClassificationServiceTestSuite) SetupSuite() {
	s.db = newTestDB(s.T(), "classification_service")
}

func (s *ClassificationServiceTestSuite) SetupTest() {
	truncateAll(s.db)
	s.classifier = &stubClassifier{verdict: threatVerdict()}
	s.service = NewClassificationService(
		repositories.NewClassificationRepository(s.db),
		repositories.NewArticleRepository(s.db),
		repositories.NewOrganizationRepository(s.db),
		s.classifier,
		zap.NewNop(),
	)
	s.org = makeOrg(s.db, "acme", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (s *ClassificationServiceTestSuite) TestIngestCreatesPendingOnce() {
	article := makeArticle(s.db, "first", models.SourceImported, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	cls, err := s.service.Ingest(article.ID, s.org.ID)
	s.NoError(err)
	s.Equal(models.StatusPending, cls.Status)

	again, err := s.service.Ingest(article.ID, s.org.ID)
	s.NoError(err)
	s.Equal(cls.ID, again.ID)

	var count int64
	s.db.Model(&models.Classification{}).Count(&count)
	s.EqualValues(1, count)
}

func (s *ClassificationServiceTestSuite) TestClassifyMovesPendingToClassified() {
	article := makeArticle(s.db, "competitor launch", models.SourceImported, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	_, err := s.service.Ingest(article.ID, s.org.ID)
	s.NoError(err)

	cls, err := s.service.Classify(context.Background(), s.org.ID, article.ID)
	s.NoError(err)
	s.Equal(models.StatusClassified, cls.Status)
	s.Equal(models.ValueThreat, cls.Classification)
	s.Equal(80, cls.Criticality)
	s.Equal(85, cls.Impact.Score)
	s.NotNil(cls.ClassificationDate)
	s.NotEmpty(cls.RawVerdict)
}

func (s *ClassificationServiceTestSuite) TestClassifyTwiceConflicts() {
	article := makeArticle(s.db, "twice", models.SourceImported, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	_, err := s.service.Classify(context.Background(), s.org.ID, article.ID)
	s.NoError(err)

	_, err = s.service.Classify(context.Background(), s.org.ID, article.ID)
	s.IsType(models.ErrorConflict{}, err)
	s.Equal(1, s.classifier.calls)
}

func (s *ClassificationServiceTestSuite) TestClassifyBeforeHorizonIsNotFound() {
	article := makeArticle(s.db, "too old", models.SourceImported, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))

	_, err := s.service.Classify(context.Background(), s.org.ID, article.ID)
	s.IsType(models.ErrorNotFound{}, err)
	s.Zero(s.classifier.calls)
}

func (s *ClassificationServiceTestSuite) TestMarkOutdatedIsTerminal() {
	article := makeArticle(s.db, "shared", models.SourceImported, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	cls, err := s.service.Classify(context.Background(), s.org.ID, article.ID)
	s.NoError(err)
	s.Equal(models.StatusClassified, cls.Status)

	s.NoError(s.service.MarkOutdated(article.ID, s.org.ID))

	// Marking again is a no-op, and re-ingesting does not resurrect.
	s.NoError(s.service.MarkOutdated(article.ID, s.org.ID))
	again, err := s.service.Ingest(article.ID, s.org.ID)
	s.NoError(err)
	s.Equal(models.StatusOutdated, again.Status)
	s.Equal(models.ValueOutdated, again.Classification)
}

func (s *ClassificationServiceTestSuite) TestMarkOutdatedWithoutRecordHidesArticle() {
	article := makeArticle(s.db, "never processed", models.SourceImported, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	s.NoError(s.service.MarkOutdated(article.ID, s.org.ID))

	cls, err := repositories.NewClassificationRepository(s.db).GetByArticleAndOrg(article.ID, s.org.ID)
	s.NoError(err)
	s.True(cls.Outdated())
}

func (s *ClassificationServiceTestSuite) TestTransitionTable() {
	s.True(models.CanTransition(models.StatusPending, models.StatusClassified))
	s.True(models.CanTransition(models.StatusPending, models.StatusOutdated))
	s.True(models.CanTransition(models.StatusClassified, models.StatusOutdated))
	s.False(models.CanTransition(models.StatusClassified, models.StatusPending))
	s.False(models.CanTransition(models.StatusOutdated, models.StatusPending))
	s.False(models.CanTransition(models.StatusOutdated, models.StatusClassified))
}

func TestClassificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClassificationServiceTestSuite))
}
