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

type ArticleServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	service    ArticleService
	clsService ClassificationService
	org        *models.Organization
	otherOrg   *models.Organization
}

func (s *ArticleServiceTestSuite) SetupSuite() {
	s.db = newTestDB(s.T(), "article_service")
}

func (s *ArticleServiceTestSuite) SetupTest() {
	truncateAll(s.db)

	clsRepo := repositories.NewClassificationRepository(s.db)
	articleRepo := repositories.NewArticleRepository(s.db)
	orgRepo := repositories.NewOrganizationRepository(s.db)
	s.clsService = NewClassificationService(clsRepo, articleRepo, orgRepo, &stubClassifier{verdict: threatVerdict()}, zap.NewNop())
	s.service = NewArticleService(articleRepo, clsRepo, orgRepo, s.clsService, zap.NewNop())

	s.org = makeOrg(s.db, "acme", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s.otherOrg = makeOrg(s.db, "globex", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
}

func (s *ArticleServiceTestSuite) TestHorizonHidesOlderArticles() {
	makeArticle(s.db, "before horizon", models.SourceImported, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	makeArticle(s.db, "after horizon", models.SourceImported, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	views, total, err := s.service.List(s.org.ID, models.ArticleListParams{Page: 1, Limit: 20})
	s.NoError(err)
	s.EqualValues(1, total)
	s.Len(views, 1)
	s.Equal("after horizon", views[0].Title)

	// The earlier-created organization sees both.
	views, total, err = s.service.List(s.otherOrg.ID, models.ArticleListParams{Page: 1, Limit: 20})
	s.NoError(err)
	s.EqualValues(2, total)
	s.Len(views, 2)
}

func (s *ArticleServiceTestSuite) TestOutdatedClassificationHidesArticle() {
	article := makeArticle(s.db, "superseded", models.SourceImported, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(s.clsService.MarkOutdated(article.ID, s.org.ID))

	views, total, err := s.service.List(s.org.ID, models.ArticleListParams{Page: 1, Limit: 20})
	s.NoError(err)
	s.EqualValues(0, total)
	s.Empty(views)

	_, err = s.service.Get(s.org.ID, article.ID)
	s.IsType(models.ErrorNotFound{}, err)

	// The other organization still sees the shared article.
	_, err = s.service.Get(s.otherOrg.ID, article.ID)
	s.NoError(err)
}

func (s *ArticleServiceTestSuite) TestListFailsClosedForUnknownOrg() {
	makeArticle(s.db, "anything", models.SourceImported, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	views, total, err := s.service.List(9999, models.ArticleListParams{Page: 1, Limit: 20})
	s.NoError(err)
	s.EqualValues(0, total)
	s.Empty(views)
}

func (s *ArticleServiceTestSuite) TestDeleteOwnedArticleCascades() {
	article := makeArticle(s.db, "mine", models.UploadedSource("alice"), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	_, err := s.clsService.Ingest(article.ID, s.org.ID)
	s.NoError(err)
	_, err = s.clsService.Ingest(article.ID, s.otherOrg.ID)
	s.NoError(err)

	s.NoError(s.service.Delete(s.org.ID, "alice", article.ID))

	var articleCount, clsCount int64
	s.db.Model(&models.Article{}).Count(&articleCount)
	s.db.Model(&models.Classification{}).Count(&clsCount)
	s.EqualValues(0, articleCount)
	s.EqualValues(0, clsCount)
}

func (s *ArticleServiceTestSuite) TestDeleteSharedArticleOnlyOutdatesOwnTenant() {
	article := makeArticle(s.db, "shared", models.SourceImported, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	_, err := s.clsService.Ingest(article.ID, s.org.ID)
	s.NoError(err)
	_, err = s.clsService.Ingest(article.ID, s.otherOrg.ID)
	s.NoError(err)

	s.NoError(s.service.Delete(s.org.ID, "alice", article.ID))

	var articleCount int64
	s.db.Model(&models.Article{}).Count(&articleCount)
	s.EqualValues(1, articleCount)

	clsRepo := repositories.NewClassificationRepository(s.db)
	mine, err := clsRepo.GetByArticleAndOrg(article.ID, s.org.ID)
	s.NoError(err)
	s.True(mine.Outdated())

	theirs, err := clsRepo.GetByArticleAndOrg(article.ID, s.otherOrg.ID)
	s.NoError(err)
	s.False(theirs.Outdated())
}

func (s *ArticleServiceTestSuite) TestTypeFilterRequiresClassifiedStatus() {
	pending := makeArticle(s.db, "pending one", models.SourceImported, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	_, err := s.clsService.Ingest(pending.ID, s.org.ID)
	s.NoError(err)

	classified := makeArticle(s.db, "classified one", models.SourceImported, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))
	_, err = s.clsService.Classify(context.Background(), s.org.ID, classified.ID)
	s.NoError(err)

	views, total, err := s.service.List(s.org.ID, models.ArticleListParams{Type: "Threat", Page: 1, Limit: 20})
	s.NoError(err)
	s.EqualValues(1, total)
	s.Len(views, 1)
	s.Equal("classified one", views[0].Title)
	s.NotNil(views[0].Classification)
	s.Equal(models.ValueThreat, views[0].Classification.Classification)
}

func (s *ArticleServiceTestSuite) TestToggleStarIsGlobal() {
	article := makeArticle(s.db, "starrable", models.SourceImported, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	updated, err := s.service.ToggleStar(s.org.ID, article.ID)
	s.NoError(err)
	s.True(updated.Starred)

	// The flag sits on the shared row, so the other tenant sees it too.
	view, err := s.service.Get(s.otherOrg.ID, article.ID)
	s.NoError(err)
	s.True(view.Starred)
}

func TestArticleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArticleServiceTestSuite))
}
