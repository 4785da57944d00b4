package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"threatlens/llm"
	"threatlens/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a named in-memory database so each suite is isolated but
// shared across the suite's connections.
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Article{},
		&models.Classification{},
		&models.Rating{},
		&models.Summary{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func truncateAll(db *gorm.DB) {
	for _, table := range []string{"ratings", "summaries", "classifications", "articles", "users", "organizations"} {
		db.Exec("DELETE FROM " + table)
	}
}

type stubClassifier struct {
	verdict *llm.Verdict
	summary string
	err     error
	calls   int
}

func (s *stubClassifier) Classify(ctx context.Context, title, body, orgContext string) (*llm.Verdict, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.verdict, nil
}

func (s *stubClassifier) Summarize(ctx context.Context, orgContext string, headlines []string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

func (s *stubClassifier) Model() string { return "stub-model" }

func threatVerdict() *llm.Verdict {
	return &llm.Verdict{
		Classification: "Threat",
		Explanation:    "a direct competitor launch",
		Reasoning:      "overlapping market segment",
		Advice:         "monitor pricing",
		Criticality:    80,
		Impact:         llm.Factor{Score: 85, Explanation: "core revenue line"},
		Likelihood:     llm.Factor{Score: 70, Explanation: "announced publicly"},
		Urgency:        llm.Factor{Score: 75, Explanation: "launch next quarter"},
		Scope:          llm.Factor{Score: 60, Explanation: "single region"},
		Novelty:        llm.Factor{Score: 50, Explanation: "known player"},
		Actionability:  llm.Factor{Score: 65, Explanation: "pricing response possible"},
		Raw:            []byte(`{"classification":"Threat"}`),
	}
}

func makeOrg(db *gorm.DB, name string, createdAt time.Time) *models.Organization {
	org := &models.Organization{Name: name, IsActive: true, CreatedAt: createdAt}
	db.Create(org)
	return org
}

func makeArticle(db *gorm.DB, title, source string, published time.Time) *models.Article {
	article := &models.Article{
		Title:         title,
		Source:        source,
		Summary:       "body of " + title,
		DatePublished: published,
		DateAdded:     time.Now(),
	}
	db.Create(article)
	return article
}
