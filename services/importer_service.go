package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"threatlens/metrics"
	"threatlens/models"
	"threatlens/repositories"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// ImporterService brings new articles into the caller's pipeline, either
// from a manual upload (plain text or PDF) or by fetching a URL.
type ImporterService interface {
	Upload(orgID uint, username string, req models.UploadArticleRequest) (*models.Article, error)
	Import(ctx context.Context, orgID uint, req models.ImportArticleRequest) (*models.Article, error)
}

type importerService struct {
	articleRepo repositories.ArticleRepository
	clsService  ClassificationService
	httpClient  *http.Client
	log         *zap.Logger
}

func NewImporterService(
	articleRepo repositories.ArticleRepository,
	clsService ClassificationService,
	log *zap.Logger,
) ImporterService {
	return &importerService{
		articleRepo: articleRepo,
		clsService:  clsService,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		log:         log,
	}
}

func (s *importerService) Upload(orgID uint, username string, req models.UploadArticleRequest) (*models.Article, error) {
	text := strings.TrimSpace(req.Text)
	if req.PDFBase64 != "" {
		extracted, err := extractPDFText(req.PDFBase64)
		if err != nil {
			return nil, models.ErrorValidation{Message: "could not extract text from pdf: " + err.Error()}
		}
		text = extracted
	}
	if text == "" {
		return nil, models.ErrorValidation{Message: "either text or pdf_base64 is required"}
	}

	article := &models.Article{
		Title:         req.Title,
		Link:          req.Link,
		Summary:       text,
		Source:        models.UploadedSource(username),
		DatePublished: parseDateOrNow(req.DatePublished),
		DateAdded:     time.Now(),
	}
	return s.store(article, orgID)
}

func (s *importerService) Import(ctx context.Context, orgID uint, req models.ImportArticleRequest) (*models.Article, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, models.ErrorValidation{Message: "invalid url"}
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, models.ErrorValidation{Message: fmt.Sprintf("fetch failed with status %d", resp.StatusCode)}
	}

	title, text, err := extractHTML(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", req.URL, err)
	}
	if title == "" {
		title = req.URL
	}

	article := &models.Article{
		Title:         title,
		Link:          req.URL,
		Summary:       text,
		Source:        models.SourceImported,
		DatePublished: parseDateOrNow(req.DatePublished),
		DateAdded:     time.Now(),
	}
	return s.store(article, orgID)
}

// store persists the article and opens the uploader organization's PENDING
// classification record.
func (s *importerService) store(article *models.Article, orgID uint) (*models.Article, error) {
	if err := s.articleRepo.Create(article); err != nil {
		return nil, err
	}
	if _, err := s.clsService.Ingest(article.ID, orgID); err != nil {
		return nil, err
	}
	metrics.ArticlesIngested.Inc()
	s.log.Info("article ingested",
		zap.Uint("article_id", article.ID),
		zap.String("source", article.Source))
	return article, nil
}

func extractPDFText(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return text, nil
}

func extractHTML(body io.Reader) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && og != "" {
		title = strings.TrimSpace(og)
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	return title, strings.Join(paragraphs, "\n\n"), nil
}

func parseDateOrNow(value string) time.Time {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	return time.Now()
}
