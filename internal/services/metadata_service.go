package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/linkhive/backend/internal/errs"
	"github.com/linkhive/backend/internal/models"
)

// MetadataService scrapes Open Graph metadata from external pages to build
// link previews.
type MetadataService struct {
	client *http.Client
}

// NewMetadataService creates a new MetadataService
func NewMetadataService() *MetadataService {
	return &MetadataService{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch downloads the page at url and extracts preview metadata. Open Graph
// tags win; <title> and the description meta tag are fallbacks.
func (s *MetadataService) Fetch(ctx context.Context, url string) (*models.LinkMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build preview request: %w", errs.ErrInvalidInput)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, errs.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d: %w", url, resp.StatusCode, errs.ErrUnavailable)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, errs.ErrUnavailable)
	}

	meta := &models.LinkMetadata{
		Title:       firstOf(metaProperty(doc, "og:title"), strings.TrimSpace(doc.Find("title").First().Text())),
		Description: firstOf(metaProperty(doc, "og:description"), metaName(doc, "description")),
		ImageURL:    metaProperty(doc, "og:image"),
		SiteName:    metaProperty(doc, "og:site_name"),
	}
	return meta, nil
}

func metaProperty(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
	return strings.TrimSpace(content)
}

func metaName(doc *goquery.Document, name string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).First().Attr("content")
	return strings.TrimSpace(content)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
