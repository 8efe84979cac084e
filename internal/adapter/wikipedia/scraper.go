package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/validation"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	minParagraphLength = 21
	msgNoContent       = "Could not extract content from the Wikipedia article. The page might be empty or have a different structure."
	msgTooShort        = "The Wikipedia article is too short to generate a quiz. Please try a more detailed article."
)

var underscoreRun = regexp.MustCompile(`_+`)

// Scraper fetches Wikipedia articles and extracts their readable paragraphs.
type Scraper struct {
	httpClient       *http.Client
	userAgent        string
	minContentLength int
}

// NewScraper builds a Scraper. A nil httpClient gets one with cfg.Timeout.
func NewScraper(cfg config.WikipediaConfig, httpClient *http.Client) *Scraper {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Scraper{
		httpClient:       httpClient,
		userAgent:        cfg.UserAgent,
		minContentLength: cfg.MinContentLength,
	}
}

// NormalizeArticleURL rewrites the article name the way Wikipedia spells it:
// spaces become underscores, runs of underscores collapse and edge underscores go.
func NormalizeArticleURL(u *url.URL) *url.URL {
	out := *u
	parts := strings.Split(out.Path, "/")
	if len(parts) < 3 || parts[1] != "wiki" {
		return &out
	}
	name := strings.Join(parts[2:], "/")
	name = strings.ReplaceAll(name, " ", "_")
	name = underscoreRun.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	out.Path = "/wiki/" + name
	out.RawPath = ""
	return &out
}

// ArticleName returns the part of the path after /wiki/.
func ArticleName(u *url.URL) string {
	if i := strings.Index(u.Path, "/wiki/"); i >= 0 {
		return u.Path[i+len("/wiki/"):]
	}
	return "unknown"
}

// FetchArticle implements domain.ArticleFetcher.
func (s *Scraper) FetchArticle(ctx context.Context, rawURL string) (*domain.Article, error) {
	parsed, err := validation.ValidateArticleURL(rawURL)
	if err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}
	target := NormalizeArticleURL(parsed)
	log := logger.Get().With(zap.String("url", target.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, domain.NewInternalError("Failed to build Wikipedia request", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Warn("Wikipedia request failed", zap.Error(err))
		return nil, domain.NewUpstreamError(fmt.Sprintf("Failed to connect to Wikipedia: %v", err), err)
	}
	defer resp.Body.Close()
	log.Debug("Wikipedia responded", zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewArticleNotFoundError(ArticleName(target))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamError(
			fmt.Sprintf("Wikipedia returned error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)), nil)
	}
	if resp.Request != nil && resp.Request.URL.String() != target.String() {
		log.Info("Wikipedia redirected article", zap.String("final_url", resp.Request.URL.String()))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamError("Failed to parse the Wikipedia page", err)
	}

	article, err := s.extract(doc)
	if err != nil {
		return nil, err
	}
	article.URL = target.String()
	log.Info("Wikipedia article scraped", zap.String("title", article.Title), zap.Int("chars", utf8.RuneCountInString(article.Text)))
	return article, nil
}

func (s *Scraper) extract(doc *goquery.Document) (*domain.Article, error) {
	title := strings.TrimSpace(doc.Find("h1#firstHeading").First().Text())

	content := doc.Find("#mw-content-text").First()
	if content.Length() == 0 {
		content = doc.Find("#content").First()
	}
	if content.Length() == 0 {
		content = doc.Selection
	}

	content.Find("table, sup, aside, style, script").Remove()

	var parts []string
	content.Find("p").Each(func(_ int, p *goquery.Selection) {
		txt := strings.TrimSpace(p.Text())
		if utf8.RuneCountInString(txt) >= minParagraphLength {
			parts = append(parts, txt)
		}
	})
	if len(parts) == 0 {
		return nil, domain.NewContentTooShortError(msgNoContent)
	}

	text := strings.Join(parts, "\n\n")
	if utf8.RuneCountInString(text) < s.minContentLength {
		return nil, domain.NewContentTooShortError(msgTooShort)
	}
	return &domain.Article{Title: title, Text: text}, nil
}

var _ domain.ArticleFetcher = (*Scraper)(nil)
