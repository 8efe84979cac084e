package wikipedia

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func htmlResponse(r *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Request:    r,
	}
}

func newTestScraper(rt roundTripperFunc) *Scraper {
	cfg := config.WikipediaConfig{UserAgent: "wiki-quiz-test", MinContentLength: 100}
	return NewScraper(cfg, &http.Client{Transport: rt})
}

const catPage = `<html><body>
<h1 id="firstHeading">Cat</h1>
<div id="mw-content-text">
  <table class="infobox"><tr><td><p>Infobox paragraph that must never be part of the text.</p></td></tr></table>
  <p>The cat is a small domesticated carnivorous mammal.<sup>[1]</sup> It is the only domesticated species of the family Felidae.</p>
  <p>Short.</p>
  <aside><p>An aside paragraph that should be removed from the output.</p></aside>
  <p>Cats are valued by humans for companionship and their ability to kill vermin and pests.</p>
  <script>var x = "<p>script paragraph that is long enough to count</p>";</script>
</div>
</body></html>`

func domainCode(t *testing.T, err error) domain.ErrorCode {
	t.Helper()
	var dErr *domain.DomainError
	require.True(t, errors.As(err, &dErr), "expected *domain.DomainError, got %T (%v)", err, err)
	return dErr.Code
}

func TestFetchArticle_ExtractsParagraphs(t *testing.T) {
	var seen *http.Request
	s := newTestScraper(func(r *http.Request) (*http.Response, error) {
		seen = r
		return htmlResponse(r, http.StatusOK, catPage), nil
	})

	article, err := s.FetchArticle(context.Background(), "https://en.wikipedia.org/wiki/Cat")
	require.NoError(t, err)

	assert.Equal(t, "wiki-quiz-test", seen.Header.Get("User-Agent"))
	assert.Equal(t, "Cat", article.Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Cat", article.URL)

	paragraphs := strings.Split(article.Text, "\n\n")
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "The cat is a small domesticated carnivorous mammal. It is the only domesticated species of the family Felidae.", paragraphs[0])
	assert.NotContains(t, article.Text, "[1]")
	assert.NotContains(t, article.Text, "Infobox")
	assert.NotContains(t, article.Text, "aside")
	assert.NotContains(t, article.Text, "Short.")
	assert.NotContains(t, article.Text, "script")
}

func TestFetchArticle_NormalizesArticleName(t *testing.T) {
	var requested string
	s := newTestScraper(func(r *http.Request) (*http.Response, error) {
		requested = r.URL.String()
		return htmlResponse(r, http.StatusOK, catPage), nil
	})

	_, err := s.FetchArticle(context.Background(), "https://en.wikipedia.org/wiki/_Alan  Turing__")
	require.NoError(t, err)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Alan_Turing", requested)
}

func TestFetchArticle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		status   int
		body     string
		rtErr    error
		wantCode domain.ErrorCode
		wantText string
	}{
		{name: "invalid url never hits the network", url: "https://example.com/wiki/Cat", wantCode: domain.ErrInvalidInput, wantText: "valid Wikipedia URL"},
		{name: "not found", url: "https://en.wikipedia.org/wiki/Kohili", status: http.StatusNotFound, wantCode: domain.ErrArticleNotFound, wantText: "'Kohili'"},
		{name: "server error", url: "https://en.wikipedia.org/wiki/Cat", status: http.StatusServiceUnavailable, wantCode: domain.ErrUpstream, wantText: "Wikipedia returned error 503: Service Unavailable"},
		{name: "transport failure", url: "https://en.wikipedia.org/wiki/Cat", rtErr: errors.New("no route to host"), wantCode: domain.ErrUpstream, wantText: "Failed to connect to Wikipedia"},
		{name: "no paragraphs", url: "https://en.wikipedia.org/wiki/Cat", status: http.StatusOK, body: `<h1 id="firstHeading">Cat</h1><div id="mw-content-text"><p>tiny</p></div>`, wantCode: domain.ErrContentTooShort, wantText: "Could not extract content"},
		{name: "too short", url: "https://en.wikipedia.org/wiki/Cat", status: http.StatusOK, body: `<div id="mw-content-text"><p>Just one modest paragraph of text.</p></div>`, wantCode: domain.ErrContentTooShort, wantText: "too short"},
		{name: "short paragraph counted in characters", url: "https://en.wikipedia.org/wiki/Tokyo", status: http.StatusOK, body: `<div id="mw-content-text"><p>東京は日本の首都です。</p></div>`, wantCode: domain.ErrContentTooShort, wantText: "Could not extract content"},
		{name: "minimum length counted in characters", url: "https://en.wikipedia.org/wiki/Cat", status: http.StatusOK, body: `<div id="mw-content-text"><p>` + strings.Repeat("猫", 40) + `</p></div>`, wantCode: domain.ErrContentTooShort, wantText: "too short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			s := newTestScraper(func(r *http.Request) (*http.Response, error) {
				called = true
				if tt.rtErr != nil {
					return nil, tt.rtErr
				}
				return htmlResponse(r, tt.status, tt.body), nil
			})

			_, err := s.FetchArticle(context.Background(), tt.url)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, domainCode(t, err))
			assert.Contains(t, err.Error(), tt.wantText)
			if tt.wantCode == domain.ErrInvalidInput {
				assert.False(t, called)
			}
		})
	}
}

func TestFetchArticle_FallsBackToBody(t *testing.T) {
	body := `<html><body><p>` + strings.Repeat("Body level paragraph text without a content wrapper. ", 3) + `</p></body></html>`
	s := newTestScraper(func(r *http.Request) (*http.Response, error) {
		return htmlResponse(r, http.StatusOK, body), nil
	})

	article, err := s.FetchArticle(context.Background(), "https://en.wikipedia.org/wiki/Cat")
	require.NoError(t, err)
	assert.Empty(t, article.Title)
	assert.Contains(t, article.Text, "Body level paragraph")
}

func TestNormalizeArticleURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://en.wikipedia.org/wiki/Cat", "https://en.wikipedia.org/wiki/Cat"},
		{"https://en.wikipedia.org/wiki/Virat Kohli", "https://en.wikipedia.org/wiki/Virat_Kohli"},
		{"https://en.wikipedia.org/wiki/A__B___C", "https://en.wikipedia.org/wiki/A_B_C"},
		{"https://en.wikipedia.org/wiki/AC/DC", "https://en.wikipedia.org/wiki/AC/DC"},
		{"https://en.wikipedia.org/other/x", "https://en.wikipedia.org/other/x"},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, NormalizeArticleURL(u).String(), tt.in)
	}
}
