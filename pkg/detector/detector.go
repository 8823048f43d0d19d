package detector

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/changelog-mcp/models"
)

const (
	// UnknownLanguage is reported when detection is not confident.
	UnknownLanguage = "unknown"

	defaultPreviewChars = 400
)

// ErrForeignHost is returned for entries whose URL leaves the changelog origin.
var ErrForeignHost = errors.New("entry URL is not on the changelog origin")

// Languages the detector chooses between. Changelog posts are almost always
// English; the others cover localized mirrors.
var detectableLanguages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Japanese,
	lingua.Chinese,
	lingua.Korean,
}

var (
	languageOnce     sync.Once
	languageDetector lingua.LanguageDetector
)

func detectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return UnknownLanguage
	}
	languageOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectableLanguages...).
			WithMinimumRelativeDistance(0.1).
			Build()
	})
	lang, ok := languageDetector.DetectLanguageOf(text)
	if !ok {
		return UnknownLanguage
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// PageFetcher downloads an arbitrary page on the changelog origin.
type PageFetcher interface {
	FetchURL(ctx context.Context, rawURL string) (string, error)
}

// Analyzer enriches entries with content from their own pages.
type Analyzer struct {
	pages        PageFetcher
	origin       *url.URL
	previewChars int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithPreviewChars caps the preview text length in runes.
func WithPreviewChars(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.previewChars = n
		}
	}
}

// NewAnalyzer returns an Analyzer that only fetches pages served from origin.
func NewAnalyzer(pages PageFetcher, origin string, opts ...Option) (*Analyzer, error) {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid origin %q", origin)
	}
	a := &Analyzer{pages: pages, origin: u, previewChars: defaultPreviewChars}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Describe fetches entry's page and analyzes it.
func (a *Analyzer) Describe(ctx context.Context, entry models.Entry) (models.DetailsResponse, error) {
	if !a.SameOrigin(entry.URL) {
		return models.DetailsResponse{}, fmt.Errorf("%w: %s", ErrForeignHost, entry.URL)
	}
	html, err := a.pages.FetchURL(ctx, entry.URL)
	if err != nil {
		return models.DetailsResponse{}, err
	}
	return a.Analyze(entry, html)
}

// SameOrigin reports whether rawURL is an http(s) URL on the analyzer's host.
func (a *Analyzer) SameOrigin(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.EqualFold(u.Host, a.origin.Host)
}

// Analyze extracts the readable article from html and summarizes it.
func (a *Analyzer) Analyze(entry models.Entry, html string) (models.DetailsResponse, error) {
	pageURL, err := url.Parse(entry.URL)
	if err != nil {
		return models.DetailsResponse{}, fmt.Errorf("invalid entry URL: %w", err)
	}

	rp := readability.NewParser()
	article, err := rp.Parse(strings.NewReader(html), pageURL)
	if err != nil {
		return models.DetailsResponse{}, fmt.Errorf("failed to extract article: %w", err)
	}

	text := ""
	if article.Content != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if err != nil {
			return models.DetailsResponse{}, fmt.Errorf("failed to parse article content: %w", err)
		}
		text = strings.Join(strings.Fields(doc.Text()), " ")
	}

	details := models.DetailsResponse{
		Entry:       entry,
		Description: strings.TrimSpace(article.Excerpt),
		Byline:      strings.TrimSpace(article.Byline),
		SiteName:    strings.TrimSpace(article.SiteName),
		WordCount:   len(strings.Fields(text)),
		Language:    detectLanguage(text),
		Preview:     truncate(text, a.previewChars),
	}
	if article.PublishedTime != nil {
		details.PublishedTime = article.PublishedTime.UTC().Format(time.RFC3339)
	}
	return details, nil
}

// truncate shortens s to at most n runes, cutting at the last space when
// one is available and marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
