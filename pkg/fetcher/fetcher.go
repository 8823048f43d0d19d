package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dtnitsch/changelog-mcp/models"
)

// maxBodyBytes caps a single page download.
const maxBodyBytes = 16 << 20

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s, status code: %d", e.URL, e.StatusCode)
}

type Fetcher struct {
	client    *http.Client
	baseURL   *url.URL
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a fetcher for the changelog rooted at baseURL. The base
// URL always ends with a slash so period paths join onto it.
func NewFetcher(baseURL string, opts ...Option) (*Fetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	f := &Fetcher{
		client:    &http.Client{},
		baseURL:   u,
		userAgent: models.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Origin is the scheme and host the changelog is served from. Relative
// links found in a page are resolved against it.
func (f *Fetcher) Origin() string {
	return f.baseURL.Scheme + "://" + f.baseURL.Host
}

// PeriodURL returns the page address for a period: the base URL itself for
// the current period, or "<base><year>/" otherwise.
func (f *Fetcher) PeriodURL(period models.Period) string {
	if period.IsCurrent() {
		return f.baseURL.String()
	}
	return f.baseURL.ResolveReference(&url.URL{Path: period.String() + "/"}).String()
}

// FetchDocument downloads the raw HTML for one reporting period.
func (f *Fetcher) FetchDocument(ctx context.Context, period models.Period) (string, error) {
	body, err := f.GetHtmlBytes(ctx, f.PeriodURL(period))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchURL downloads an arbitrary page as text.
func (f *Fetcher) FetchURL(ctx context.Context, rawURL string) (string, error) {
	body, err := f.GetHtmlBytes(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (f *Fetcher) GetHtmlBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}
