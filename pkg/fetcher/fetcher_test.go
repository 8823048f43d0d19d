package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFetcher(t *testing.T) {
	f, err := NewFetcher("https://github.blog/changelog")
	require.NoError(t, err)
	assert.Equal(t, "https://github.blog", f.Origin())
	assert.Equal(t, "https://github.blog/changelog/", f.PeriodURL(models.CurrentPeriod))
	assert.Equal(t, "https://github.blog/changelog/2025/", f.PeriodURL(models.YearPeriod(2025)))

	_, err = NewFetcher("/changelog/")
	assert.Error(t, err)
}

func TestFetchDocument(t *testing.T) {
	var gotPath, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/changelog/2025/":
			_, _ = w.Write([]byte("<html>2025</html>"))
		case "/changelog/":
			_, _ = w.Write([]byte("<html>current</html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	f, err := NewFetcher(server.URL+"/changelog/", WithUserAgent("test-agent"))
	require.NoError(t, err)

	tests := map[string]struct {
		period     models.Period
		wantBody   string
		wantPath   string
		wantStatus int
	}{
		"year period":    {period: models.YearPeriod(2025), wantBody: "<html>2025</html>", wantPath: "/changelog/2025/"},
		"current period": {period: models.CurrentPeriod, wantBody: "<html>current</html>", wantPath: "/changelog/"},
		"missing year":   {period: models.YearPeriod(1999), wantPath: "/changelog/1999/", wantStatus: http.StatusNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			body, err := f.FetchDocument(context.Background(), tt.period)
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, "test-agent", gotUA)
			if tt.wantStatus != 0 {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestFetchHonoursContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f, err := NewFetcher(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = f.FetchURL(ctx, server.URL+"/slow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
