package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/changelog-mcp/internal/mcp"
	"github.com/dtnitsch/changelog-mcp/models"
	"github.com/dtnitsch/changelog-mcp/pkg/help"
)

const changelogPage = `<html><body>
<h3>Oct.09 Improvement</h3>
<div><a href="/changelog/copilot-review/">Copilot code review for Go</a><a href="/changelog/label/copilot/">COPILOT</a></div>
<h3>Oct.02 Release</h3>
<div><a href="/changelog/arm-runners/">Arm runners for Actions</a><a href="/changelog/label/actions/">ACTIONS</a></div>
</body></html>`

// newChangelogServer serves the current year's page; every other period 404s.
func newChangelogServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	current := fmt.Sprintf("/changelog/%d/", time.Now().Year())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != current {
			http.NotFound(w, r)
			return
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(changelogPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp("test")
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"changelog-mcp"}, args...))
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestNewLogger(t *testing.T) {
	tests := map[string]struct {
		level   string
		quiet   bool
		want    slog.Level
		wantErr bool
	}{
		"default": {level: "", want: slog.LevelInfo},
		"debug":   {level: "DEBUG", want: slog.LevelDebug},
		"warning": {level: "warning", want: slog.LevelWarn},
		"error":   {level: "error", want: slog.LevelError},
		"quiet":   {level: "debug", quiet: true, want: slog.LevelError},
		"invalid": {level: "loud", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(&buf, tt.level, tt.quiet)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Handler().Enabled(context.Background(), tt.want))
			if tt.want > slog.LevelDebug {
				assert.False(t, logger.Handler().Enabled(context.Background(), tt.want-1))
			}
		})
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://file.example/changelog/
cache_ttl: 5m
request_timeout: 7s
log_level: warn
`), 0o644))

	t.Setenv("CHANGELOG_TIMEOUT", "9s")

	var got models.Config
	app := NewApp("test")
	app.Writer = &bytes.Buffer{}
	app.Commands = append(app.Commands, &cli.Command{
		Name: "probe",
		Action: func(c *cli.Context) error {
			var err error
			got, err = loadConfig(c)
			return err
		},
	})

	err := app.Run([]string{"changelog-mcp", "--config", path, "--cache-ttl", "2m", "probe"})
	require.NoError(t, err)

	assert.Equal(t, "https://file.example/changelog/", got.BaseURL)
	assert.Equal(t, 2*time.Minute, got.CacheTTL)
	assert.Equal(t, 9*time.Second, got.RequestTimeout)
	assert.Equal(t, models.DefaultSweepInterval, got.SweepInterval)
	assert.Equal(t, "warn", got.LogLevel)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	res := run(t, "", "--base-url", "not-absolute", "categories")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid configuration")
}

func TestEntriesCommandJSON(t *testing.T) {
	srv := newChangelogServer(t, http.StatusOK)

	res := run(t, "", "--base-url", srv.URL+"/changelog/", "--quiet",
		"entries", "--category", "actions", "--type", "release")
	require.NoError(t, res.err)

	var resp models.EntriesResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "Arm runners for Actions", resp.Entries[0].Title)
	assert.Equal(t, srv.URL+"/changelog/arm-runners/", resp.Entries[0].URL)
	assert.Equal(t, []string{"ACTIONS", "COPILOT"}, resp.Categories)
}

func TestRecentCommandTable(t *testing.T) {
	srv := newChangelogServer(t, http.StatusOK)

	res := run(t, "", "--base-url", srv.URL+"/changelog/", "--quiet", "recent", "--count", "1", "--format", "table")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Copilot code review for Go")
	assert.NotContains(t, res.stdout, "Arm runners")
	assert.Contains(t, res.stdout, "1 recent entries")
}

func TestSearchCommandYAML(t *testing.T) {
	srv := newChangelogServer(t, http.StatusOK)

	res := run(t, "", "--base-url", srv.URL+"/changelog/", "--quiet", "search", "--format", "yaml", "ARM")
	require.NoError(t, res.err)

	var resp models.SearchResponse
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ARM", resp.Query)
	assert.Equal(t, 1, resp.TotalMatches)
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	res := run(t, "", "search")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "usage")
}

func TestCommandReportsStructuredError(t *testing.T) {
	srv := newChangelogServer(t, http.StatusBadGateway)

	res := run(t, "", "--base-url", srv.URL+"/changelog/", "--quiet", "categories")
	require.Error(t, res.err)
	assert.Empty(t, res.stdout)

	var info models.ErrorInfo
	require.NoError(t, yaml.Unmarshal([]byte(res.stderr), &info))
	assert.Equal(t, mcp.ErrorTypeFetch, info.Type)
	assert.Contains(t, info.Message, "502")
}

func TestServeCommand(t *testing.T) {
	srv := newChangelogServer(t, http.StatusOK)

	stdin := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_changelog_categories","arguments":{}}}`,
	}, "\n") + "\n"

	res := run(t, stdin, "--base-url", srv.URL+"/changelog/", "--quiet", "serve")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 2)

	var msg mcp.MCPMessage
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &msg))
	result := msg.Result.(map[string]interface{})
	text := result["content"].([]interface{})[0].(map[string]interface{})["text"].(string)

	var resp models.CategoriesResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, []string{"ACTIONS", "COPILOT"}, resp.Categories)
}

func TestServeCommandStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	var stdout, stderr bytes.Buffer
	app := NewApp("test")
	app.Reader = pr
	app.Writer = &stdout
	app.ErrWriter = &stderr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx, []string{"changelog-mcp", "--quiet", "serve"}) }()

	// Give serve time to park in its read before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}

	// The input was closed, so nothing is left reading it.
	_, err := pw.Write([]byte("{}\n"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestMissingConfigFileIsAnError(t *testing.T) {
	res := run(t, "", "--config", filepath.Join(t.TempDir(), "absent.yaml"), "categories")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "failed to read config")
}

func TestQuickstart(t *testing.T) {
	res := run(t, "", "quickstart")
	require.NoError(t, res.err)
	assert.Equal(t, help.QuickstartYAML, res.stdout)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(help.QuickstartYAML), &doc))

	s := mcp.NewServer("test", nil, nil, slog.Default())
	for _, name := range append(s.ToolNames(), mcp.ToolGetDetails) {
		assert.Contains(t, help.QuickstartYAML, name)
	}
}

func TestRender(t *testing.T) {
	payload := models.CategoriesResponse{Categories: []string{"ACTIONS"}, Count: 1}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "json", payload))
	assert.JSONEq(t, `{"categories":["ACTIONS"],"count":1}`, buf.String())

	buf.Reset()
	require.NoError(t, render(&buf, "table", payload))
	assert.Contains(t, buf.String(), "Total: 1 categories")

	assert.Error(t, render(&buf, "xml", payload))
}
