package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerCreatesLogDirectories(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(LoggerConfig{
		Level:      "info",
		Format:     "json",
		OutputPath: filepath.Join(dir, "nested", "app.log"),
		ErrorPath:  filepath.Join(dir, "nested", "error.log"),
	})
	require.NoError(t, err)

	logger.Info("hello")
	logger.Error("boom")
	SyncLogger(logger)

	app, err := os.ReadFile(filepath.Join(dir, "nested", "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), "hello")
	assert.Contains(t, string(app), "boom")

	errs, err := os.ReadFile(filepath.Join(dir, "nested", "error.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(errs), "hello")
	assert.Contains(t, string(errs), "boom")
}

func TestNewLoggerRequiresPathsOutsideDevelopment(t *testing.T) {
	_, err := NewLogger(LoggerConfig{Level: "info"})
	assert.Error(t, err)

	logger, err := NewLogger(LoggerConfig{Level: "not-a-level", Development: true})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestMetricsHandlerExposesSeries(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{}, zap.NewNop())
	require.NoError(t, err)

	m.RecordRequest("GET", "/api/medium", 200, 10*time.Millisecond)
	m.RecordCandidateAttempt("gpt2", "retryable", time.Millisecond)
	m.RecordArticlesServed(context.Background(), "web3", 4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `folio_requests_total{endpoint="/api/medium",method="GET",status_code="200"} 1`)
	assert.Contains(t, string(body), `folio_candidate_attempts_total{model="gpt2",outcome="retryable"} 1`)
	assert.Contains(t, string(body), "folio_feed_articles_served")
}

func TestStartMetricsServerDisabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, m.StartMetricsServer(context.Background()))
}
