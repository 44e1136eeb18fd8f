// Package feed serves blog articles read from an RSS or Atom feed.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/folio-dev/folio/internal/cache"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/observability"
	"github.com/mmcdole/gofeed"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrFeedNotConfigured is returned when no feed URL is set.
var ErrFeedNotConfigured = errors.New("feed URL not configured")

// DefaultCategory is stamped on every article.
const DefaultCategory = "web3"

// Config configures the feed source.
type Config struct {
	RSSURL     string        `mapstructure:"rss_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// DefaultConfig returns the feed settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		MaxRetries: 2,
		RetryDelay: 500 * time.Millisecond,
		CacheTTL:   10 * time.Minute,
	}
}

// Fetcher loads articles from the configured feed.
type Fetcher struct {
	config  Config
	client  *http.Client
	parser  *gofeed.Parser
	cache   cache.CacheClient
	logger  *zap.Logger
	metrics *observability.Metrics
	tracing *observability.Tracing
	now     func() time.Time
}

// NewFetcher creates a fetcher. cacheClient may be nil to disable caching.
func NewFetcher(config Config, cacheClient cache.CacheClient, logger *zap.Logger, metrics *observability.Metrics, tracing *observability.Tracing) *Fetcher {
	return &Fetcher{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		parser:  gofeed.NewParser(),
		cache:   cacheClient,
		logger:  logger,
		metrics: metrics,
		tracing: tracing,
		now:     time.Now,
	}
}

// Articles returns the feed's articles, filtered by category when one is
// given.
func (f *Fetcher) Articles(ctx context.Context, category string) ([]models.Article, error) {
	if f.config.RSSURL == "" {
		return nil, ErrFeedNotConfigured
	}

	ctx, span := f.tracing.StartSpan(ctx, "feed.articles",
		trace.WithAttributes(attribute.String("feed.category", category)))
	defer span.End()

	articles, err := f.load(ctx)
	if err != nil {
		f.tracing.RecordError(ctx, err)
		return nil, err
	}

	articles = FilterByCategory(articles, category)
	f.metrics.RecordArticlesServed(ctx, category, len(articles))
	return articles, nil
}

// load returns the unfiltered article list, from cache when possible.
func (f *Fetcher) load(ctx context.Context) ([]models.Article, error) {
	key := "feed:" + f.config.RSSURL

	if f.cache != nil {
		raw, ok, err := f.cache.Get(ctx, key)
		if err != nil {
			f.logger.Warn("Feed cache read failed", zap.Error(err))
		}
		if ok {
			var articles []models.Article
			if err := json.Unmarshal(raw, &articles); err == nil {
				f.metrics.RecordCacheHit("feed")
				return articles, nil
			}
		}
		f.metrics.RecordCacheMiss("feed")
	}

	articles, err := f.fetch(ctx)
	if err != nil {
		f.metrics.RecordFeedFetch("error")
		return nil, err
	}
	f.metrics.RecordFeedFetch("success")

	if f.cache != nil {
		raw, err := json.Marshal(articles)
		if err == nil {
			err = f.cache.Set(ctx, key, raw, f.config.CacheTTL)
		}
		if err != nil {
			f.logger.Warn("Feed cache write failed", zap.Error(err))
		}
	}

	return articles, nil
}

// fetch downloads and parses the feed, retrying transport errors and 5xx.
func (f *Fetcher) fetch(ctx context.Context) ([]models.Article, error) {
	var body []byte
	backoff := retry.WithMaxRetries(uint64(f.config.MaxRetries), retry.NewConstant(f.config.RetryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		body, err = f.get(ctx)
		if err != nil {
			var statusErr *statusError
			if !errors.As(err, &statusErr) || statusErr.code >= http.StatusInternalServerError {
				f.logger.Warn("Feed fetch failed, retrying", zap.Error(err))
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	parsed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	articles := make([]models.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		articles = append(articles, f.toArticle(item))
	}

	f.logger.Debug("Feed fetched",
		zap.String("url", f.config.RSSURL),
		zap.Int("articles", len(articles)))

	return articles, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("feed returned status %d", e.code)
}

func (f *Fetcher) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.config.RSSURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode}
	}

	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}

func (f *Fetcher) toArticle(item *gofeed.Item) models.Article {
	content := item.Content
	if content == "" {
		content = item.Description
	}

	description := Snippet(content)
	if description == "" {
		description = content
	}

	published := item.Published
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC().Format(models.TimestampLayout)
	}
	if published == "" {
		published = f.now().UTC().Format(models.TimestampLayout)
	}

	tags := item.Categories
	if tags == nil {
		tags = []string{}
	}

	return models.Article{
		Title:       item.Title,
		Description: description,
		URL:         item.Link,
		PublishedAt: published,
		Category:    DefaultCategory,
		Tags:        tags,
	}
}

// Snippet returns the plain text of an HTML fragment with whitespace
// collapsed.
func Snippet(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
