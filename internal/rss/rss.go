package rss

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/worklab/newsdigest/internal/config"
	"github.com/worklab/newsdigest/internal/htmltext"
	"github.com/worklab/newsdigest/internal/logger"
	"github.com/worklab/newsdigest/internal/metrics"
	"github.com/worklab/newsdigest/internal/news"
)

const userAgent = "newsdigest/1.0 (+https://github.com/worklab/newsdigest)"

// Fetcher downloads and parses search feeds.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	concurrency int
	metrics     *metrics.Metrics
}

// NewFetcher returns a Fetcher. A nil client uses http.DefaultClient.
func NewFetcher(client *http.Client, timeout time.Duration, concurrency int, m *metrics.Metrics) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if m == nil {
		m = metrics.Global
	}
	return &Fetcher{client: client, timeout: timeout, concurrency: concurrency, metrics: m}
}

// Fetch downloads one feed and returns its entries in document order.
func (f *Fetcher) Fetch(ctx context.Context, feed config.Feed) ([]news.RawEntry, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = userAgent

	parsed, err := parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feed.Name, err)
	}

	entries := make([]news.RawEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, toEntry(feed.Name, item))
	}
	return entries, nil
}

// FetchAll fetches every feed and concatenates the entries in feed order.
// A feed that fails contributes nothing; the run continues.
func (f *Fetcher) FetchAll(ctx context.Context, feeds []config.Feed) []news.RawEntry {
	results := make([][]news.RawEntry, len(feeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, feed := range feeds {
		i, feed := i, feed
		g.Go(func() error {
			entries, err := f.Fetch(gctx, feed)
			if err != nil {
				logger.Warn("Feed failed", "feed", feed.Name, "error", err)
				f.metrics.IncrementFeedFailures()
				return nil
			}
			logger.Debug("Feed loaded", "feed", feed.Name, "entries", len(entries))
			results[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	var all []news.RawEntry
	ok := 0
	for _, r := range results {
		if r != nil {
			ok++
		}
		all = append(all, r...)
	}
	f.metrics.AddEntriesFetched(len(all))
	logger.Info("Processed RSS feeds", "ok", ok, "total", len(feeds), "entries", len(all))
	return all
}

func toEntry(source string, item *gofeed.Item) news.RawEntry {
	summary := item.Description
	if strings.TrimSpace(summary) == "" {
		summary = item.Content
	}
	published := item.Published
	if strings.TrimSpace(published) == "" {
		published = item.Updated
	}
	return news.RawEntry{
		Source:    source,
		Title:     strings.TrimSpace(item.Title),
		Link:      strings.TrimSpace(item.Link),
		Summary:   htmltext.Plain(summary),
		Published: published,
	}
}
