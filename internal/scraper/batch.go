package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/IshaanNene/GuildScrape/internal/types"
)

// ScrapeMany scrapes each URL in order, pausing batch.delay between
// requests. Failed URLs are logged and skipped. Cancelling ctx stops the
// batch and returns what was gathered so far.
func (s *Scraper) ScrapeMany(ctx context.Context, urls []string) []types.ScrapedEvent {
	events := make([]types.ScrapedEvent, 0, len(urls))
	for i, u := range urls {
		if i > 0 && !sleep(ctx, s.cfg.Batch.Delay) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		ev, err := s.ScrapeEvent(ctx, u)
		if err != nil {
			s.metrics.BatchSkipped.Inc()
			s.logger.Warn("skipping event", "url", u, "error", err)
			continue
		}
		events = append(events, ev)
	}

	if skipped := len(urls) - len(events); skipped > 0 {
		s.logger.Info("batch finished", "requested", len(urls), "scraped", len(events), "missing", skipped)
	}
	return events
}

// ScrapeLatest scrapes the forum listing, then every listed discussion.
func (s *Scraper) ScrapeLatest(ctx context.Context) ([]types.ScrapedEvent, error) {
	stubs, err := s.ScrapeList(ctx)
	if err != nil {
		return nil, fmt.Errorf("scrape latest: %w", err)
	}
	urls := make([]string, len(stubs))
	for i, stub := range stubs {
		urls[i] = stub.URL
	}
	return s.ScrapeMany(ctx, urls), nil
}

// sleep waits for d, reporting false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
