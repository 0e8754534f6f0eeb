package scraper

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func eventPage(title string) string {
	return `<html><body><h1>` + title + `</h1><div class="Message"><p>` + title +
		` is live now, join the server and claim your rewards before the weekend ends.</p></div></body></html>`
}

func TestScrapeManySkipsFailures(t *testing.T) {
	srv := newSite(t, map[string]string{
		"/discussion/1/a": eventPage("First"),
		"/discussion/3/c": eventPage("Third"),
	}, "/discussion/2/b")
	s := newTestScraper(t, srv.URL, nil)

	events := s.ScrapeMany(context.Background(), []string{
		srv.URL + "/discussion/1/a",
		srv.URL + "/discussion/2/b",
		srv.URL + "/discussion/3/c",
	})

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Title != "First" || events[1].Title != "Third" {
		t.Errorf("order not preserved: %q, %q", events[0].Title, events[1].Title)
	}
	if got := testutil.ToFloat64(s.metrics.BatchSkipped); got != 1 {
		t.Errorf("skipped metric = %v", got)
	}
}

func TestScrapeManyStopsOnCancel(t *testing.T) {
	srv := newSite(t, map[string]string{"/discussion/1/a": eventPage("First")})
	s := newTestScraper(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := s.ScrapeMany(ctx, []string{srv.URL + "/discussion/1/a", srv.URL + "/discussion/1/a"})
	if len(events) != 0 {
		t.Errorf("expected nothing after cancellation, got %d", len(events))
	}
}

func TestScrapeManyEmpty(t *testing.T) {
	s := newTestScraper(t, "https://forum.test", nil)
	if events := s.ScrapeMany(context.Background(), nil); len(events) != 0 {
		t.Errorf("expected empty result, got %v", events)
	}
}

func TestScrapeLatest(t *testing.T) {
	list := `<html><body><ul>
<li><a href="/discussion/1/a">First</a><time>today</time></li>
<li><a href="/discussion/2/b">Second</a><time>today</time></li>
</ul></body></html>`
	srv := newSite(t, map[string]string{
		"/categories/announcements": list,
		"/discussion/1/a":           eventPage("First"),
		"/discussion/2/b":           eventPage("Second"),
	})
	s := newTestScraper(t, srv.URL, nil)

	events, err := s.ScrapeLatest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[1].Title != "Second" {
		t.Errorf("unexpected events: %+v", events)
	}
}
