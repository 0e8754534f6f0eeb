package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/IshaanNene/GuildScrape/internal/types"
)

const listingPage = `<html><body>
<ul class="DataList Discussions">
  <li class="Item">
    <a href="/discussion/101/summer-event">Summer   Event</a>
    <a href="/discussion/101/summer-event#latest">2 comments</a>
    <span class="MItem"><time datetime="2024-06-01T10:00:00Z">June 1</time></span>
  </li>
  <li class="Item">
    <a href="https://forum.other/discussion/102/patch-1-2">Patch 1.2</a>
    <span class="MItem LastCommentDate">May 30</span>
  </li>
  <li class="Item">
    <a href="/profile/bob">bob</a>
    <a href="/discussion/103/art"><img src="/x.png"></a>
  </li>
</ul>
</body></html>`

func TestScrapeList(t *testing.T) {
	srv := newSite(t, map[string]string{"/categories/announcements": listingPage})
	s := newTestScraper(t, srv.URL, nil)

	stubs, err := s.ScrapeList(context.Background())
	if err != nil {
		t.Fatalf("scrape list: %v", err)
	}

	want := []types.ForumPostStub{
		{URL: srv.URL + "/discussion/101/summer-event", Title: "Summer Event", Date: "2024-06-01T10:00:00Z", DiscussionID: "101"},
		{URL: "https://forum.other/discussion/102/patch-1-2", Title: "Patch 1.2", Date: "May 30", DiscussionID: "102"},
	}
	if len(stubs) != len(want) {
		t.Fatalf("expected %d stubs, got %d: %+v", len(want), len(stubs), stubs)
	}
	for i := range want {
		if stubs[i] != want[i] {
			t.Errorf("stub %d = %+v, want %+v", i, stubs[i], want[i])
		}
	}
	if got := testutil.ToFloat64(s.metrics.RecordsTotal.WithLabelValues(types.KindStub)); got != 2 {
		t.Errorf("records metric = %v", got)
	}
}

func TestScrapeListDateFallsBackToToday(t *testing.T) {
	page := `<html><body><p><a href="/discussion/7/quiet">Quiet thread</a></p></body></html>`
	srv := newSite(t, map[string]string{"/categories/announcements": page})
	s := newTestScraper(t, srv.URL, nil)
	s.now = func() time.Time { return time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC) }

	stubs, err := s.ScrapeList(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stubs) != 1 || stubs[0].Date != "2024-03-05" {
		t.Errorf("expected today's date fallback, got %+v", stubs)
	}
	if got := testutil.ToFloat64(s.metrics.Degradations.WithLabelValues(types.KindStub, "date")); got != 1 {
		t.Errorf("degradation metric = %v", got)
	}
}

func TestScrapeListCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for i := 1; i <= 25; i++ {
		fmt.Fprintf(&b, `<li><a href="/discussion/%d/t">Thread %d</a><time>today</time></li>`, i, i)
	}
	b.WriteString("</ul></body></html>")

	srv := newSite(t, map[string]string{"/categories/announcements": b.String()})
	s := newTestScraper(t, srv.URL, nil)

	stubs, err := s.ScrapeList(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stubs) != 20 {
		t.Fatalf("expected 20 stubs, got %d", len(stubs))
	}
	if stubs[19].DiscussionID != "20" {
		t.Errorf("cap should keep document order, last id = %s", stubs[19].DiscussionID)
	}
}

func TestScrapeListFetchError(t *testing.T) {
	srv := newSite(t, nil, "/categories/announcements")
	s := newTestScraper(t, srv.URL, nil)

	_, err := s.ScrapeList(context.Background())
	var fe *types.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != 500 {
		t.Fatalf("expected FetchError with status 500, got %v", err)
	}
}
