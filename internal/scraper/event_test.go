package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/IshaanNene/GuildScrape/internal/types"
)

const threadPage = `<html><head><title>Forum</title></head><body>
<div class="Discussion">
  <div class="DiscussionHeader"><h1>  Summer   Festival  </h1></div>
  <div class="DiscussionMeta"><time datetime="2024-06-01">June 1, 2024</time></div>
  <div class="Message userContent">
    <img src="/uploads/avatar_12.png">
    <p>The festival starts <b>Friday</b>. Read the <a href="/discussion/5/rules">rules</a> first.</p>
    <p><img data-src="//cdn.example.net/uploads/banner.png" alt="banner" onerror="alert(1)"></p>
    <script>steal()</script>
    <p onclick="x()">Prizes for everyone who joins before Sunday.</p>
    <div class="Signature">Signature text</div>
  </div>
</div>
</body></html>`

func TestScrapeEvent(t *testing.T) {
	srv := newSite(t, map[string]string{"/discussion/5/summer-festival": threadPage})
	s := newTestScraper(t, srv.URL, nil)

	ev, err := s.ScrapeEvent(context.Background(), srv.URL+"/discussion/5/summer-festival")
	if err != nil {
		t.Fatalf("scrape event: %v", err)
	}

	if ev.Title != "Summer Festival" {
		t.Errorf("title = %q", ev.Title)
	}
	if ev.Date != "June 1, 2024" {
		t.Errorf("date = %q", ev.Date)
	}
	if ev.Image != "https://cdn.example.net/uploads/banner.png" {
		t.Errorf("image = %q, avatar should be rejected", ev.Image)
	}
	if ev.Category != "Announcement" {
		t.Errorf("category = %q", ev.Category)
	}

	for _, want := range []string{
		`href="` + srv.URL + `/discussion/5/rules"`,
		`src="https://cdn.example.net/uploads/banner.png"`,
		"<b>Friday</b>",
		"Prizes for everyone",
	} {
		if !strings.Contains(ev.Content, want) {
			t.Errorf("content missing %q:\n%s", want, ev.Content)
		}
	}
	for _, banned := range []string{"<script", "steal()", "onclick", "onerror", "Signature text", "data-src"} {
		if strings.Contains(ev.Content, banned) {
			t.Errorf("content should not contain %q:\n%s", banned, ev.Content)
		}
	}
}

func TestScrapeEventEmptyContainerFallsBackToTitle(t *testing.T) {
	page := `<html><head><title>Maintenance</title></head><body><div class="Message">   </div></body></html>`
	srv := newSite(t, map[string]string{"/discussion/9/x": page})
	s := newTestScraper(t, srv.URL, nil)

	ev, err := s.ScrapeEvent(context.Background(), srv.URL+"/discussion/9/x")
	if err != nil {
		t.Fatal(err)
	}
	if ev.Content != "<p>Maintenance</p>" {
		t.Errorf("content = %q", ev.Content)
	}
}

func TestScrapeEventShortContentUsesPlainText(t *testing.T) {
	page := `<html><body><h1>Short</h1><div class="Message"><em>Soon &amp; more</em></div></body></html>`
	srv := newSite(t, map[string]string{"/discussion/9/x": page})
	s := newTestScraper(t, srv.URL, nil)

	ev, err := s.ScrapeEvent(context.Background(), srv.URL+"/discussion/9/x")
	if err != nil {
		t.Fatal(err)
	}
	if ev.Content != "<p>Soon &amp; more</p>" {
		t.Errorf("content = %q", ev.Content)
	}
}

func TestScrapeEventNeverEmpty(t *testing.T) {
	srv := newSite(t, map[string]string{"/discussion/9/x": `<html><body><span></span></body></html>`})
	s := newTestScraper(t, srv.URL, nil)

	ev, err := s.ScrapeEvent(context.Background(), srv.URL+"/discussion/9/x")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(ev.Content) == "" {
		t.Error("content must never be empty")
	}
	if ev.Image != "" || ev.Title != "" {
		t.Errorf("expected degraded fields, got %+v", ev)
	}
}

func TestScrapeEventEmptyBody(t *testing.T) {
	srv := newSite(t, map[string]string{"/discussion/1/empty": ""})
	s := newTestScraper(t, srv.URL, nil)

	rawURL := srv.URL + "/discussion/1/empty"
	ev, err := s.ScrapeEvent(context.Background(), rawURL)
	if err != nil {
		t.Fatalf("empty page should degrade, not fail: %v", err)
	}
	if !strings.Contains(ev.Content, "/discussion/1/empty") || !strings.HasPrefix(ev.Content, "<p>") {
		t.Errorf("expected url fallback content, got %q", ev.Content)
	}
}

func TestScrapeEventMetaFallbacks(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="Meta Title">
<meta property="article:published_time" content="2024-02-02T00:00:00Z">
<meta property="og:image" content="/media/hero.jpg">
</head><body><div class="post-content"><p>` + strings.Repeat("Long enough body text. ", 5) + `</p></div></body></html>`
	srv := newSite(t, map[string]string{"/discussion/3/m": page})
	s := newTestScraper(t, srv.URL, nil)

	ev, err := s.ScrapeEvent(context.Background(), srv.URL+"/discussion/3/m")
	if err != nil {
		t.Fatal(err)
	}
	if ev.Title != "Meta Title" || ev.Date != "2024-02-02T00:00:00Z" {
		t.Errorf("meta fallbacks not used: %+v", ev)
	}
	if ev.Image != srv.URL+"/media/hero.jpg" {
		t.Errorf("image = %q", ev.Image)
	}
}

func TestScrapeEventReadabilityFallback(t *testing.T) {
	para := "<p>The winter league returns this season with new maps, fresh rewards, and a ranked ladder that resets every week, so every squad gets a fair shot at the top spots before the finals.</p>"
	page := `<html><head><title>Winter League</title></head><body><section>` +
		strings.Repeat(para, 6) + `</section></body></html>`
	srv := newSite(t, map[string]string{"/discussion/4/w": page})
	s := newTestScraper(t, srv.URL, nil)

	ev, err := s.ScrapeEvent(context.Background(), srv.URL+"/discussion/4/w")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ev.Content, "winter league returns") {
		t.Errorf("expected article body from readability, got %q", ev.Content)
	}
}

func TestScrapeEventFetchError(t *testing.T) {
	srv := newSite(t, nil, "/discussion/1/x")
	s := newTestScraper(t, srv.URL, nil)

	_, err := s.ScrapeEvent(context.Background(), srv.URL+"/discussion/1/x")
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if !errors.Is(err, types.ErrStatusRejected) {
		t.Errorf("expected status rejection cause, got %v", err)
	}
}

func TestCategoryFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://forum.test/categories/patch-notes/", "Patch notes"},
		{"https://forum.test/categories/events?page=2", "Events"},
		{"https://forum.test/categories/%C3%A9v%C3%A9nements", "Événements"},
		{"https://forum.test/discussion/5/x", "Announcement"},
		{"https://forum.test/categories/", "Announcement"},
	}
	for _, tt := range tests {
		if got := categoryFromURL(tt.url); got != tt.want {
			t.Errorf("categoryFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
