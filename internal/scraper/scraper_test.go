package scraper

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/IshaanNene/GuildScrape/internal/config"
	"github.com/IshaanNene/GuildScrape/internal/fetcher"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// newSite serves each markup string at its path. Paths in failing answer 500.
func newSite(t *testing.T, pages map[string]string, failing ...string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for p, body := range pages {
		body := body
		mux.HandleFunc(p, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			io.WriteString(w, body)
		})
	}
	for _, p := range failing {
		mux.HandleFunc(p, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestScraper(t *testing.T, baseURL string, assets AssetResolver) *Scraper {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Forum.BaseURL = baseURL
	cfg.Catalog.BaseURL = baseURL
	cfg.Batch.Delay = time.Millisecond

	f := fetcher.NewHTTPFetcher(cfg, testLogger)
	t.Cleanup(func() { f.Close() })

	s, err := New(cfg, f, assets, nil, testLogger)
	if err != nil {
		t.Fatalf("new scraper: %v", err)
	}
	return s
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Forum.BaseURL = "http://bad host/%zz"
	if _, err := New(cfg, fetcher.NewHTTPFetcher(cfg, testLogger), nil, nil, testLogger); err == nil {
		t.Error("expected error for unparseable base url")
	}
}

func TestFetchProfiles(t *testing.T) {
	s := newTestScraper(t, "https://forum.test", nil)

	list := s.options(profileList)
	if list.Timeout != 10*time.Second || list.Retries != 0 || list.RequireBody {
		t.Errorf("list profile = %+v", list)
	}
	detail := s.options(profileDetail)
	if detail.Timeout != 15*time.Second || detail.Retries != 0 || detail.RequireBody {
		t.Errorf("detail profile = %+v", detail)
	}
	catalog := s.options(profileCatalog)
	if catalog.Timeout != 45*time.Second || catalog.Retries != 1 || catalog.MaxStatus != 500 || !catalog.RequireBody {
		t.Errorf("catalog profile = %+v", catalog)
	}
}
