package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks scraper activity on its own registry, so several scrapers
// can live in one process without colliding.
type Metrics struct {
	Registry *prometheus.Registry

	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	RecordsTotal  *prometheus.CounterVec
	Degradations  *prometheus.CounterVec
	BatchSkipped  prometheus.Counter

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		FetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "guildscrape_fetch_total",
			Help: "Page fetches by profile and outcome.",
		}, []string{"profile", "outcome"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guildscrape_fetch_duration_seconds",
			Help:    "Duration of successful page fetches.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"profile"}),
		RecordsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "guildscrape_records_total",
			Help: "Records extracted by kind.",
		}, []string{"kind"}),
		Degradations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "guildscrape_degradations_total",
			Help: "Fields that fell back to an empty or synthesized value.",
		}, []string{"kind", "field"}),
		BatchSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "guildscrape_batch_skipped_total",
			Help: "Batch items skipped after a failure.",
		}),
		logger: logger.With("component", "metrics"),
	}
}

// ObserveFetch records the outcome of one fetch.
func (m *Metrics) ObserveFetch(profile string, d time.Duration, err error) {
	if err != nil {
		m.FetchTotal.WithLabelValues(profile, "error").Inc()
		return
	}
	m.FetchTotal.WithLabelValues(profile, "ok").Inc()
	m.FetchDuration.WithLabelValues(profile).Observe(d.Seconds())
}

// Records adds n extracted records of a kind.
func (m *Metrics) Records(kind string, n int) {
	m.RecordsTotal.WithLabelValues(kind).Add(float64(n))
}

// Degraded counts one field that fell back.
func (m *Metrics) Degraded(kind, field string) {
	m.Degradations.WithLabelValues(kind, field).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	m.logger.Info("metrics server starting", "addr", addr, "path", path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
