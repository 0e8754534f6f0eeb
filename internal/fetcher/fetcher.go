package fetcher

import (
	"context"
	"time"

	"github.com/IshaanNene/GuildScrape/internal/types"
)

// Fetcher is the interface for page fetcher implementations.
type Fetcher interface {
	// Fetch retrieves the markup at rawURL.
	Fetch(ctx context.Context, rawURL string, opts Options) (*types.Page, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Options tunes a single fetch.
type Options struct {
	// Profile labels the fetch in logs and metrics ("list", "detail", "catalog").
	Profile string

	// Timeout bounds each attempt. Zero means no per-attempt bound beyond ctx.
	Timeout time.Duration

	// Retries is how many extra attempts are made when the body is unusable.
	// Network failures are never retried.
	Retries int

	// RequireBody rejects a body that is empty after trimming. Without it an
	// empty page is returned for the caller to degrade on.
	RequireBody bool

	// MaxStatus is the exclusive status-code ceiling. Responses below it are
	// accepted even when not 2xx, since soft-block pages still carry a body.
	MaxStatus int
}
