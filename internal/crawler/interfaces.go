package crawler

import (
	"context"
	"time"

	"github.com/JakeFAU/linkscout/internal/logsink"
)

// Fetcher retrieves a single URL. Implementations record their own failures
// and never return an error separately from the result.
type Fetcher interface {
	Fetch(ctx context.Context, url string) FetchResult
}

// Extractor pulls links and metadata out of an HTML document.
type Extractor interface {
	ExtractLinks(body string) []string
	ExtractMetadata(body, url string) (PageMetadata, error)
}

// Reporter emits the metadata report for a processed page.
type Reporter interface {
	Report(meta PageMetadata)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}

// Journal is the run's log: a Recorder whose files can be truncated at the
// start of a run.
type Journal interface {
	logsink.Recorder
	Reset() error
}
