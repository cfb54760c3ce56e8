package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/linkscout/internal/logsink"
	"github.com/JakeFAU/linkscout/internal/metrics"
)

// NoSeedsMessage is recorded when Crawl is given an empty seed list.
const NoSeedsMessage = "No URLs Found in the settings file."

// ErrNoSeeds is returned by Crawl when there is nothing to fetch.
var ErrNoSeeds = errors.New("no seed urls")

// Dependencies are the collaborators an Orchestrator drives.
type Dependencies struct {
	Journal   Journal
	Fetcher   Fetcher
	Extractor Extractor
	Reporter  Reporter
	IDs       IDGenerator
	Clock     Clock
}

// Orchestrator fans a seed list out to one unit of work per URL and waits
// for every unit to finish.
type Orchestrator struct {
	journal   Journal
	fetcher   Fetcher
	extractor Extractor
	reporter  Reporter
	ids       IDGenerator
	clock     Clock
	logger    *zap.Logger

	urls URLSet
}

type outcome int

const (
	outcomeSucceeded outcome = iota
	outcomeEmpty
	outcomeFailed
	outcomeErrored
)

type tally struct {
	succeeded atomic.Int64
	empty     atomic.Int64
	failed    atomic.Int64
	errored   atomic.Int64
	extracted atomic.Int64
}

func (t *tally) add(o outcome) {
	switch o {
	case outcomeSucceeded:
		t.succeeded.Add(1)
	case outcomeEmpty:
		t.empty.Add(1)
	case outcomeFailed:
		t.failed.Add(1)
	case outcomeErrored:
		t.errored.Add(1)
	}
}

// New builds an Orchestrator and truncates both run logs.
func New(deps Dependencies, logger *zap.Logger) (*Orchestrator, error) {
	if deps.Journal == nil || deps.Fetcher == nil || deps.Extractor == nil || deps.Reporter == nil {
		return nil, errors.New("crawler: journal, fetcher, extractor, and reporter are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := deps.Journal.Reset(); err != nil {
		return nil, fmt.Errorf("reset run logs: %w", err)
	}
	metrics.Init()

	return &Orchestrator{
		journal:   deps.Journal,
		fetcher:   deps.Fetcher,
		extractor: deps.Extractor,
		reporter:  deps.Reporter,
		ids:       deps.IDs,
		clock:     deps.Clock,
		logger:    logger,
	}, nil
}

// Crawl processes every seed concurrently and returns once all of them have
// finished. Per-URL failures are recorded and counted, never returned; the
// only error is ErrNoSeeds.
func (o *Orchestrator) Crawl(ctx context.Context, seeds []string) (Summary, error) {
	start := o.now()
	summary := Summary{RunID: o.newRunID(), Seeds: len(seeds)}
	logger := o.logger.With(zap.String("run_id", summary.RunID))

	if len(seeds) == 0 {
		o.journal.Record(logsink.LevelError, NoSeedsMessage)
		logger.Error("No seed URLs configured")
		return summary, ErrNoSeeds
	}

	logger.Info("Starting crawl", zap.Int("seeds", len(seeds)))

	var (
		counts tally
		group  errgroup.Group
	)
	for _, seed := range seeds {
		group.Go(func() error {
			o.runUnit(ctx, seed, &counts, logger)
			return nil
		})
	}
	// Units never return errors.
	_ = group.Wait()

	summary.Succeeded = int(counts.succeeded.Load())
	summary.Empty = int(counts.empty.Load())
	summary.Failed = int(counts.failed.Load())
	summary.Errored = int(counts.errored.Load())
	summary.Extracted = int(counts.extracted.Load())
	summary.Duration = o.now().Sub(start)

	logger.Info("Crawl finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("empty", summary.Empty),
		zap.Int("failed", summary.Failed),
		zap.Int("errored", summary.Errored),
		zap.Int("extracted", summary.Extracted),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// ExtractedURLs returns every URL extracted so far, across all Crawl calls.
func (o *Orchestrator) ExtractedURLs() []string {
	return o.urls.Snapshot()
}

func (o *Orchestrator) runUnit(ctx context.Context, url string, counts *tally, logger *zap.Logger) {
	metrics.IncUnitsInFlight()
	defer metrics.DecUnitsInFlight()

	result := o.processURL(ctx, url, counts, logger)
	counts.add(result)
}

// processURL is the unit boundary: a panic anywhere below it is recorded and
// ends this unit only.
func (o *Orchestrator) processURL(ctx context.Context, url string, counts *tally, logger *zap.Logger) (result outcome) {
	defer func() {
		if r := recover(); r != nil {
			o.recordUnitError(url, fmt.Errorf("%v", r), logger)
			result = outcomeErrored
		}
	}()

	logger.Debug("Processing URL", zap.String("url", url))
	fetched := o.fetcher.Fetch(ctx, url)
	switch {
	case fetched.Failed():
		// The fetcher has already recorded the failure.
		metrics.ObserveFetch(url, metrics.OutcomeFailure, fetched.Duration, 0)
		return outcomeFailed
	case fetched.Empty():
		metrics.ObserveFetch(url, metrics.OutcomeEmpty, fetched.Duration, 0)
		o.journal.Record(logsink.LevelWarning, "No content found for URL "+url)
		return outcomeEmpty
	}
	metrics.ObserveFetch(url, metrics.OutcomeSuccess, fetched.Duration, len(fetched.Body))

	body := string(fetched.Body)
	if meta, err := o.extractor.ExtractMetadata(body, url); err == nil {
		o.reporter.Report(meta)
	}

	links := o.extractor.ExtractLinks(body)
	for _, link := range links {
		o.journal.Record(logsink.LevelURL, link)
	}
	o.urls.Add(links...)
	counts.extracted.Add(int64(len(links)))
	metrics.ObserveExtracted(url, len(links))

	logger.Info("Processed URL", zap.String("url", url), zap.Int("links", len(links)))
	return outcomeSucceeded
}

func (o *Orchestrator) recordUnitError(url string, err error, logger *zap.Logger) {
	o.journal.Record(logsink.LevelError, fmt.Sprintf("Error processing URL %s: %v", url, err))
	metrics.ObserveUnitError(url)
	logger.Error("Unit failed", zap.String("url", url), zap.Error(err))
}

func (o *Orchestrator) newRunID() string {
	if o.ids == nil {
		return ""
	}
	id, err := o.ids.NewID()
	if err != nil {
		o.logger.Warn("Failed to generate run id", zap.Error(err))
		return ""
	}
	return id
}

func (o *Orchestrator) now() time.Time {
	if o.clock == nil {
		return time.Now()
	}
	return o.clock.Now()
}
