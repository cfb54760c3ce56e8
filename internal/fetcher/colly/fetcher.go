// Package collyfetcher implements crawler.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/linkscout/internal/crawler"
	"github.com/JakeFAU/linkscout/internal/logsink"
)

// DefaultUserAgent is a desktop browser string sent when none is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"

const defaultTimeout = 15 * time.Second

// StatusError reports a response whose status code is outside 200-299.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher implements crawler.Fetcher using the Colly collector. The base
// collector, and with it the HTTP transport, is shared by every Fetch call.
type Fetcher struct {
	baseCollector *colly.Collector
	recorder      logsink.Recorder
	logger        *zap.Logger
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

var _ crawler.Fetcher = (*Fetcher)(nil)

// New builds a Fetcher. Failures are recorded to recorder as they happen.
func New(cfg Config, recorder logsink.Recorder, logger *zap.Logger) *Fetcher {
	if recorder == nil {
		recorder = logsink.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := colly.NewCollector(
		colly.Async(false),
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(0),
	)
	c.WithTransport(newHTTPTransport())
	c.SetRequestTimeout(timeout)

	return &Fetcher{
		baseCollector: c,
		recorder:      recorder,
		logger:        logger,
	}
}

// Fetch performs one GET for url. Any failure is recorded as an ERROR and
// returned in the result; it is never retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) crawler.FetchResult {
	start := time.Now()
	var (
		response crawler.FetchResult
		fetchErr error
	)

	collector := f.baseCollector.Clone()
	f.configureCollectorHooks(collector, &response, &fetchErr)

	// response is only read once the visit has returned; a canceled fetch
	// leaves it to the collector goroutine.
	err := f.runCollector(ctx, collector, url, &fetchErr)
	result := crawler.FetchResult{URL: url, Duration: time.Since(start)}
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			result.StatusCode = statusErr.Code
		}
		result.Err = err
		f.recorder.Record(logsink.LevelError, fmt.Sprintf("Failed to fetch URL %s: %v", url, err))
		f.logger.Warn("Fetch failed", zap.String("url", url), zap.Error(err))
		return result
	}

	result.StatusCode = response.StatusCode
	result.Body = response.Body
	f.logger.Debug("Fetched URL",
		zap.String("url", url),
		zap.Int("status", result.StatusCode),
		zap.Int("bytes", len(result.Body)),
		zap.Duration("duration", result.Duration),
	)
	return result
}

func (f *Fetcher) configureCollectorHooks(hooks collectorHooks, result *crawler.FetchResult, fetchErr *error) {
	hooks.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		if r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices {
			*fetchErr = &StatusError{Code: r.StatusCode}
			return
		}
		result.Body = append([]byte(nil), r.Body...)
	})

	hooks.OnError(func(_ *colly.Response, err error) {
		if *fetchErr == nil {
			*fetchErr = err
		}
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		var statusErr *StatusError
		if errors.As(*fetchErr, &statusErr) {
			return statusErr
		}
		if err != nil {
			return fmt.Errorf("visit: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("response: %w", *fetchErr)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
