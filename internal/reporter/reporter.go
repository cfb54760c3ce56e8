// Package reporter emits per-page metadata reports to the URL log and the
// console, and prints the run completion banner.
package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/JakeFAU/linkscout/internal/crawler"
	"github.com/JakeFAU/linkscout/internal/logsink"
)

type styles struct {
	label    lipgloss.Style
	url      lipgloss.Style
	heading  lipgloss.Style
	muted    lipgloss.Style
	banner   lipgloss.Style
	failures lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		label:   r.NewStyle().Foreground(lipgloss.Color("110")).Bold(true),
		url:     r.NewStyle().Foreground(lipgloss.Color("86")).Underline(true),
		heading: r.NewStyle().Foreground(lipgloss.Color("252")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("242")).Italic(true),
		banner: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1),
		failures: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

// Reporter implements crawler.Reporter. Console output is serialized by the
// reporter's own lock so concurrent reports never interleave.
type Reporter struct {
	recorder logsink.Recorder
	logger   *zap.Logger

	mu     sync.Mutex
	out    io.Writer
	styles styles
}

var _ crawler.Reporter = (*Reporter)(nil)

// New builds a Reporter writing console output to out (os.Stdout when nil).
func New(recorder logsink.Recorder, out io.Writer, logger *zap.Logger) *Reporter {
	if recorder == nil {
		recorder = logsink.Discard
	}
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		recorder: recorder,
		logger:   logger,
		out:      out,
		styles:   newStyles(out),
	}
}

// FormatReport renders meta as the multi-line block stored in the URL log.
func FormatReport(meta crawler.PageMetadata) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Website URL: %s\n", meta.URL)
	fmt.Fprintf(&sb, "Title: %s\n", meta.Title)
	fmt.Fprintf(&sb, "Meta Description: %s\n", meta.MetaDescription)
	if len(meta.Headings) == 0 {
		sb.WriteString("Headings: None")
		return sb.String()
	}
	sb.WriteString("Headings:")
	for _, h := range meta.Headings {
		sb.WriteString("\n  ")
		sb.WriteString(h.String())
	}
	return sb.String()
}

// Report records meta as one INFO record and prints it to the console.
// Failures are recorded as ERROR and never propagate.
func (r *Reporter) Report(meta crawler.PageMetadata) {
	defer func() {
		if p := recover(); p != nil {
			r.recordFailure(meta.URL, fmt.Errorf("%v", p))
		}
	}()

	r.recorder.Record(logsink.LevelInfo, FormatReport(meta))
	if err := r.print(r.renderReport(meta)); err != nil {
		r.recordFailure(meta.URL, err)
	}
}

func (r *Reporter) renderReport(meta crawler.PageMetadata) string {
	s := r.styles
	lines := []string{
		s.label.Render("Website URL:") + " " + s.url.Render(meta.URL),
		s.label.Render("Title:") + " " + meta.Title,
		s.label.Render("Meta Description:") + " " + meta.MetaDescription,
	}
	if len(meta.Headings) == 0 {
		lines = append(lines, s.label.Render("Headings:")+" "+s.muted.Render("None"))
	} else {
		lines = append(lines, s.label.Render("Headings:"))
		for _, h := range meta.Headings {
			lines = append(lines, "  "+s.heading.Render(h.String()))
		}
	}
	return strings.Join(lines, "\n") + "\n\n"
}

// Complete prints the completion banner with the run totals.
func (r *Reporter) Complete(summary crawler.Summary) {
	s := r.styles
	totals := fmt.Sprintf("%d seeds: %d processed, %d empty, %d failed, %d errored; %d URLs extracted in %s",
		summary.Seeds, summary.Succeeded, summary.Empty, summary.Failed, summary.Errored,
		summary.Extracted, summary.Duration.Round(time.Millisecond))
	if summary.Failed+summary.Errored > 0 {
		totals = s.failures.Render(totals)
	}
	block := s.banner.Render("Crawling complete.") + "\n" + totals + "\n"
	if summary.RunID != "" {
		block += s.muted.Render("run "+summary.RunID) + "\n"
	}
	if err := r.print(block); err != nil {
		r.logger.Error("Failed to print completion banner", zap.Error(err))
	}
}

func (r *Reporter) print(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := io.WriteString(r.out, text); err != nil {
		return fmt.Errorf("write console: %w", err)
	}
	return nil
}

func (r *Reporter) recordFailure(url string, err error) {
	r.recorder.Record(logsink.LevelError, fmt.Sprintf("Error reporting URL %s: %v", url, err))
	r.logger.Warn("Report failed", zap.String("url", url), zap.Error(err))
}
