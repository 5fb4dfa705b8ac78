// Package progress draws progress bars for long-running analysis.
package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for record resolution.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	w     io.Writer
}

// NewTracker creates a progress bar that draws to w.
func NewTracker(w io.Writer, label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label, w: w}
}

// Set moves the bar to an absolute position.
func (t *Tracker) Set(n int) {
	t.bar.Set(n)
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	t.bar.Finish()
	t.bar.Clear()
}

// FinishSkipped clears the bar and prints a skip message.
func (t *Tracker) FinishSkipped(reason string) {
	t.bar.Finish()
	t.bar.Clear()
	fmt.Fprintf(t.w, "  %s skipped (%s)\n", t.label, reason)
}

// FinishError clears the bar and prints an error message.
func (t *Tracker) FinishError(err error) {
	t.bar.Finish()
	t.bar.Clear()
	fmt.Fprintf(t.w, "  %s error: %v\n", t.label, err)
}

// Reporter adapts a Tracker to a (done, total) callback. The bar is created
// on the first report, once the total is known.
type Reporter struct {
	mu      sync.Mutex
	w       io.Writer
	label   string
	tracker *Tracker
}

// NewReporter creates a Reporter drawing to w.
func NewReporter(w io.Writer, label string) *Reporter {
	return &Reporter{w: w, label: label}
}

// Report records that done of total items are finished.
func (r *Reporter) Report(done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tracker == nil {
		r.tracker = NewTracker(r.w, r.label, total)
	}
	r.tracker.Set(done)
}

// Finish ends the bar according to the outcome of the run. Nothing is
// printed when no bar was drawn.
func (r *Reporter) Finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tracker == nil {
		return
	}
	switch {
	case err == nil:
		r.tracker.FinishSuccess()
	case errors.Is(err, context.Canceled):
		r.tracker.FinishSkipped("interrupted")
	default:
		r.tracker.FinishError(err)
	}
	r.tracker = nil
}
