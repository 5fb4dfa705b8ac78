package progress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestNewTracker(t *testing.T) {
	for _, total := range []int{0, 1, 9, 1000} {
		var buf bytes.Buffer
		tracker := NewTracker(&buf, "Resolving", total)
		if tracker == nil || tracker.bar == nil {
			t.Fatalf("NewTracker(%d) returned incomplete tracker", total)
		}
		tracker.Set(total)
		tracker.FinishSuccess()
	}
}

func TestTrackerFinishMessages(t *testing.T) {
	var buf bytes.Buffer
	NewTracker(&buf, "Resolving", 3).FinishSkipped("no records")
	if !strings.Contains(buf.String(), "Resolving skipped (no records)") {
		t.Errorf("skip message missing: %q", buf.String())
	}

	buf.Reset()
	NewTracker(&buf, "Resolving", 3).FinishError(errors.New("boom"))
	if !strings.Contains(buf.String(), "Resolving error: boom") {
		t.Errorf("error message missing: %q", buf.String())
	}
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "Resolving")

	r.Finish(nil) // nothing drawn yet
	if buf.Len() != 0 {
		t.Errorf("Finish() before Report() wrote %q", buf.String())
	}

	for i := 1; i <= 9; i++ {
		r.Report(i, 9)
	}
	if r.tracker == nil {
		t.Fatal("Report() did not create a tracker")
	}
	r.Finish(nil)
	if r.tracker != nil {
		t.Error("Finish() should release the tracker")
	}
	if buf.Len() == 0 {
		t.Error("expected progress output")
	}
}

func TestReporterConcurrent(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "Resolving")

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Report(i+1, 10)
		}()
	}
	wg.Wait()
	r.Finish(nil)
}

func TestReporterFinishOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"cancelled", fmt.Errorf("run: %w", context.Canceled), "Resolving skipped (interrupted)"},
		{"failed", errors.New("boom"), "Resolving error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewReporter(&buf, "Resolving")
			r.Report(1, 3)
			r.Finish(tt.err)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q missing %q", buf.String(), tt.want)
			}
		})
	}
}
