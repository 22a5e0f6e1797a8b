// Package perf measures wall-clock durations of labelled calls and reports on them.
package perf

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"
)

// Comparison accumulates durations per label.
// It is safe for concurrent use.
type Comparison struct {
	mu           sync.Mutex
	measurements map[string][]time.Duration
	order        []string
}

// NewComparison returns an empty Comparison.
func NewComparison() *Comparison {
	return &Comparison{measurements: make(map[string][]time.Duration)}
}

// Record adds one measurement for label.
func (c *Comparison) Record(label string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.measurements[label]; !ok {
		c.order = append(c.order, label)
	}
	c.measurements[label] = append(c.measurements[label], d)
}

// Count returns the number of measurements for label.
func (c *Comparison) Count(label string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.measurements[label])
}

// Labels returns the recorded labels in first-seen order.
func (c *Comparison) Labels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Average returns the mean duration for label, or 0 without measurements.
func (c *Comparison) Average(label string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return average(c.measurements[label])
}

// Min returns the shortest duration for label, or 0 without measurements.
func (c *Comparison) Min(label string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	min, _ := bounds(c.measurements[label])
	return min
}

// Max returns the longest duration for label, or 0 without measurements.
func (c *Comparison) Max(label string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, max := bounds(c.measurements[label])
	return max
}

// Clear drops all measurements.
func (c *Comparison) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.measurements = make(map[string][]time.Duration)
	c.order = nil
}

// Report writes count, average, min, max and range for every label,
// sorted by label.
func (c *Comparison) Report(w io.Writer) {
	c.mu.Lock()
	labels := make([]string, len(c.order))
	copy(labels, c.order)
	snapshot := make(map[string][]time.Duration, len(c.measurements))
	for k, v := range c.measurements {
		snapshot[k] = v
	}
	c.mu.Unlock()

	sort.Strings(labels)

	fmt.Fprintln(w, "Performance report")
	fmt.Fprintln(w, "==================")
	if len(labels) == 0 {
		fmt.Fprintln(w, "no measurements")
		return
	}
	for _, label := range labels {
		ds := snapshot[label]
		min, max := bounds(ds)
		fmt.Fprintf(w, "\n%s:\n", label)
		fmt.Fprintf(w, "   Count:   %d\n", len(ds))
		fmt.Fprintf(w, "   Average: %s\n", ms(average(ds)))
		fmt.Fprintf(w, "   Min:     %s\n", ms(min))
		fmt.Fprintf(w, "   Max:     %s\n", ms(max))
		fmt.Fprintf(w, "   Range:   %s\n", ms(max-min))
	}
}

// CompareBeforeAfter writes how much faster or slower the average of after
// is relative to before. It returns the improvement in percent; positive
// means faster. ok is false when either label has no measurements.
func (c *Comparison) CompareBeforeAfter(w io.Writer, before, after string) (improvement float64, ok bool) {
	beforeAvg := c.Average(before)
	afterAvg := c.Average(after)
	if beforeAvg == 0 || afterAvg == 0 {
		fmt.Fprintln(w, "not enough data for comparison")
		return 0, false
	}

	improvement = float64(beforeAvg-afterAvg) / float64(beforeAvg) * 100
	verdict := "faster"
	if improvement <= 0 {
		verdict = "slower"
	}

	fmt.Fprintf(w, "%s vs %s\n", before, after)
	fmt.Fprintf(w, "   Before: %s\n", ms(beforeAvg))
	fmt.Fprintf(w, "   After:  %s\n", ms(afterAvg))
	fmt.Fprintf(w, "   %.1f%% %s\n", math.Abs(improvement), verdict)
	return improvement, true
}

func average(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

func bounds(ds []time.Duration) (min, max time.Duration) {
	if len(ds) == 0 {
		return 0, 0
	}
	min, max = ds[0], ds[0]
	for _, d := range ds[1:] {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// ms formats d as milliseconds with two decimals.
func ms(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}
