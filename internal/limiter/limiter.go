// Package limiter windows result lists for --limit, --offset and --tail.
package limiter

import (
	"fmt"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Show only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Show only the last N records (0 = disabled); mutually exclusive with Limit
}

// Validate rejects negative values and Limit combined with Tail. Offset is
// ignored when Tail is set.
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Window returns the half-open range [start, end) of n records to keep.
func (c Config) Window(n int) (start, end int) {
	if c.Tail > 0 {
		return max(n-c.Tail, 0), n
	}
	start = min(c.Offset, n)
	end = n
	if c.Limit > 0 {
		end = min(start+c.Limit, n)
	}
	return start, end
}

// Apply returns the window of s selected by c. The result shares s's
// backing array.
func Apply[T any](c Config, s []T) []T {
	if !c.IsActive() {
		return s
	}
	start, end := c.Window(len(s))
	return s[start:end]
}

// Summary describes a truncated window, e.g. "showing 3-5 of 12". It is
// empty when nothing was cut.
func (c Config) Summary(n int) string {
	start, end := c.Window(n)
	if start == 0 && end == n {
		return ""
	}
	if start == end {
		return fmt.Sprintf("showing 0 of %d", n)
	}
	return fmt.Sprintf("showing %d-%d of %d", start+1, end, n)
}
