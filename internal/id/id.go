package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefix is prepended to formatted transaction IDs.
const Prefix = "TX-"

// Source hands out transaction identifiers.
type Source interface {
	Next() int64
}

// Clock derives identifiers from the wall clock in milliseconds. When the
// clock has not advanced since the previous call the last value is bumped
// by one, so identifiers are strictly increasing within a Clock.
type Clock struct {
	now  func() time.Time
	last int64
}

// NewClock returns a Clock reading time from now, or time.Now when nil.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Next returns the next identifier.
func (c *Clock) Next() int64 {
	n := c.now().UnixMilli()
	if n <= c.last {
		n = c.last + 1
	}
	c.last = n
	return n
}

// Sequence yields start, start+1, ...
type Sequence struct {
	next int64
}

// NewSequence returns a Sequence whose first value is start.
func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

// Next returns the next identifier.
func (s *Sequence) Next() int64 {
	n := s.next
	s.next++
	return n
}

// Format returns an ID like "TX-42".
func Format(n int64) string {
	return Prefix + strconv.FormatInt(n, 10)
}

// Parse accepts "TX-42", "tx-42" or a bare "42".
func Parse(s string) (int64, error) {
	raw := strings.TrimSpace(s)
	if len(raw) >= len(Prefix) && strings.EqualFold(raw[:len(Prefix)], Prefix) {
		raw = raw[len(Prefix):]
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction ID %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid transaction ID %q: must be positive", s)
	}
	return n, nil
}
