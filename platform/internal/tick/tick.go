// platform/internal/tick/tick.go

// Package tick provides monotonic time sampling from a free-running
// hardware counter and wraparound-safe tick arithmetic.
package tick

import (
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
)

const NanosPerSec = 1_000_000_000

// Tick is elapsed time since bring-up, sampled from the counter.
// Nsec always lies on [0, 999999999]. Immutable once read.
type Tick struct {
	Sec  uint32
	Nsec uint32
}

// Compare returns -1 if lhs is earlier than rhs, +1 if later, 0 if
// equal. Pure numeric comparison, most-significant field first; it
// deliberately ignores counter wraparound.
func Compare(lhs, rhs Tick) int {
	switch {
	case lhs.Sec < rhs.Sec:
		return -1
	case lhs.Sec > rhs.Sec:
		return +1
	case lhs.Nsec < rhs.Nsec:
		return -1
	case lhs.Nsec > rhs.Nsec:
		return +1
	}
	return 0
}

// Clock converts counter samples to Ticks. The zero value is not
// usable; construct with NewClock.
type Clock struct {
	ctr hw.FreeRunningCounter
	hr  hw.FreeRunningCounter

	nsPerCount   uint64
	hrNsPerCount uint64
	span         Tick // one full period of ctr
	hrSpan       Tick // one full period of hr (span when hr is nil)
}

// NewClock builds a clock over the board's tick counter. hr may be nil;
// HRCount then falls back to Count.
func NewClock(ctr, hr hw.FreeRunningCounter) *Clock {
	c := &Clock{
		ctr:        ctr,
		hr:         hr,
		nsPerCount: nsPerCount(ctr.FrequencyHz()),
	}
	c.span = fromCounts(ctr.Span(), c.nsPerCount)
	c.hrSpan = c.span
	if hr != nil {
		c.hrNsPerCount = nsPerCount(hr.FrequencyHz())
		c.hrSpan = fromCounts(hr.Span(), c.hrNsPerCount)
	}
	return c
}

// Count returns the current tick. Monotonically non-decreasing between
// counter wraps.
func (c *Clock) Count() Tick {
	return fromCounts(c.ctr.Count(), c.nsPerCount)
}

// HRCount is an equal-or-higher-resolution sample, equivalent to Count
// when the board has no finer source.
func (c *Clock) HRCount() Tick {
	if c.hr == nil {
		return c.Count()
	}
	return fromCounts(c.hr.Count(), c.hrNsPerCount)
}

// Delta returns lhs - rhs for Count samples, normalizing the
// nanosecond borrow across the second boundary. If lhs appears earlier
// than rhs the counter is assumed to have wrapped exactly once and one
// full tick-counter period is added back. More than one wrap between
// the two samples is an unchecked precondition violation; callers must
// poll often enough.
func (c *Clock) Delta(lhs, rhs Tick) Tick {
	return delta(lhs, rhs, c.span)
}

// HRDelta is Delta for HRCount samples. The two counters wrap at
// different periods, so a wrap here is corrected with the
// high-resolution counter's span, not the tick counter's.
func (c *Clock) HRDelta(lhs, rhs Tick) Tick {
	return delta(lhs, rhs, c.hrSpan)
}

func delta(lhs, rhs, span Tick) Tick {
	if Compare(lhs, rhs) >= 0 {
		return sub(lhs, rhs)
	}
	return sub(add(lhs, span), rhs)
}

// Span is one full period of the underlying tick counter, as a Tick.
func (c *Clock) Span() Tick { return c.span }

// HRSpan is one full period of the high-resolution counter, equal to
// Span when the board has no finer source.
func (c *Clock) HRSpan() Tick { return c.hrSpan }

func nsPerCount(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(NanosPerSec) / uint64(freqHz)
}

func fromCounts(v uint32, nsPer uint64) Tick {
	total := uint64(v) * nsPer
	return Tick{
		Sec:  uint32(total / NanosPerSec),
		Nsec: uint32(total % NanosPerSec),
	}
}

// sub assumes lhs is not earlier than rhs.
func sub(lhs, rhs Tick) Tick {
	sec := lhs.Sec - rhs.Sec
	var nsec uint32
	if lhs.Nsec < rhs.Nsec {
		sec--
		nsec = lhs.Nsec + NanosPerSec - rhs.Nsec
	} else {
		nsec = lhs.Nsec - rhs.Nsec
	}
	return Tick{Sec: sec, Nsec: nsec}
}

func add(lhs, rhs Tick) Tick {
	sec := lhs.Sec + rhs.Sec
	nsec := lhs.Nsec + rhs.Nsec
	if nsec >= NanosPerSec {
		sec++
		nsec -= NanosPerSec
	}
	return Tick{Sec: sec, Nsec: nsec}
}
