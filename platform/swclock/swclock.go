// platform/swclock/swclock.go

// Package swclock provides free-running counters and a compare timer
// backed by the runtime clock, for boards whose timer peripherals are
// not exposed (host bridges, TinyGo targets driven through time).
package swclock

import (
	"time"
)

// Counter is an hw.FreeRunningCounter that derives its count from
// elapsed wall time.
type Counter struct {
	start  time.Time
	freqHz uint32
	span   uint32
	now    func() time.Time
}

func NewCounter(freqHz, span uint32) *Counter {
	return newCounter(freqHz, span, time.Now)
}

func newCounter(freqHz uint32, span uint32, now func() time.Time) *Counter {
	return &Counter{start: now(), freqHz: freqHz, span: span, now: now}
}

func (c *Counter) Count() uint32 {
	elapsed := c.now().Sub(c.start)
	counts := uint64(elapsed) * uint64(c.freqHz) / uint64(time.Second)
	return uint32(counts % uint64(c.span))
}

func (c *Counter) Span() uint32        { return c.span }
func (c *Counter) FrequencyHz() uint32 { return c.freqHz }
func (c *Counter) Enable() error       { return nil }

// CompareTimer is an hw.CompareTimer whose count runs at a fixed rate
// and wraps at the programmed top.
type CompareTimer struct {
	start  time.Time
	freqHz uint32
	top    uint32
	now    func() time.Time
}

func NewCompareTimer(freqHz uint32) *CompareTimer {
	return newCompareTimer(freqHz, time.Now)
}

func newCompareTimer(freqHz uint32, now func() time.Time) *CompareTimer {
	return &CompareTimer{start: now(), freqHz: freqHz, now: now}
}

func (t *CompareTimer) SetTop(top uint32) { t.top = top }

func (t *CompareTimer) Count() uint32 {
	if t.top == 0 {
		return 0
	}
	elapsed := t.now().Sub(t.start)
	counts := uint64(elapsed) * uint64(t.freqHz) / uint64(time.Second)
	return uint32(counts % uint64(t.top))
}

func (t *CompareTimer) Enable() error { return nil }
