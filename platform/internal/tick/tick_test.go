package tick

import (
	"testing"
)

// fake free-running counter

type fakeCounter struct {
	value  uint32
	span   uint32
	freqHz uint32
}

func (c *fakeCounter) Count() uint32       { return c.value }
func (c *fakeCounter) Span() uint32        { return c.span }
func (c *fakeCounter) FrequencyHz() uint32 { return c.freqHz }
func (c *fakeCounter) Enable() error       { return nil }

// 200 Hz: one count is 5 ms. A span of 2000 counts is exactly 10 s,
// which keeps the wrap arithmetic easy to eyeball.
func newTestClock() (*Clock, *fakeCounter) {
	ctr := &fakeCounter{span: 2000, freqHz: 200}
	return NewClock(ctr, nil), ctr
}

func TestCompare_Ordering(t *testing.T) {
	cases := []struct {
		lhs, rhs Tick
		want     int
	}{
		{Tick{1, 0}, Tick{1, 0}, 0},
		{Tick{1, 0}, Tick{2, 0}, -1},
		{Tick{2, 0}, Tick{1, 999_999_999}, +1},
		{Tick{1, 100}, Tick{1, 200}, -1},
		{Tick{1, 200}, Tick{1, 100}, +1},
	}
	for _, c := range cases {
		if got := Compare(c.lhs, c.rhs); got != c.want {
			t.Fatalf("Compare(%v, %v) = %d, want %d", c.lhs, c.rhs, got, c.want)
		}
	}
}

func TestClock_CountScalesByFrequency(t *testing.T) {
	clk, ctr := newTestClock()

	ctr.value = 100 // 100 * 5 ms = 500 ms
	got := clk.Count()
	if got != (Tick{Sec: 0, Nsec: 500_000_000}) {
		t.Fatalf("Count = %+v, want {0 500000000}", got)
	}

	ctr.value = 403 // 2.015 s
	got = clk.Count()
	if got != (Tick{Sec: 2, Nsec: 15_000_000}) {
		t.Fatalf("Count = %+v, want {2 15000000}", got)
	}
}

func TestClock_HRCountFallsBackWithoutHRSource(t *testing.T) {
	clk, ctr := newTestClock()
	ctr.value = 10
	if clk.HRCount() != clk.Count() {
		t.Fatalf("HRCount without an hr source must equal Count")
	}
}

func TestClock_HRCountUsesFinerSource(t *testing.T) {
	ctr := &fakeCounter{span: 2000, freqHz: 200}
	hr := &fakeCounter{span: 1 << 24, freqHz: 1_000_000}
	clk := NewClock(ctr, hr)

	hr.value = 1234 // 1234 µs
	got := clk.HRCount()
	if got != (Tick{Sec: 0, Nsec: 1_234_000}) {
		t.Fatalf("HRCount = %+v, want {0 1234000}", got)
	}
}

func TestClock_DeltaPlainSubtraction(t *testing.T) {
	clk, _ := newTestClock()
	got := clk.Delta(Tick{Sec: 5, Nsec: 300}, Tick{Sec: 2, Nsec: 100})
	if got != (Tick{Sec: 3, Nsec: 200}) {
		t.Fatalf("Delta = %+v, want {3 200}", got)
	}
}

func TestClock_DeltaBorrowsAcrossSecondBoundary(t *testing.T) {
	clk, _ := newTestClock()
	got := clk.Delta(Tick{Sec: 2, Nsec: 100}, Tick{Sec: 1, Nsec: 200})
	if got != (Tick{Sec: 0, Nsec: 999_999_900}) {
		t.Fatalf("Delta = %+v, want {0 999999900}", got)
	}
}

func TestClock_DeltaCorrectsSingleWrap(t *testing.T) {
	clk, _ := newTestClock()
	if clk.Span() != (Tick{Sec: 10, Nsec: 0}) {
		t.Fatalf("Span = %+v, want {10 0}", clk.Span())
	}

	// The counter wrapped between the two samples: the later sample
	// reads numerically earlier. One full period is added back.
	got := clk.Delta(Tick{Sec: 1, Nsec: 0}, Tick{Sec: 9, Nsec: 0})
	if got != (Tick{Sec: 2, Nsec: 0}) {
		t.Fatalf("Delta across wrap = %+v, want {2 0}", got)
	}
}

func TestClock_HRDeltaCorrectsWithHRSpan(t *testing.T) {
	ctr := &fakeCounter{span: 2000, freqHz: 200}           // 10 s period
	hr := &fakeCounter{span: 2_000_000, freqHz: 1_000_000} // 2 s period
	clk := NewClock(ctr, hr)

	if clk.HRSpan() != (Tick{Sec: 2, Nsec: 0}) {
		t.Fatalf("HRSpan = %+v, want {2 0}", clk.HRSpan())
	}

	// The hr counter wrapped: 1.9 s -> 0.1 s is a true gap of 0.2 s.
	lhs := Tick{Sec: 0, Nsec: 100_000_000}
	rhs := Tick{Sec: 1, Nsec: 900_000_000}
	if got := clk.HRDelta(lhs, rhs); got != (Tick{Sec: 0, Nsec: 200_000_000}) {
		t.Fatalf("HRDelta across hr wrap = %+v, want {0 200000000}", got)
	}

	// Delta on the same samples corrects with the tick counter's span
	// instead; the two must not be conflated.
	if got := clk.Delta(lhs, rhs); got != (Tick{Sec: 8, Nsec: 200_000_000}) {
		t.Fatalf("Delta with tick span = %+v, want {8 200000000}", got)
	}
}

func TestClock_HRDeltaWithoutHRSourceUsesTickSpan(t *testing.T) {
	clk, _ := newTestClock() // span 10 s, no hr source
	got := clk.HRDelta(Tick{Sec: 1}, Tick{Sec: 9})
	if got != (Tick{Sec: 2, Nsec: 0}) {
		t.Fatalf("HRDelta fallback = %+v, want {2 0}", got)
	}
}

func TestClock_DeltaOfEqualSamplesIsZero(t *testing.T) {
	clk, ctr := newTestClock()
	ctr.value = 777
	a := clk.Count()
	b := clk.Count()
	if d := clk.Delta(b, a); d != (Tick{}) {
		t.Fatalf("Delta of identical samples = %+v, want zero", d)
	}
}
