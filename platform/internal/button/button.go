// platform/internal/button/button.go

// Package button turns a debounced edge-interrupt line into an
// accumulate-then-read-and-clear event mask. The interrupt handler is
// the only writer; the polling loop is the only reader. All shared
// state lives in one atomic cell so neither side can observe a torn
// value.
package button

import (
	"sync/atomic"

	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
)

// Mask is the accumulated pushbutton event bitmask.
type Mask uint16

const (
	Press   Mask = 0x0001
	Release Mask = 0x0002

	All = Press | Release
)

func (m Mask) Pressed() bool  { return m&Press != 0 }
func (m Mask) Released() bool { return m&Release != 0 }

// Capture owns the onboard button's event state.
type Capture struct {
	src hw.EdgeInterruptSource
	// activeLow: the switch pulls the line low when pressed, as on
	// the evaluation board.
	activeLow bool

	mask atomic.Uint32
}

func NewCapture(src hw.EdgeInterruptSource, activeLow bool) *Capture {
	return &Capture{src: src, activeLow: activeLow}
}

// Attach registers the edge handler. Call once after the edge source
// has been configured and enabled.
func (c *Capture) Attach() error { return c.src.Attach(c.handleEdge) }

func (c *Capture) Detach() { c.src.Detach() }

// handleEdge runs in interrupt context. Each firing contributes
// exactly one of Press/Release, chosen from the instantaneous
// debounced level, OR-ed into the accumulated mask. A press and a
// release that both fire before the consumer reads leave both bits
// set.
func (c *Capture) handleEdge() {
	level := c.src.PinState()
	pressed := level
	if c.activeLow {
		pressed = !level
	}
	bit := Release
	if pressed {
		bit = Press
	}
	c.mask.Or(uint32(bit))
}

// Events returns the accumulated mask and atomically resets it to
// empty. Consumer-side only; must not be called from a context that
// can preempt itself.
func (c *Capture) Events() Mask {
	return Mask(c.mask.Swap(0))
}
