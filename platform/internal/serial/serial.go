// platform/internal/serial/serial.go

// Package serial implements the single-outstanding-operation
// asynchronous transmit/receive protocol over a buffer-described
// engine. The engine's interrupt side delivers bytes and completion
// callbacks; the polling side arms descriptors and finishes receptions
// against the current tick. Every field shared across the two domains
// is a single machine word accessed atomically.
package serial

import (
	"sync/atomic"

	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/tick"
)

// Completion is the outcome recorded in an RxDescriptor.
type Completion uint8

const (
	// CompletionNone: no reception-completion event has occurred.
	CompletionNone Completion = iota
	// CompletionData: reception finished with captured bytes.
	CompletionData
	// CompletionBreak: reception finished on a line-break condition.
	// No provided engine generates it; the state exists for engines
	// that do.
	CompletionBreak
)

// RxDescriptor describes one reception: a caller-owned buffer and the
// completion outcome. The caller must not reuse the buffer until a
// completion is observed, and must not write the completion field.
// The outcome is packed into one atomic word so the interrupt-side
// write never races a torn poll.
type RxDescriptor struct {
	Buf []byte

	compl atomic.Uint32 // Completion<<16 | length
}

// Completion returns the recorded outcome and, for CompletionData, the
// number of bytes captured.
func (d *RxDescriptor) Completion() (Completion, uint16) {
	v := d.compl.Load()
	return Completion(v >> 16), uint16(v)
}

func (d *RxDescriptor) complete(c Completion, n uint16) {
	d.compl.Store(uint32(c)<<16 | uint32(n))
}

// Channel is one serial channel with at most one in-flight operation
// per direction. Enqueue/abort/busy/Service belong to the polling
// domain; the engine invokes put and the TX done callback from
// interrupt context.
type Channel struct {
	eng hw.AsyncSerialEngine
	clk *tick.Clock

	// idle is the RX gap after which a partially filled descriptor
	// completes with the data received so far.
	idle tick.Tick

	txBusy atomic.Bool
	rxBusy atomic.Bool

	rxDesc *RxDescriptor // owned by the polling domain
	rxLen  atomic.Uint32 // written only by the interrupt domain

	lastSeen     uint32
	lastProgress tick.Tick
	hasProgress  bool
}

func NewChannel(eng hw.AsyncSerialEngine, clk *tick.Clock, rxIdle tick.Tick) *Channel {
	return &Channel{eng: eng, clk: clk, idle: rxIdle}
}

// EnqueueTx hands the fragment list to the engine. The caller must
// keep every referenced buffer valid until TxBusy reports false again.
// Returns false, leaving prior state untouched, while a transmission
// is already outstanding; that is a normal outcome, retry or abort.
func (c *Channel) EnqueueTx(frags [][]byte) bool {
	if len(frags) == 0 {
		return false
	}
	if !c.txBusy.CompareAndSwap(false, true) {
		return false
	}
	if err := c.eng.StartTx(frags, c.txComplete); err != nil {
		c.txBusy.Store(false)
		return false
	}
	return true
}

// txComplete runs in interrupt context. A word-sized overwrite is all
// the completion needs.
func (c *Channel) txComplete() { c.txBusy.Store(false) }

// AbortTx unconditionally stops any in-progress transmission. Bytes
// already on the wire are not retracted. Safe and idempotent when
// idle.
func (c *Channel) AbortTx() {
	c.eng.AbortTx()
	c.txBusy.Store(false)
}

func (c *Channel) TxBusy() bool { return c.txBusy.Load() }

// EnqueueRx arms the descriptor for asynchronous fill. Rejected while
// a reception is outstanding or when the descriptor has no buffer.
func (c *Channel) EnqueueRx(d *RxDescriptor) bool {
	if d == nil || len(d.Buf) == 0 {
		return false
	}
	if !c.rxBusy.CompareAndSwap(false, true) {
		return false
	}
	d.compl.Store(0)
	c.rxDesc = d
	c.rxLen.Store(0)
	c.lastSeen = 0
	c.hasProgress = false
	if err := c.eng.StartRx(c.put); err != nil {
		c.rxDesc = nil
		c.rxBusy.Store(false)
		return false
	}
	return true
}

// put runs in interrupt context: store one byte, publish the new
// length, tell the engine whether the buffer still has room.
func (c *Channel) put(b byte) bool {
	d := c.rxDesc
	if d == nil {
		return false
	}
	n := c.rxLen.Load()
	if int(n) >= len(d.Buf) {
		return false
	}
	d.Buf[n] = b
	c.rxLen.Store(n + 1)
	return int(n+1) < len(d.Buf)
}

// AbortRx stops any in-progress reception without recording a
// completion. Safe and idempotent when idle.
func (c *Channel) AbortRx() {
	c.eng.AbortRx()
	c.rxDesc = nil
	c.rxLen.Store(0)
	c.rxBusy.Store(false)
}

func (c *Channel) RxBusy() bool { return c.rxBusy.Load() }

// Service pumps time-sensitive housekeeping and must be called on
// every main-loop pass with the current (high-resolution) tick. A
// reception completes with CompletionData when its buffer fills or
// when the line has been idle for the configured gap after at least
// one byte arrived.
func (c *Channel) Service(now tick.Tick) {
	if p, ok := c.eng.(hw.PolledEngine); ok {
		p.Pump()
	}
	if !c.rxBusy.Load() {
		return
	}
	d := c.rxDesc
	if d == nil {
		return
	}
	n := c.rxLen.Load()
	if n == 0 {
		return
	}
	full := int(n) >= len(d.Buf)
	if n != c.lastSeen || !c.hasProgress {
		c.lastSeen = n
		c.lastProgress = now
		c.hasProgress = true
		if !full {
			return
		}
	}
	if !full {
		// now and lastProgress are HRCount samples; the gap must be
		// wrap-corrected with the high-resolution counter's span.
		gap := c.clk.HRDelta(now, c.lastProgress)
		if tick.Compare(gap, c.idle) < 0 {
			return
		}
	}
	c.eng.AbortRx()
	// A byte can land between the length load above and the abort;
	// re-read so it is counted rather than silently dropped.
	n = c.rxLen.Load()
	d.complete(CompletionData, uint16(n))
	c.rxDesc = nil
	c.rxBusy.Store(false)
}
