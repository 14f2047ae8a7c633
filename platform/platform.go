// platform/platform.go

// Package platform is the interrupt/poll coordination layer for the
// evaluation board: monotonic tick timing, debounced button-event
// capture, the timer-driven blink sequencer, and the descriptor-based
// asynchronous serial channel. It depends only on the capability
// interfaces in hw; hardware-backed and simulated boards plug
// in from outside.
package platform

import (
	"github.com/Lolfaceftw/eee158-module-06/errcode"
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/blink"
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/button"
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/serial"
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/tick"
)

// Platform ties the four facilities together over one board.
type Platform struct {
	board hw.Board
	cfg   Config

	clock   *tick.Clock
	buttons *button.Capture
	blinker *blink.Sequencer
	channel *serial.Channel

	initialized bool
}

// New wires the facilities over the given board. Call Init exactly
// once before any other operation.
func New(board hw.Board, cfg Config) *Platform {
	cfg = cfg.withDefaults()
	clk := tick.NewClock(board.Counter, board.HRCounter)
	return &Platform{
		board:   board,
		cfg:     cfg,
		clock:   clk,
		buttons: button.NewCapture(board.Button, true),
		blinker: blink.NewSequencer(board.BlinkTimer, board.Led, cfg.Blink),
		channel: serial.NewChannel(board.Serial, clk, cfg.rxIdle()),
	}
}

// Init performs the one-time bring-up in the board's required order:
// counters, edge-source early config (debounce prescaler), pins,
// blink timer, serial engine, edge-source late enable, ISR attach.
// Every readiness wait is a bounded retry; a peripheral that never
// comes up surfaces as HardwareNotReady instead of a hang.
func (p *Platform) Init() error {
	if p.initialized {
		return &errcode.E{C: errcode.PreconditionViolated, Op: "init", Msg: "initialized twice"}
	}

	n := p.cfg.ReadyAttempts
	if err := awaitReady("counter", n, p.board.Counter.Enable); err != nil {
		return err
	}
	if p.board.HRCounter != nil {
		if err := awaitReady("hr_counter", n, p.board.HRCounter.Enable); err != nil {
			return err
		}
	}

	// Early edge-source config: the debounce prescaler is rejected by
	// most edge peripherals once they are enabled.
	if err := p.board.Button.ConfigureDebounce(p.cfg.Debounce); err != nil {
		return err
	}

	if err := p.board.Led.ConfigureOutput(false); err != nil {
		return err
	}
	if p.board.AuxOut != nil {
		if err := p.board.AuxOut.ConfigureOutput(true); err != nil {
			return err
		}
	}
	if p.board.AuxIn != nil {
		if err := p.board.AuxIn.ConfigureInput(hw.PullDown); err != nil {
			return err
		}
	}

	if err := awaitReady("blink_timer", n, p.board.BlinkTimer.Enable); err != nil {
		return err
	}
	if err := awaitReady("serial", n, func() error {
		return p.board.Serial.Configure(p.cfg.Serial)
	}); err != nil {
		return err
	}

	// Late enable, then attach the handler; interrupts may fire as
	// soon as the attach returns.
	if err := awaitReady("edge_source", n, p.board.Button.Enable); err != nil {
		return err
	}
	if err := p.buttons.Attach(); err != nil {
		return err
	}

	p.initialized = true
	return nil
}

// LoopOnce pumps time-sensitive housekeeping and must be invoked
// repeatedly from the application's main loop. Currently that is the
// serial completion check against the high-resolution tick.
func (p *Platform) LoopOnce() {
	if !p.initialized {
		return
	}
	p.channel.Service(p.clock.HRCount())
}

// ---- Command surface ----

// TickCount returns the number of ticks since Init.
func (p *Platform) TickCount() tick.Tick { return p.clock.Count() }

// TickHRCount is the higher-resolution variant of TickCount.
func (p *Platform) TickHRCount() tick.Tick { return p.clock.HRCount() }

// TickDelta computes lhs - rhs for TickCount samples, correcting for
// at most one tick-counter wraparound.
func (p *Platform) TickDelta(lhs, rhs tick.Tick) tick.Tick {
	return p.clock.Delta(lhs, rhs)
}

// TickHRDelta is TickDelta for TickHRCount samples; the wrap
// correction uses the high-resolution counter's span instead.
func (p *Platform) TickHRDelta(lhs, rhs tick.Tick) tick.Tick {
	return p.clock.HRDelta(lhs, rhs)
}

// ButtonEvents returns the pushbutton events accumulated since the
// last call and clears them. Polling-domain only.
func (p *Platform) ButtonEvents() button.Mask { return p.buttons.Events() }

// SetBlinkMode assigns the blink mode immediately and recomputes the
// indicator output.
func (p *Platform) SetBlinkMode(m blink.Mode) {
	p.blinker.SetMode(m)
	p.blinker.Refresh()
}

func (p *Platform) BlinkMode() blink.Mode { return p.blinker.Mode() }

// RefreshBlink recomputes the indicator output from the live counter.
func (p *Platform) RefreshBlink() { p.blinker.Refresh() }

// TxEnqueue hands a fragment list to the serial engine. The caller
// keeps every buffer valid until TxBusy reports false. A false return
// means a transmission is outstanding; retry later or abort first.
func (p *Platform) TxEnqueue(frags [][]byte) bool { return p.channel.EnqueueTx(frags) }

// TxAbort stops any in-progress transmission; always safe.
func (p *Platform) TxAbort() { p.channel.AbortTx() }

func (p *Platform) TxBusy() bool { return p.channel.TxBusy() }

// RxEnqueue arms a reception descriptor. The caller must not touch the
// buffer or completion until the completion is observed.
func (p *Platform) RxEnqueue(d *serial.RxDescriptor) bool { return p.channel.EnqueueRx(d) }

// RxAbort stops any in-progress reception; always safe.
func (p *Platform) RxAbort() { p.channel.AbortRx() }

func (p *Platform) RxBusy() bool { return p.channel.RxBusy() }

// awaitReady retries enable up to attempts times, converting a stuck
// peripheral into an observable HardwareNotReady instead of the
// original design's unbounded busy-wait.
func awaitReady(op string, attempts int, enable func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = enable(); err == nil {
			return nil
		}
	}
	return &errcode.E{C: errcode.HardwareNotReady, Op: op, Err: err}
}
