// platform/hw/hw.go
package hw

// Capability interfaces consumed by the platform core. Each one wraps a
// single board peripheral; the core never touches registers directly.
// Hardware-backed implementations live behind build tags in cmd/ binds,
// the software-simulated ones in platform/sim.

// ---- Counters & timers ----

// FreeRunningCounter is a monotonically incrementing hardware counter
// that wraps at Span(). Count must be safe to call from both the main
// loop and interrupt context.
type FreeRunningCounter interface {
	// Count returns the current counter value in [0, Span()).
	Count() uint32
	// Span is the number of distinct counter values before wrap
	// (max value + 1).
	Span() uint32
	// FrequencyHz is the counting rate.
	FrequencyHz() uint32
	// Enable starts the counter. Returns an error while the
	// peripheral is not yet ready; callers retry with a budget.
	Enable() error
}

// CompareTimer is a free-running timer with a programmable top value,
// read back by polling. The blink sequencer programs the top with the
// active mode's period and compares the live count against a duty
// threshold.
type CompareTimer interface {
	SetTop(top uint32)
	Count() uint32
	Enable() error
}

// ---- GPIO ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GpioPin interface {
	ConfigureOutput(initial bool) error
	ConfigureInput(pull Pull) error
	Set(level bool)
	Get() bool
	Toggle()
}

// ---- Edge interrupt source ----

// DebounceConfig is applied once during bring-up; the prescaler is not
// runtime-adjustable.
type DebounceConfig struct {
	// PrescalerHz is the sampling clock fed to the debouncer
	// (15.625 kHz class for mechanical switches).
	PrescalerHz uint32
	// Samples is the number of agreeing samples required.
	Samples uint8
}

// EdgeInterruptSource is a debounced, edge-sensitive interrupt line.
// The attached handler runs in interrupt context and must not block.
type EdgeInterruptSource interface {
	// ConfigureDebounce must be called before Enable; most edge
	// peripherals reject reconfiguration once enabled.
	ConfigureDebounce(cfg DebounceConfig) error
	// Enable arms edge detection. Returns an error while the
	// peripheral is not yet ready.
	Enable() error
	Attach(handler func()) error
	Detach()
	// PinState returns the instantaneous debounced line level.
	// Safe from interrupt context.
	PinState() bool
}

// ---- Asynchronous serial engine ----

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

type SerialConfig struct {
	Baud     uint32
	DataBits uint8
	StopBits uint8
	Parity   Parity
}

// AsyncSerialEngine is a buffer-described transmit/receive engine.
// StartTx/StartRx hand ownership of the referenced memory to the
// engine until the corresponding completion or abort.
type AsyncSerialEngine interface {
	Configure(cfg SerialConfig) error

	// StartTx transmits the fragments in order and invokes done once
	// from completion (interrupt) context when the engine is finished
	// with frags: normally when the last byte has been handed to the
	// wire, or when the transmission is dropped whole on an
	// unrecoverable fault. The engine must not retain frags after
	// done, and must never send a fragment subsequent to a faulted
	// one.
	StartTx(frags [][]byte, done func()) error
	// AbortTx stops an in-progress transmission. Bytes already on the
	// wire are not retracted. No-op if idle. done is not invoked for
	// an aborted transmission.
	AbortTx()

	// StartRx arms reception. Each received byte is handed to put in
	// interrupt context; put consumes the byte and reports whether
	// the engine should keep delivering. The engine stops after put
	// returns false or AbortRx.
	StartRx(put func(b byte) (more bool)) error
	AbortRx()
}

// PolledEngine is an optional extension for engines with no interrupt
// machinery of their own; the platform pumps them from the main loop.
// Discovered by type assertion.
type PolledEngine interface {
	Pump()
}

// ---- Board ----

// Board bundles the capabilities of one evaluation board. Exactly one
// instance of each peripheral, matching the single-instance design.
type Board struct {
	Counter FreeRunningCounter
	// HRCounter, when non-nil, provides a finer-grained sample used
	// by HRCount. Optional.
	HRCounter FreeRunningCounter

	BlinkTimer CompareTimer
	Led        GpioPin
	Button     EdgeInterruptSource
	Serial     AsyncSerialEngine

	// Auxiliary pin pair configured during bring-up (out/in); no
	// runtime behavior is attached to them.
	AuxOut GpioPin
	AuxIn  GpioPin
}
