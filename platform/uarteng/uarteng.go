// platform/uarteng/uarteng.go

// Package uarteng adapts any tinygo.org/x/drivers UART into the
// platform's asynchronous serial engine. The adapter has no interrupt
// machinery of its own; the channel pumps it on every loop-service
// pass through the PolledEngine extension, so "completion interrupt"
// work happens at poll time instead.
package uarteng

import (
	"sync"

	"tinygo.org/x/drivers"

	"github.com/Lolfaceftw/eee158-module-06/errcode"
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
)

type Engine struct {
	mu sync.Mutex
	u  drivers.UART

	txFrags  [][]byte
	txFrag   int
	txOff    int
	txDone   func()
	txActive bool

	rxPut    func(b byte) bool
	rxActive bool
}

func New(u drivers.UART) *Engine { return &Engine{u: u} }

func (e *Engine) Configure(cfg hw.SerialConfig) error {
	return e.u.Configure(drivers.UARTConfig{BaudRate: cfg.Baud})
}

func (e *Engine) StartTx(frags [][]byte, done func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.txActive {
		return errcode.Busy
	}
	e.txFrags = frags
	e.txFrag = 0
	e.txOff = 0
	e.txDone = done
	e.txActive = true
	return nil
}

func (e *Engine) AbortTx() {
	e.mu.Lock()
	e.txFrags = nil
	e.txDone = nil
	e.txActive = false
	e.mu.Unlock()
}

func (e *Engine) StartRx(put func(b byte) bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rxActive {
		return errcode.Busy
	}
	e.rxPut = put
	e.rxActive = true
	return nil
}

func (e *Engine) AbortRx() {
	e.mu.Lock()
	e.rxPut = nil
	e.rxActive = false
	e.mu.Unlock()
}

// Pump moves pending TX fragments out through the UART and drains
// buffered RX bytes into the armed sink. Called from the polling
// domain only.
func (e *Engine) Pump() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pumpTx()
	e.pumpRx()
}

func (e *Engine) pumpTx() {
	if !e.txActive {
		return
	}
loop:
	for e.txFrag < len(e.txFrags) {
		frag := e.txFrags[e.txFrag]
		for e.txOff < len(frag) {
			n, err := e.u.Write(frag[e.txOff:])
			if err != nil {
				// A fault mid-frame has no recovery at this layer.
				// Drop the whole remaining transmission; sending the
				// later fragments around the hole would put a corrupt
				// frame on the wire.
				break loop
			}
			if n == 0 {
				// No space; resume on the next pump.
				return
			}
			e.txOff += n
		}
		e.txFrag++
		e.txOff = 0
	}
	done := e.txDone
	e.txFrags = nil
	e.txDone = nil
	e.txActive = false
	if done != nil {
		done()
	}
}

func (e *Engine) pumpRx() {
	for e.rxActive && e.u.Buffered() > 0 {
		b, err := e.u.ReadByte()
		if err != nil {
			return
		}
		if !e.rxPut(b) {
			e.rxPut = nil
			e.rxActive = false
			return
		}
	}
}
