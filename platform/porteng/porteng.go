// platform/porteng/porteng.go

// Package porteng adapts a host serial port (github.com/tarm/serial or
// anything with the same Read/Write shape) into the platform's
// asynchronous serial engine. Like uarteng it is a polled engine: the
// channel's loop service pumps it, so the port must be opened with a
// short read timeout to keep Pump from stalling the loop.
package porteng

import (
	"sync"

	"github.com/Lolfaceftw/eee158-module-06/errcode"
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
)

// Port is the slice of a host serial port the engine needs. A
// *serial.Port from tarm/serial satisfies it directly.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}

type Engine struct {
	mu sync.Mutex
	p  Port

	txFrags  [][]byte
	txFrag   int
	txOff    int
	txDone   func()
	txActive bool

	rxPut    func(b byte) bool
	rxActive bool

	rdBuf []byte
}

func New(p Port) *Engine {
	return &Engine{p: p, rdBuf: make([]byte, 256)}
}

// Configure is satisfied by the port itself: host ports carry their
// format from open time and cannot be re-framed here.
func (e *Engine) Configure(cfg hw.SerialConfig) error { return nil }

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

// Pump writes pending TX fragments and forwards one read's worth of
// port bytes to the armed sink. Polling domain only.
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
			n, err := e.p.Write(frag[e.txOff:])
			if err != nil {
				// Drop the whole remaining transmission on a port
				// fault; later fragments must not go out around the
				// hole.
				break loop
			}
			if n == 0 {
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
	if !e.rxActive {
		return
	}
	// One read per pump. A timed-out read returns n == 0 and the loop
	// comes back on the next pass.
	n, err := e.p.Read(e.rdBuf)
	if err != nil && n == 0 {
		return
	}
	for _, b := range e.rdBuf[:n] {
		if !e.rxPut(b) {
			e.rxPut = nil
			e.rxActive = false
			return
		}
	}
}
