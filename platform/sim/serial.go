// platform/sim/serial.go
package sim

import (
	"sync"

	"github.com/Lolfaceftw/eee158-module-06/errcode"
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
)

// SerialEngine implements hw.AsyncSerialEngine in memory. Transmissions
// are held until the test calls FinishTx, so busy/abort windows can be
// observed deterministically; receptions are scripted with PutRx.
type SerialEngine struct {
	mu       sync.Mutex
	cfg      hw.SerialConfig
	notReady int

	txFrags  [][]byte
	txDone   func()
	txActive bool

	rxPut    func(b byte) bool
	rxActive bool

	// Sent accumulates the bytes of every finished transmission.
	sent []byte
}

func NewSerialEngine() *SerialEngine { return &SerialEngine{} }

func (s *SerialEngine) FailConfigure(n int) {
	s.mu.Lock()
	s.notReady = n
	s.mu.Unlock()
}

func (s *SerialEngine) Configure(cfg hw.SerialConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notReady > 0 {
		s.notReady--
		return errcode.HardwareNotReady
	}
	s.cfg = cfg
	return nil
}

func (s *SerialEngine) Config() hw.SerialConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *SerialEngine) StartTx(frags [][]byte, done func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.txActive {
		return errcode.Busy
	}
	s.txFrags = frags
	s.txDone = done
	s.txActive = true
	return nil
}

// FinishTx flattens the pending fragments into Sent and invokes the
// completion callback, standing in for the TX-complete interrupt.
func (s *SerialEngine) FinishTx() {
	s.mu.Lock()
	if !s.txActive {
		s.mu.Unlock()
		return
	}
	for _, f := range s.txFrags {
		s.sent = append(s.sent, f...)
	}
	done := s.txDone
	s.txFrags = nil
	s.txDone = nil
	s.txActive = false
	s.mu.Unlock()
	if done != nil {
		done()
	}
}

func (s *SerialEngine) AbortTx() {
	s.mu.Lock()
	s.txFrags = nil
	s.txDone = nil
	s.txActive = false
	s.mu.Unlock()
}

func (s *SerialEngine) TxPending() bool {
	s.mu.Lock()
	v := s.txActive
	s.mu.Unlock()
	return v
}

// Sent returns all bytes transmitted so far.
func (s *SerialEngine) Sent() []byte {
	s.mu.Lock()
	out := append([]byte(nil), s.sent...)
	s.mu.Unlock()
	return out
}

func (s *SerialEngine) StartRx(put func(b byte) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rxActive {
		return errcode.Busy
	}
	s.rxPut = put
	s.rxActive = true
	return nil
}

func (s *SerialEngine) AbortRx() {
	s.mu.Lock()
	s.rxPut = nil
	s.rxActive = false
	s.mu.Unlock()
}

func (s *SerialEngine) RxArmed() bool {
	s.mu.Lock()
	v := s.rxActive
	s.mu.Unlock()
	return v
}

// PutRx delivers bytes to the armed receiver, one at a time, the way
// the receive interrupt would. Delivery stops early if the sink
// reports it is full. Returns the number of bytes accepted.
func (s *SerialEngine) PutRx(p []byte) int {
	s.mu.Lock()
	put := s.rxPut
	active := s.rxActive
	s.mu.Unlock()
	if !active || put == nil {
		return 0
	}
	n := 0
	for _, b := range p {
		n++
		if !put(b) {
			break
		}
	}
	return n
}
