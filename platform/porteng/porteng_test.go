package porteng

import (
	"errors"
	"testing"
)

// fake port: Read returns queued bytes or times out empty, Write
// accepts everything.

type fakePort struct {
	rx      []byte
	written []byte

	// wErrAfter, when set, faults writes once that many total bytes
	// have been accepted.
	wErrAfter int
}

func (p *fakePort) Read(buf []byte) (int, error) {
	if len(p.rx) == 0 {
		return 0, errors.New("timeout")
	}
	n := copy(buf, p.rx)
	p.rx = p.rx[n:]
	return n, nil
}

func (p *fakePort) Write(buf []byte) (int, error) {
	if p.wErrAfter > 0 {
		room := p.wErrAfter - len(p.written)
		if room <= 0 {
			return 0, errors.New("port gone")
		}
		if len(buf) > room {
			buf = buf[:room]
		}
	}
	p.written = append(p.written, buf...)
	return len(buf), nil
}

var _ Port = (*fakePort)(nil)

func TestEngine_TxWritesAllFragments(t *testing.T) {
	p := &fakePort{}
	e := New(p)

	done := false
	if err := e.StartTx([][]byte{[]byte("a"), []byte("bc")}, func() { done = true }); err != nil {
		t.Fatalf("StartTx error: %v", err)
	}
	e.Pump()
	if !done {
		t.Fatal("done callback not invoked")
	}
	if string(p.written) != "abc" {
		t.Fatalf("wrote %q, want %q", p.written, "abc")
	}
}

func TestEngine_TxRejectedWhileActive(t *testing.T) {
	e := New(&fakePort{})
	e.StartTx([][]byte{[]byte("x")}, nil)
	if err := e.StartTx([][]byte{[]byte("y")}, nil); err == nil {
		t.Fatal("second StartTx must be rejected")
	}
}

func TestEngine_TxFaultDropsRemainingFragments(t *testing.T) {
	p := &fakePort{wErrAfter: 2}
	e := New(p)

	done := false
	e.StartTx([][]byte{[]byte("abcd"), []byte("ef")}, func() { done = true })
	e.Pump()

	if !done {
		t.Fatal("done must release the buffers after a fault")
	}
	// The fault hit mid-fragment; neither the rest of it nor the
	// second fragment may go out around the hole.
	if string(p.written) != "ab" {
		t.Fatalf("wrote %q, want %q only", p.written, "ab")
	}
	if err := e.StartTx([][]byte{[]byte("ok")}, nil); err != nil {
		t.Fatalf("StartTx after fault: %v", err)
	}
}

func TestEngine_RxForwardsPortBytes(t *testing.T) {
	p := &fakePort{rx: []byte("hello")}
	e := New(p)

	var got []byte
	e.StartRx(func(b byte) bool { got = append(got, b); return true })
	e.Pump() // delivers the queued read
	e.Pump() // timed-out read is a no-op
	if string(got) != "hello" {
		t.Fatalf("delivered %q, want %q", got, "hello")
	}
}

func TestEngine_RxDisarmsWhenSinkFull(t *testing.T) {
	p := &fakePort{rx: []byte("abcdef")}
	e := New(p)

	var got []byte
	e.StartRx(func(b byte) bool {
		got = append(got, b)
		return len(got) < 3
	})
	e.Pump()
	if string(got) != "abc" {
		t.Fatalf("delivered %q, want %q", got, "abc")
	}
	if err := e.StartRx(func(byte) bool { return true }); err != nil {
		t.Fatalf("StartRx after self-disarm: %v", err)
	}
}
