package platform

import (
	"testing"

	"github.com/Lolfaceftw/eee158-module-06/errcode"
	"github.com/Lolfaceftw/eee158-module-06/platform/sim"
)

func newReadyPlatform(t *testing.T) (*Platform, *sim.Board) {
	t.Helper()
	b := sim.NewBoard()
	p := New(b.HW(), Config{})
	if err := p.Init(); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	return p, b
}

func TestPlatform_InitConfiguresBoard(t *testing.T) {
	_, b := newReadyPlatform(t)

	if !b.Led.IsOutput() || b.Led.Get() {
		t.Fatal("indicator must come up as a low output")
	}
	if !b.AuxOut.IsOutput() || !b.AuxOut.Get() {
		t.Fatal("aux output must come up high")
	}
	if b.AuxIn.IsOutput() {
		t.Fatal("aux input must be configured as input")
	}
	if cfg := b.Serial.Config(); cfg.Baud != 115200 || cfg.DataBits != 8 || cfg.StopBits != 1 {
		t.Fatalf("serial configured as %+v, want 115200 8N1", cfg)
	}
	if deb := b.Button.Debounce(); deb.PrescalerHz != 15_625 || deb.Samples != 4 {
		t.Fatalf("debounce configured as %+v", deb)
	}
}

func TestPlatform_InitTwiceIsRejected(t *testing.T) {
	p, _ := newReadyPlatform(t)
	err := p.Init()
	if err == nil {
		t.Fatal("second Init must fail")
	}
	if errcode.Of(err) != errcode.PreconditionViolated {
		t.Fatalf("code = %v, want PreconditionViolated", errcode.Of(err))
	}
}

func TestPlatform_InitRetriesSlowPeripheral(t *testing.T) {
	b := sim.NewBoard()
	b.Counter.FailEnable(3) // comes up on the fourth attempt
	p := New(b.HW(), Config{})
	if err := p.Init(); err != nil {
		t.Fatalf("Init must ride out a slow peripheral: %v", err)
	}
}

func TestPlatform_InitGivesUpOnStuckPeripheral(t *testing.T) {
	b := sim.NewBoard()
	b.Timer.FailEnable(1000)
	p := New(b.HW(), Config{ReadyAttempts: 5})
	err := p.Init()
	if err == nil {
		t.Fatal("Init must fail when a peripheral never comes up")
	}
	if errcode.Of(err) != errcode.HardwareNotReady {
		t.Fatalf("code = %v, want HardwareNotReady", errcode.Of(err))
	}
}

func TestPlatform_TickCountTracksCounter(t *testing.T) {
	p, b := newReadyPlatform(t)

	b.Counter.Set(200) // 200 counts at 200 Hz: exactly one second
	if got := p.TickCount(); got != (Tick{Sec: 1}) {
		t.Fatalf("TickCount = %+v, want {1 0}", got)
	}

	later := p.TickCount()
	b.Counter.Advance(100) // +500 ms
	d := p.TickDelta(p.TickCount(), later)
	if d != (Tick{Nsec: 500_000_000}) {
		t.Fatalf("TickDelta = %+v, want {0 500000000}", d)
	}
}

func TestPlatform_ButtonEventsAccumulate(t *testing.T) {
	p, b := newReadyPlatform(t)

	b.Button.SetLevel(false) // active-low press
	b.Button.SetLevel(true)  // release
	m := p.ButtonEvents()
	if m != ButtonPress|ButtonRelease {
		t.Fatalf("ButtonEvents = %#x, want press|release", m)
	}
	if m = p.ButtonEvents(); m != 0 {
		t.Fatalf("second read = %#x, want empty", m)
	}
}

func TestPlatform_BlinkModeDrivesIndicator(t *testing.T) {
	p, b := newReadyPlatform(t)

	p.SetBlinkMode(BlinkOn)
	if !b.Led.Get() {
		t.Fatal("BlinkOn must light the indicator immediately")
	}

	p.SetBlinkMode(BlinkMedium)
	if p.BlinkMode() != BlinkMedium {
		t.Fatalf("BlinkMode = %v, want medium", p.BlinkMode())
	}
	// Medium: period 11719, threshold 9375.
	b.Timer.SetCount(9000)
	p.RefreshBlink()
	if b.Led.Get() {
		t.Fatal("count below threshold must be inactive")
	}
	b.Timer.SetCount(10000)
	p.RefreshBlink()
	if !b.Led.Get() {
		t.Fatal("count past threshold must be active")
	}
	if b.Timer.Top() != 11719 {
		t.Fatalf("timer top = %d, want 11719", b.Timer.Top())
	}
}

func TestPlatform_LoopOnceServicesSerial(t *testing.T) {
	p, b := newReadyPlatform(t)

	var buf [16]byte
	d := &RxDescriptor{Buf: buf[:]}
	if !p.RxEnqueue(d) {
		t.Fatal("RxEnqueue rejected")
	}

	b.Serial.PutRx([]byte("ping"))
	p.LoopOnce() // records progress

	b.HR.Advance(40_000) // 40 ms of idle at 1 MHz
	p.LoopOnce()

	c, n := d.Completion()
	if c != RxCompletionData || n != 4 {
		t.Fatalf("completion = %v/%d, want Data/4", c, n)
	}
	if string(buf[:n]) != "ping" {
		t.Fatalf("captured %q, want %q", buf[:n], "ping")
	}
	if p.RxBusy() {
		t.Fatal("RxBusy must clear after completion")
	}
}

func TestPlatform_TxRoundTrip(t *testing.T) {
	p, b := newReadyPlatform(t)

	if !p.TxEnqueue([][]byte{[]byte("EEE "), []byte("158")}) {
		t.Fatal("TxEnqueue rejected")
	}
	if !p.TxBusy() {
		t.Fatal("TxBusy must be true while pending")
	}
	b.Serial.FinishTx()
	if p.TxBusy() {
		t.Fatal("TxBusy must clear on completion")
	}
	if got := string(b.Serial.Sent()); got != "EEE 158" {
		t.Fatalf("sent %q, want %q", got, "EEE 158")
	}
}

func TestConfig_ZeroValueGetsDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Serial.Baud != 115200 || cfg.Serial.DataBits != 8 || cfg.Serial.StopBits != 1 {
		t.Fatalf("serial defaults wrong: %+v", cfg.Serial)
	}
	if cfg.RxIdleNs != 30_000_000 {
		t.Fatalf("RxIdleNs = %d, want 30 ms", cfg.RxIdleNs)
	}
	if cfg.ReadyAttempts != 10 {
		t.Fatalf("ReadyAttempts = %d, want 10", cfg.ReadyAttempts)
	}
	if cfg.Blink == nil {
		t.Fatal("blink table must default")
	}
}

func TestConfig_ClampsOutOfRangeValues(t *testing.T) {
	cfg := Config{RxIdleNs: 5, ReadyAttempts: 10_000}.withDefaults()
	if cfg.RxIdleNs != 1_000_000 {
		t.Fatalf("RxIdleNs = %d, want clamped to 1 ms", cfg.RxIdleNs)
	}
	if cfg.ReadyAttempts != 100 {
		t.Fatalf("ReadyAttempts = %d, want clamped to 100", cfg.ReadyAttempts)
	}
}
