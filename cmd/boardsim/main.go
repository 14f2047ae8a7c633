// cmd/boardsim/main.go

// boardsim runs the board service over the simulated evaluation board
// and scripts a short session against it: button presses cycle the
// blink mode, a command arrives over the serial line, and a transmit
// goes out. Everything is observed through the bus, the same way an
// application on real hardware would.
package main

import (
	"context"
	"time"

	"github.com/Lolfaceftw/eee158-module-06/bus"
	"github.com/Lolfaceftw/eee158-module-06/platform"
	"github.com/Lolfaceftw/eee158-module-06/platform/sim"
	"github.com/Lolfaceftw/eee158-module-06/services/board"
	"github.com/Lolfaceftw/eee158-module-06/types"
)

// modeCycle is the order button presses walk through, as on the
// original firmware.
var modeCycle = []string{"off", "slow", "medium", "fast", "on"}

func main() {
	println("[sim] boot")

	b := bus.NewBus(16)
	brd := sim.NewBoard()
	plat := platform.New(brd.HW(), platform.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go board.New(b.NewConnection("board"), plat, time.Millisecond).Run(ctx)

	// Advance the simulated counters in near real time.
	go runClocks(ctx, brd)

	ui := b.NewConnection("ui")
	stateSub := ui.Subscribe(bus.Topic{"board", "state"})
	blinkSub := ui.Subscribe(bus.Topic{"board", "blink", "state"})
	buttonSub := ui.Subscribe(bus.Topic{"board", "button", "event"})
	serialSub := ui.Subscribe(bus.Topic{"board", "serial", "event"})

	waitReady(stateSub)
	println("[sim] platform ready")

	// Button presses cycle the blink mode.
	go func() {
		next := 1
		for m := range buttonSub.Channel() {
			ev, ok := m.Payload.(types.ButtonEvent)
			if !ok || !ev.Press {
				continue
			}
			mode := modeCycle[next%len(modeCycle)]
			next++
			setMode(ui, mode)
		}
	}()
	go func() {
		for m := range blinkSub.Channel() {
			if st, ok := m.Payload.(types.BlinkState); ok {
				println("[sim] blink mode:", st.Mode)
			}
		}
	}()
	go func() {
		for m := range serialSub.Channel() {
			if ev, ok := m.Payload.(types.SerialRxEvent); ok {
				println("[sim] serial rx:", string(ev.Data))
			}
		}
	}()

	// Scripted session.
	press(brd)
	press(brd)

	brd.Serial.PutRx([]byte("status?"))
	time.Sleep(100 * time.Millisecond) // the 30 ms idle gap completes it

	send(ui, "led=fast\r\n")
	time.Sleep(50 * time.Millisecond)
	brd.Serial.FinishTx()
	println("[sim] serial tx:", string(brd.Serial.Sent()))

	press(brd)
	time.Sleep(200 * time.Millisecond)
	println("[sim] done")
}

func runClocks(ctx context.Context, brd *sim.Board) {
	tk := time.NewTicker(time.Millisecond)
	defer tk.Stop()
	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			brd.HR.Advance(1000) // 1 ms at 1 MHz
			n++
			if n%5 == 0 {
				brd.Counter.Advance(1) // 1 count per 5 ms at 200 Hz
			}
			// The blink compare timer free-runs at roughly 19.5 kHz.
			if top := brd.Timer.Top(); top != 0 {
				brd.Timer.SetCount((brd.Timer.Count() + 20) % top)
			}
		}
	}
}

func waitReady(sub *bus.Subscription) {
	for m := range sub.Channel() {
		if st, ok := m.Payload.(types.PlatformState); ok && st.Level == "ready" {
			return
		}
	}
}

func press(brd *sim.Board) {
	brd.Button.SetLevel(false)
	time.Sleep(30 * time.Millisecond)
	brd.Button.SetLevel(true)
	time.Sleep(30 * time.Millisecond)
}

func setMode(ui *bus.Connection, mode string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	req := ui.NewMessage(bus.Topic{"board", "blink", "control", "set_mode"},
		types.BlinkSetRequest{Mode: mode}, false)
	if _, err := ui.RequestWait(ctx, req); err != nil {
		println("[sim] set_mode failed:", err.Error())
	}
}

func send(ui *bus.Connection, s string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	req := ui.NewMessage(bus.Topic{"board", "serial", "control", "send"},
		types.SerialTxRequest{Data: []byte(s)}, false)
	if _, err := ui.RequestWait(ctx, req); err != nil {
		println("[sim] send failed:", err.Error())
	}
}
