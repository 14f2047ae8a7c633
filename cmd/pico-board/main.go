//go:build rp2040

// pico-board brings the platform up on a Raspberry Pi Pico: UART0
// through tinygo-uartx as the serial channel, the onboard LED as the
// blink indicator, and a pushbutton on GP15 against ground. Button
// presses cycle the blink mode and completed receptions are echoed
// back out, mirroring the original firmware's demo loop.
package main

import (
	"context"
	"machine"
	"time"

	"tinygo.org/x/drivers"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"github.com/Lolfaceftw/eee158-module-06/bus"
	"github.com/Lolfaceftw/eee158-module-06/platform"
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
	"github.com/Lolfaceftw/eee158-module-06/platform/swclock"
	"github.com/Lolfaceftw/eee158-module-06/platform/uarteng"
	"github.com/Lolfaceftw/eee158-module-06/services/board"
	"github.com/Lolfaceftw/eee158-module-06/types"
	"github.com/Lolfaceftw/eee158-module-06/x/conv"
)

// uartDriver bridges uartx's machine-flavored config to the
// tinygo.org/x/drivers UART contract uarteng expects. Writes go
// through TryWrite so the pump never blocks on a full FIFO.
type uartDriver struct {
	u *uartx.UART
}

func (d *uartDriver) Configure(cfg drivers.UARTConfig) error {
	return d.u.Configure(uartx.UARTConfig{
		BaudRate: cfg.BaudRate,
		TX:       uartx.UART_TX_PIN,
		RX:       uartx.UART_RX_PIN,
	})
}

func (d *uartDriver) Buffered() int           { return d.u.Buffered() }
func (d *uartDriver) ReadByte() (byte, error) { return d.u.ReadByte() }
func (d *uartDriver) Write(p []byte) (int, error) {
	return d.u.TryWrite(p), nil
}

func main() {
	// Let USB CDC enumerate before printing.
	time.Sleep(2 * time.Second)
	println("[pico] boot")

	brd := hw.Board{
		Counter:    swclock.NewCounter(200, 1<<24),
		HRCounter:  swclock.NewCounter(1_000_000, 1<<30),
		BlinkTimer: swclock.NewCompareTimer(19_531),
		Led:        &machinePin{p: machine.LED},
		Button:     newMachineEdge(machine.GP15, hw.PullUp),
		Serial:     uarteng.New(&uartDriver{u: uartx.UART0}),
		AuxOut:     &machinePin{p: machine.GP14},
		AuxIn:      &machinePin{p: machine.GP13},
	}
	plat := platform.New(brd, platform.Config{})

	b := bus.NewBus(8)
	ctx := context.Background()
	go board.New(b.NewConnection("board"), plat, time.Millisecond).Run(ctx)

	ui := b.NewConnection("ui")
	stateSub := ui.Subscribe(bus.Topic{"board", "state"})
	buttonSub := ui.Subscribe(bus.Topic{"board", "button", "event"})
	serialSub := ui.Subscribe(bus.Topic{"board", "serial", "event"})

	for m := range stateSub.Channel() {
		st, ok := m.Payload.(types.PlatformState)
		if !ok {
			continue
		}
		if st.Level == "ready" {
			break
		}
		if st.Level == "error" {
			println("[pico] bring-up failed:", st.Error)
			return
		}
	}
	println("[pico] ready")

	modes := []string{"off", "slow", "medium", "fast", "on"}
	next := 1
	var numBuf [20]byte

	for {
		select {
		case m := <-buttonSub.Channel():
			ev, ok := m.Payload.(types.ButtonEvent)
			if !ok || !ev.Press {
				continue
			}
			mode := modes[next%len(modes)]
			next++
			req := ui.NewMessage(bus.Topic{"board", "blink", "control", "set_mode"},
				types.BlinkSetRequest{Mode: mode}, false)
			ui.Publish(req)
			print("[pico] t=")
			println(string(conv.Utoa(numBuf[:], uint64(ev.TSec))), "s press, mode", mode)

		case m := <-serialSub.Channel():
			ev, ok := m.Payload.(types.SerialRxEvent)
			if !ok {
				continue
			}
			// Echo the completed reception back out.
			req := ui.NewMessage(bus.Topic{"board", "serial", "control", "send"},
				types.SerialTxRequest{Data: ev.Data}, false)
			ui.Publish(req)
		}
	}
}
