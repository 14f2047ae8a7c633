// cmd/hostbridge/main.go

// hostbridge runs the platform against a real serial device from the
// host side: the asynchronous channel is backed by a tarm/serial port
// while the counters run on the wall clock and the button and LED stay
// simulated. Lines typed on stdin are transmitted; completed
// receptions are printed with a byte count and a 16-bit checksum.
//
// Usage: hostbridge <device> [baud]
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tarm/serial"

	"github.com/Lolfaceftw/eee158-module-06/bus"
	"github.com/Lolfaceftw/eee158-module-06/platform"
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
	"github.com/Lolfaceftw/eee158-module-06/platform/porteng"
	"github.com/Lolfaceftw/eee158-module-06/platform/sim"
	"github.com/Lolfaceftw/eee158-module-06/platform/swclock"
	"github.com/Lolfaceftw/eee158-module-06/services/board"
	"github.com/Lolfaceftw/eee158-module-06/types"
	"github.com/Lolfaceftw/eee158-module-06/x/conv"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: hostbridge <device> [baud]")
		os.Exit(2)
	}
	baud := 115200
	if len(os.Args) > 2 {
		b, err := strconv.Atoi(os.Args[2])
		if err != nil || b <= 0 {
			fmt.Fprintf(os.Stderr, "bad baud %q\n", os.Args[2])
			os.Exit(2)
		}
		baud = b
	}

	// The short read timeout keeps the engine pump from stalling the
	// platform loop.
	port, err := serial.OpenPort(&serial.Config{
		Name:        os.Args[1],
		Baud:        baud,
		ReadTimeout: time.Millisecond,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	defer port.Close()

	brd := hw.Board{
		Counter:    swclock.NewCounter(200, 1<<24),
		HRCounter:  swclock.NewCounter(1_000_000, 1<<30),
		BlinkTimer: swclock.NewCompareTimer(19_531),
		Led:        sim.NewPin(),
		Button:     sim.NewEdgeSource(true),
		Serial:     porteng.New(port),
	}
	plat := platform.New(brd, platform.Config{
		Serial: hw.SerialConfig{Baud: uint32(baud)},
	})

	b := bus.NewBus(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go board.New(b.NewConnection("board"), plat, time.Millisecond).Run(ctx)

	ui := b.NewConnection("ui")
	stateSub := ui.Subscribe(bus.Topic{"board", "state"})
	serialSub := ui.Subscribe(bus.Topic{"board", "serial", "event"})

	for m := range stateSub.Channel() {
		st, ok := m.Payload.(types.PlatformState)
		if !ok {
			continue
		}
		if st.Level == "error" {
			fmt.Fprintf(os.Stderr, "bring-up failed: %s\n", st.Error)
			os.Exit(1)
		}
		if st.Level == "ready" {
			break
		}
	}
	fmt.Printf("bridged %s at %d baud\n", os.Args[1], baud)

	go func() {
		var hexBuf [4]byte
		for m := range serialSub.Channel() {
			ev, ok := m.Payload.(types.SerialRxEvent)
			if !ok {
				continue
			}
			var sum uint16
			for _, c := range ev.Data {
				sum += uint16(c)
			}
			fmt.Printf("rx %3d bytes  sum=%s  %q\n",
				len(ev.Data), conv.U16Hex(hexBuf[:], sum), ev.Data)
		}
	}()

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := append(sc.Bytes(), '\r', '\n')
		req := ui.NewMessage(bus.Topic{"board", "serial", "control", "send"},
			types.SerialTxRequest{Data: append([]byte(nil), line...)}, false)
		reqCtx, cancelReq := context.WithTimeout(ctx, time.Second)
		reply, err := ui.RequestWait(reqCtx, req)
		cancelReq()
		if err != nil {
			fmt.Fprintln(os.Stderr, "send timeout")
			continue
		}
		if er, isErr := reply.Payload.(types.ErrorReply); isErr {
			fmt.Fprintf(os.Stderr, "send rejected: %s\n", er.Error)
		}
	}
}
