// platform/config.go
package platform

import (
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/blink"
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/tick"
	"github.com/Lolfaceftw/eee158-module-06/x/mathx"
)

// Config centralises the platform's timings and limits. The zero value
// is usable; missing fields are filled with the evaluation board's
// defaults and clamped to sane ranges.
type Config struct {
	// Serial is the channel format. Default 115200 8N1.
	Serial hw.SerialConfig

	// Debounce is applied to the button's edge source once during
	// bring-up. Default: 15.625 kHz prescaler, 4 agreeing samples,
	// suitable for mechanical switches.
	Debounce hw.DebounceConfig

	// Blink overrides the mode table. Default blink.DefaultTable.
	Blink blink.Table

	// RxIdleNs is the RX gap, in nanoseconds, after which a partial
	// reception completes. Clamped to [1ms, 1s]. Default 30 ms.
	RxIdleNs uint32

	// ReadyAttempts bounds every bring-up readiness wait. Clamped to
	// [1, 100]. Default 10.
	ReadyAttempts int
}

const (
	defaultBaud     = 115200
	defaultRxIdleNs = 30_000_000
	defaultAttempts = 10
)

func (c Config) withDefaults() Config {
	if c.Serial.Baud == 0 {
		c.Serial.Baud = defaultBaud
	}
	if c.Serial.DataBits == 0 {
		c.Serial.DataBits = 8
	}
	if c.Serial.StopBits == 0 {
		c.Serial.StopBits = 1
	}
	if c.Debounce.PrescalerHz == 0 {
		c.Debounce.PrescalerHz = 15_625
	}
	if c.Debounce.Samples == 0 {
		c.Debounce.Samples = 4
	}
	if c.Blink == nil {
		c.Blink = blink.DefaultTable
	}
	if c.RxIdleNs == 0 {
		c.RxIdleNs = defaultRxIdleNs
	}
	c.RxIdleNs = mathx.Clamp(c.RxIdleNs, 1_000_000, 1_000_000_000)
	if c.ReadyAttempts == 0 {
		c.ReadyAttempts = defaultAttempts
	}
	c.ReadyAttempts = mathx.Clamp(c.ReadyAttempts, 1, 100)
	return c
}

func (c Config) rxIdle() tick.Tick {
	return tick.Tick{Sec: 0, Nsec: c.RxIdleNs}
}
