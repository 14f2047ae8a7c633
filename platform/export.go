// platform/export.go

package platform

import (
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/blink"
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/button"
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/serial"
	"github.com/Lolfaceftw/eee158-module-06/platform/internal/tick"
)

// Re-exported facility types, so callers never import the internal
// packages directly.
type (
	Tick = tick.Tick

	ButtonMask = button.Mask

	BlinkMode  = blink.Mode
	BlinkEntry = blink.Entry
	BlinkTable = blink.Table

	RxDescriptor = serial.RxDescriptor
	RxCompletion = serial.Completion
)

const (
	ButtonPress   = button.Press
	ButtonRelease = button.Release

	BlinkOff    = blink.Off
	BlinkSlow   = blink.Slow
	BlinkMedium = blink.Medium
	BlinkFast   = blink.Fast
	BlinkOn     = blink.On

	RxCompletionNone  = serial.CompletionNone
	RxCompletionData  = serial.CompletionData
	RxCompletionBreak = serial.CompletionBreak
)

// DefaultBlinkTable holds the evaluation board's blink rates.
var DefaultBlinkTable = blink.DefaultTable

// ParseBlinkMode maps a mode name ("off", "slow", "medium", "fast",
// "on") to its BlinkMode.
func ParseBlinkMode(s string) (BlinkMode, bool) { return blink.ParseMode(s) }

// TickCompare orders two ticks numerically, ignoring wraparound.
func TickCompare(lhs, rhs Tick) int { return tick.Compare(lhs, rhs) }
