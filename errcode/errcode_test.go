package errcode

import (
	"errors"
	"testing"
)

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil error must map to OK")
	}
	if Of(Busy) != Busy {
		t.Fatal("bare code must map to itself")
	}
	if Of(&E{C: HardwareNotReady, Op: "counter"}) != HardwareNotReady {
		t.Fatal("wrapped code lost")
	}
	if Of(errors.New("boom")) != Error {
		t.Fatal("foreign error must map to the generic code")
	}
}

func TestE_Unwrap(t *testing.T) {
	cause := Busy
	err := &E{C: Busy, Op: "tx", Msg: "outstanding", Err: cause}
	if !errors.Is(err, Busy) {
		t.Fatal("errors.Is must reach the cause")
	}
	if err.Error() != "tx: busy: outstanding" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if (&E{C: Busy}).Error() != "busy" {
		t.Fatal("bare E must render the code alone")
	}
}

func TestE_ErrorKeepsOp(t *testing.T) {
	err := &E{C: HardwareNotReady, Op: "blink_timer"}
	if err.Error() != "blink_timer: hardware_not_ready" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
