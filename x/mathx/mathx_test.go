package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 1, 10); got != 5 {
		t.Fatalf("Clamp(5,1,10) = %d", got)
	}
	if got := Clamp(0, 1, 10); got != 1 {
		t.Fatalf("Clamp(0,1,10) = %d", got)
	}
	if got := Clamp(11, 1, 10); got != 10 {
		t.Fatalf("Clamp(11,1,10) = %d", got)
	}
	// swapped bounds
	if got := Clamp(0, 10, 1); got != 1 {
		t.Fatalf("Clamp(0,10,1) = %d", got)
	}
	if got := Clamp(2.5, 0.0, 1.0); got != 1.0 {
		t.Fatalf("Clamp(2.5,0,1) = %v", got)
	}
}

func TestMin(t *testing.T) {
	if got := Min(3, 7); got != 3 {
		t.Fatalf("Min(3,7) = %d", got)
	}
	if got := Min("b", "a"); got != "a" {
		t.Fatalf("Min(b,a) = %q", got)
	}
}
