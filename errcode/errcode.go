package errcode

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Busy: a same-direction serial operation is still outstanding.
	// A normal, retryable outcome, not a fault.
	Busy Code = "busy"

	// HardwareNotReady: a bring-up readiness wait exhausted its retry
	// budget. Initialization failed observably instead of hanging.
	HardwareNotReady Code = "hardware_not_ready"

	// PreconditionViolated: the caller broke a documented contract,
	// e.g. initializing twice.
	PreconditionViolated Code = "precondition_violated"

	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"
	InvalidTopic  Code = "invalid_topic"

	Error Code = "error" // generic fallback
)

// E keeps context and a cause alongside a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
