package types

// Bus-facing payloads published by the board service. JSON tags are
// kept so a bridge can forward them off-board unchanged.

// PlatformState is the retained service state document.
type PlatformState struct {
	Level  string `json:"level"`  // "idle", "ready", "stopped", "error"
	Status string `json:"status"` // freeform short code
	Error  string `json:"error,omitempty"`
}

// ButtonEvent reports pushbutton activity consumed from the platform's
// read-and-clear mask. Both flags may be set when a press and a
// release accumulated between polls.
type ButtonEvent struct {
	Press   bool   `json:"press"`
	Release bool   `json:"release"`
	TSec    uint32 `json:"t_sec"`
	TNsec   uint32 `json:"t_nsec"`
}

// BlinkState is the retained indicator state.
type BlinkState struct {
	Mode string `json:"mode"` // "off", "slow", "medium", "fast", "on"
}

// SerialRxEvent carries one completed reception.
type SerialRxEvent struct {
	Data []byte `json:"data"`
}

// SerialTxRequest is the control payload for the "send" verb.
type SerialTxRequest struct {
	Data []byte `json:"data"`
}

// BlinkSetRequest is the control payload for the "set_mode" verb.
type BlinkSetRequest struct {
	Mode string `json:"mode"`
}

// OKReply / ErrorReply are the generic control replies.
type OKReply struct {
	OK bool `json:"ok"`
}

type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
