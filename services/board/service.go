// services/board/service.go

// Package board runs the platform's main loop as a service and exposes
// it on the bus: retained state documents, button and serial events
// out, blink and transmit control verbs in.
package board

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Lolfaceftw/eee158-module-06/bus"
	"github.com/Lolfaceftw/eee158-module-06/errcode"
	"github.com/Lolfaceftw/eee158-module-06/platform"
	"github.com/Lolfaceftw/eee158-module-06/types"
)

const rxBufLen = 64

var (
	topicState       = bus.Topic{"board", "state"}
	topicBlinkState  = bus.Topic{"board", "blink", "state"}
	topicButtonEvent = bus.Topic{"board", "button", "event"}
	topicSerialEvent = bus.Topic{"board", "serial", "event"}
	topicCtrl        = bus.Topic{"board", bus.WildcardOne, "control", bus.WildcardOne}
)

type Service struct {
	conn *bus.Connection
	plat *platform.Platform
	poll time.Duration

	rxBuf  [rxBufLen]byte
	rxDesc *platform.RxDescriptor

	// txHeld keeps enqueued buffers alive until the channel reports
	// the transmission finished.
	txHeld [][]byte
}

// New builds the service around an uninitialized platform. pollEvery
// is the main-loop cadence; it stands in for the bare-metal infinite
// loop.
func New(conn *bus.Connection, plat *platform.Platform, pollEvery time.Duration) *Service {
	if pollEvery <= 0 {
		pollEvery = time.Millisecond
	}
	return &Service{conn: conn, plat: plat, poll: pollEvery}
}

func (s *Service) Run(ctx context.Context) {
	// Subscribe before announcing readiness so no control verb can
	// slip past between the state publish and the subscription.
	ctrlSub := s.conn.Subscribe(topicCtrl)
	defer s.conn.Unsubscribe(ctrlSub)

	if err := s.plat.Init(); err != nil {
		s.publishState("error", "bringup_failed", err)
		return
	}
	s.publishState("ready", "configured", nil)
	s.publishBlinkState()
	s.armRx()

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled", nil)
			return
		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)
		case <-ticker.C:
			s.pump()
		}
	}
}

// pump is one pass of the board main loop.
func (s *Service) pump() {
	s.plat.LoopOnce()
	s.plat.RefreshBlink()

	if m := s.plat.ButtonEvents(); m != 0 {
		t := s.plat.TickCount()
		s.conn.Publish(s.conn.NewMessage(topicButtonEvent, types.ButtonEvent{
			Press:   m.Pressed(),
			Release: m.Released(),
			TSec:    t.Sec,
			TNsec:   t.Nsec,
		}, false))
	}

	if s.rxDesc == nil {
		// A previous arm was rejected (engine not ready or still
		// draining); keep retrying rather than leaving the line deaf.
		s.armRx()
	} else if c, n := s.rxDesc.Completion(); c == platform.RxCompletionData {
		data := append([]byte(nil), s.rxBuf[:n]...)
		s.conn.Publish(s.conn.NewMessage(topicSerialEvent, types.SerialRxEvent{Data: data}, false))
		s.armRx()
	}

	if s.txHeld != nil && !s.plat.TxBusy() {
		s.txHeld = nil
	}
}

func (s *Service) armRx() {
	s.rxDesc = &platform.RxDescriptor{Buf: s.rxBuf[:]}
	if !s.plat.RxEnqueue(s.rxDesc) {
		s.rxDesc = nil
	}
}

func (s *Service) handleControl(msg *bus.Message) {
	// board/<facility>/control/<verb>
	if len(msg.Topic) < 4 {
		s.replyErr(msg, errcode.InvalidTopic)
		return
	}
	facility, verb := msg.Topic[1], msg.Topic[3]

	switch {
	case facility == "blink" && verb == "set_mode":
		var req types.BlinkSetRequest
		if err := decodeJSON(msg.Payload, &req); err != nil {
			s.replyErr(msg, errcode.InvalidParams)
			return
		}
		mode, ok := platform.ParseBlinkMode(req.Mode)
		if !ok {
			s.replyErr(msg, errcode.InvalidParams)
			return
		}
		s.plat.SetBlinkMode(mode)
		s.publishBlinkState()
		s.replyOK(msg)

	case facility == "serial" && verb == "send":
		var req types.SerialTxRequest
		if err := decodeJSON(msg.Payload, &req); err != nil || len(req.Data) == 0 {
			s.replyErr(msg, errcode.InvalidParams)
			return
		}
		data := append([]byte(nil), req.Data...)
		if !s.plat.TxEnqueue([][]byte{data}) {
			s.replyErr(msg, errcode.Busy)
			return
		}
		s.txHeld = append(s.txHeld, data)
		s.replyOK(msg)

	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

// ---- helpers ----

func (s *Service) publishState(level, status string, err error) {
	st := types.PlatformState{Level: level, Status: status}
	if err != nil {
		st.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(topicState, st, true))
}

func (s *Service) publishBlinkState() {
	s.conn.Publish(s.conn.NewMessage(topicBlinkState,
		types.BlinkState{Mode: s.plat.BlinkMode().String()}, true))
}

func (s *Service) replyOK(req *bus.Message) {
	if len(req.ReplyTo) == 0 {
		return
	}
	s.conn.Reply(req, types.OKReply{OK: true}, false)
}

func (s *Service) replyErr(req *bus.Message, code errcode.Code) {
	if len(req.ReplyTo) == 0 {
		return
	}
	s.conn.Reply(req, types.ErrorReply{OK: false, Error: string(code)}, false)
}

func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case T:
		*dst = v
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
