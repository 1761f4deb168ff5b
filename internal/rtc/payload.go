package rtc

import (
	"encoding/json"

	"github.com/frudas24/deskinput/internal/control"
)

// handlePayload decodes one control message, applies it and returns the
// encoded reply. Unsequenced acks are not answered.
func handlePayload(h ControlHandler, data []byte) ([]byte, bool) {
	var msg control.Message
	var reply control.Reply
	if err := json.Unmarshal(data, &msg); err != nil {
		reply = control.Reply{T: control.ReplyError, Error: "bad message: " + err.Error()}
	} else {
		reply = h.Handle(msg)
		if msg.Seq == 0 && reply.T == control.ReplyAck {
			return nil, false
		}
	}
	out, err := json.Marshal(reply)
	if err != nil {
		return nil, false
	}
	return out, true
}
