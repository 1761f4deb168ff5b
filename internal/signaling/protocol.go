// Package signaling exchanges SDP and ICE for the control data channel.
package signaling

import "github.com/pion/webrtc/v3"

// Message types carried in Message.T.
const (
	TypeOffer  = "offer"
	TypeAnswer = "answer"
	TypeICE    = "ice"
	TypeBye    = "bye"
	TypeError  = "error"
)

// Message is one JSON frame on the signaling socket. Offers and answers carry
// SDP, trickled candidates carry Candidate and server failures carry Error.
type Message struct {
	T         string                   `json:"t"`
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// errorMessage builds the frame sent before the server drops a session.
func errorMessage(err error) Message {
	return Message{T: TypeError, Error: err.Error()}
}
