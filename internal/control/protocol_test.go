package control

import (
	"encoding/json"
	"testing"
)

// TestProtocol_PointerMessage verifies decoding a pointer message.
func TestProtocol_PointerMessage(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"ptrDown","seq":4,"id":1,"x":0.5,"y":0.2,"button":"right"}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != MsgPtrDown || msg.Seq != 4 || msg.ID != 1 || msg.X != 0.5 || msg.Y != 0.2 || msg.Button != "right" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestProtocol_ChordMessage verifies modifiers and key decode together.
func TestProtocol_ChordMessage(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"chord","mods":["ctrl","shift"],"key":"t"}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != MsgChord || len(msg.Mods) != 2 || msg.Mods[1] != "shift" || msg.Key != "t" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestProtocol_InputEnabled verifies the optional flag distinguishes false from absent.
func TestProtocol_InputEnabled(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"inputEnabled","enabled":false}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.Enabled == nil || *msg.Enabled {
		t.Fatalf("expected enabled=false, got %+v", msg.Enabled)
	}
}

// TestProtocol_ReplyOmitsEmptyError verifies ack replies stay compact.
func TestProtocol_ReplyOmitsEmptyError(t *testing.T) {
	data, err := json.Marshal(Reply{T: ReplyAck, Seq: 2, X: 3, Y: 4})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"t":"ack","seq":2,"x":3,"y":4}` {
		t.Fatalf("unexpected reply %s", data)
	}
}
