// Package control handles the remote input protocol and maps it onto synth.
package control

// Rect represents a rectangle sent by the client UI, in display pixels.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Message types accepted on the control channels.
const (
	MsgMove         = "move"
	MsgMoveRel      = "moveRel"
	MsgMovePx       = "movePx"
	MsgDown         = "down"
	MsgUp           = "up"
	MsgClick        = "click"
	MsgDblClick     = "dblclick"
	MsgDrag         = "drag"
	MsgScroll       = "scroll"
	MsgScrollPx     = "scrollPx"
	MsgKey          = "key"
	MsgKeyDown      = "keyDown"
	MsgKeyUp        = "keyUp"
	MsgChord        = "chord"
	MsgType         = "type"
	MsgSync         = "sync"
	MsgSetDisplay   = "setDisplay"
	MsgSetRegion    = "setRegion"
	MsgInputEnabled = "inputEnabled"
	MsgPtrDown      = "ptrDown"
	MsgPtrMove      = "ptrMove"
	MsgPtrUp        = "ptrUp"
)

// Message is a control payload. X and Y are normalized to [0,1] over the
// selected display or region, except for movePx where they are pixels.
type Message struct {
	T       string   `json:"t"`
	Seq     int      `json:"seq,omitempty"`
	ID      int      `json:"id,omitempty"`
	X       float64  `json:"x,omitempty"`
	Y       float64  `json:"y,omitempty"`
	X2      float64  `json:"x2,omitempty"`
	Y2      float64  `json:"y2,omitempty"`
	DX      int      `json:"dx,omitempty"`
	DY      int      `json:"dy,omitempty"`
	Button  string   `json:"button,omitempty"`
	Code    int      `json:"code,omitempty"`
	Key     string   `json:"key,omitempty"`
	Mods    []string `json:"mods,omitempty"`
	Text    string   `json:"text,omitempty"`
	Idx     int      `json:"idx,omitempty"`
	Rect    *Rect    `json:"rect,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
}

// Reply types.
const (
	ReplyAck   = "ack"
	ReplyError = "error"
)

// Reply answers a message. X and Y carry the tracked logical cursor.
type Reply struct {
	T       string `json:"t"`
	Seq     int    `json:"seq,omitempty"`
	Error   string `json:"error,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Dropped bool   `json:"dropped,omitempty"`
}
