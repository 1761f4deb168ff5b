package control

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/frudas24/deskinput/internal/input"
	"github.com/frudas24/deskinput/internal/synth"
)

// namedKeys maps key names to the characters whose keycodes they use.
var namedKeys = map[string]rune{
	"enter":  '\n',
	"return": '\n',
	"tab":    '\t',
	"space":  ' ',
}

// ParseKey resolves the key of a message: a raw code wins over a name.
func ParseKey(msg Message) (Key, error) {
	if msg.Code > 0 {
		return Key{Code: msg.Code}, nil
	}
	name := msg.Key
	if r, ok := namedKeys[strings.ToLower(name)]; ok {
		return Key{Rune: r}, nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return Key{Rune: r}, nil
	}
	return Key{}, fmt.Errorf("key %q: %w", name, input.ErrInvalidKey)
}

// Plan converts a stateless input message into actions for target. Pointer
// gesture messages are handled by GestureState instead.
func Plan(msg Message, t Target) ([]Action, error) {
	btn := input.ParseButton(msg.Button)
	switch msg.T {
	case MsgMove:
		p := t.NormToLogical(msg.X, msg.Y)
		return []Action{{Type: ActMove, X: p.X, Y: p.Y}}, nil
	case MsgMoveRel:
		return []Action{{Type: ActMoveRel, DX: msg.DX, DY: msg.DY, Cage: t.LogicalCage()}}, nil
	case MsgMovePx:
		return []Action{{Type: ActMovePx, X: int(msg.X), Y: int(msg.Y)}}, nil
	case MsgDown:
		return []Action{{Type: ActDown, Button: btn}}, nil
	case MsgUp:
		return []Action{{Type: ActUp, Button: btn}}, nil
	case MsgClick:
		return []Action{{Type: ActClick, Button: btn, Count: 1}}, nil
	case MsgDblClick:
		return []Action{{Type: ActClick, Button: btn, Count: 2}}, nil
	case MsgDrag:
		from := t.NormToLogical(msg.X, msg.Y)
		to := t.NormToLogical(msg.X2, msg.Y2)
		return []Action{{Type: ActDrag, X: from.X, Y: from.Y, X2: to.X, Y2: to.Y, Button: btn}}, nil
	case MsgScroll, MsgScrollPx:
		if msg.DX == 0 && msg.DY == 0 {
			return nil, nil
		}
		return []Action{{Type: ActScroll, DX: msg.DX, DY: msg.DY, Pixel: msg.T == MsgScrollPx}}, nil
	case MsgKey, MsgKeyDown, MsgKeyUp, MsgChord:
		key, err := ParseKey(msg)
		if err != nil {
			return nil, err
		}
		mods, err := synth.ParseModifiers(msg.Mods)
		if err != nil {
			return nil, err
		}
		kind := map[string]ActionType{MsgKey: ActKey, MsgKeyDown: ActKeyDown, MsgKeyUp: ActKeyUp, MsgChord: ActChord}[msg.T]
		return []Action{{Type: kind, Key: key, Mods: mods}}, nil
	case MsgType:
		if msg.Text == "" {
			return nil, nil
		}
		return []Action{{Type: ActType, Text: msg.Text}}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", msg.T)
	}
}
