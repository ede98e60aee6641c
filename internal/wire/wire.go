// Package wire implements the fixed-layout binary protocol spoken between
// the two peers of a duel. Three frame kinds exist, each prefixed by a
// one-byte tag; every multi-byte integer is little-endian. The layouts are
// byte-stable: a peer built from another implementation of this protocol
// must produce identical bytes, so nothing here is ever encoded with a
// self-describing format.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vovakirdan/netpong/internal/game"
)

// Frame tags.
const (
	TagInputPair byte = 0x01
	TagSnapshot  byte = 0x02
	TagPing      byte = 0x03
)

// Frame lengths, including the tag byte. Every frame has an exact expected
// length; truncated and over-long buffers are both decode errors.
const (
	InputPairFrameLen = 9
	PingFrameLen      = 5
	SnapshotFrameLen  = 1 + SnapshotBodyLen
)

var (
	ErrShortBuffer   = errors.New("wire: buffer too short")
	ErrTrailingBytes = errors.New("wire: trailing bytes after frame")
	ErrUnknownTag    = errors.New("wire: unknown frame tag")
	ErrBadValue      = errors.New("wire: invalid field value")
)

// Msg is a closed union of the three frame kinds.
type Msg interface {
	wireMsg()
}

// InputPairMsg carries both sides' inputs for one tick. The sender fills in
// only its own side truthfully; the receiver reads only the sender's side.
type InputPairMsg struct {
	Pair game.InputPair
}

func (InputPairMsg) wireMsg() {}

// SnapshotMsg carries a complete simulation snapshot for resynchronization.
type SnapshotMsg struct {
	Snap game.Snapshot
}

func (SnapshotMsg) wireMsg() {}

// PingMsg carries the sender's millisecond clock; the receiver echoes it
// back unchanged so the sender can measure the round trip.
type PingMsg struct {
	Timestamp uint32
}

func (PingMsg) wireMsg() {}

// Encode serializes a message into a single freshly-allocated frame buffer.
func Encode(m Msg) []byte {
	switch m := m.(type) {
	case InputPairMsg:
		buf := make([]byte, InputPairFrameLen)
		buf[0] = TagInputPair
		binary.LittleEndian.PutUint32(buf[1:5], m.Pair.Tick)
		buf[5] = byte(m.Pair.A.AxisY)
		buf[6] = m.Pair.A.Buttons
		buf[7] = byte(m.Pair.B.AxisY)
		buf[8] = m.Pair.B.Buttons
		return buf
	case SnapshotMsg:
		buf := make([]byte, SnapshotFrameLen)
		buf[0] = TagSnapshot
		encodeSnapshotInto(buf[1:], m.Snap)
		return buf
	case PingMsg:
		buf := make([]byte, PingFrameLen)
		buf[0] = TagPing
		binary.LittleEndian.PutUint32(buf[1:5], m.Timestamp)
		return buf
	default:
		// The union is closed; reaching this is a programming error.
		panic(fmt.Sprintf("wire: cannot encode message type %T", m))
	}
}

// Decode parses one frame. Malformed input yields an error, never a panic:
// these bytes come straight off the network.
func Decode(b []byte) (Msg, error) {
	if len(b) == 0 {
		return nil, ErrShortBuffer
	}
	switch b[0] {
	case TagInputPair:
		if err := checkLen(len(b), InputPairFrameLen); err != nil {
			return nil, fmt.Errorf("input pair frame: %w", err)
		}
		return InputPairMsg{Pair: game.InputPair{
			Tick: binary.LittleEndian.Uint32(b[1:5]),
			A:    game.Input{AxisY: int8(b[5]), Buttons: b[6]},
			B:    game.Input{AxisY: int8(b[7]), Buttons: b[8]},
		}}, nil
	case TagSnapshot:
		snap, err := DecodeSnapshot(b[1:])
		if err != nil {
			return nil, fmt.Errorf("snapshot frame: %w", err)
		}
		return SnapshotMsg{Snap: snap}, nil
	case TagPing:
		if err := checkLen(len(b), PingFrameLen); err != nil {
			return nil, fmt.Errorf("ping frame: %w", err)
		}
		return PingMsg{Timestamp: binary.LittleEndian.Uint32(b[1:5])}, nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownTag, b[0])
	}
}

func checkLen(got, want int) error {
	if got < want {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortBuffer, got, want)
	}
	if got > want {
		return fmt.Errorf("%w: %d bytes past expected %d", ErrTrailingBytes, got-want, want)
	}
	return nil
}
