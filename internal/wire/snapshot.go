package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/vovakirdan/netpong/internal/fixed"
	"github.com/vovakirdan/netpong/internal/game"
)

// SnapshotBodyLen is the exact encoded size of a simulation snapshot:
//
//	tick     u32                        4
//	status   kind u8, side u8, ticks u16  4
//	paddles  2 x (y i32, vy i32)       16
//	ball     pos + vel, 4 x i32        16
//	score    2 x u8                     2
//	rng      u64                        8
//
// The status field always occupies four bytes; phases that carry no side or
// timer leave those bytes zero, keeping the encoding canonical so identical
// snapshots always produce identical bytes.
const SnapshotBodyLen = 50

// EncodeSnapshot serializes a snapshot into a single freshly-allocated
// buffer of SnapshotBodyLen bytes.
func EncodeSnapshot(s game.Snapshot) []byte {
	buf := make([]byte, SnapshotBodyLen)
	encodeSnapshotInto(buf, s)
	return buf
}

func encodeSnapshotInto(buf []byte, s game.Snapshot) {
	binary.LittleEndian.PutUint32(buf[0:4], s.Tick)

	buf[4] = byte(s.Status.Kind)
	buf[5] = byte(s.Status.Side)
	binary.LittleEndian.PutUint16(buf[6:8], s.Status.TicksLeft)

	off := 8
	for _, p := range s.Paddles {
		binary.LittleEndian.PutUint32(buf[off:], uint32(p.Y))
		binary.LittleEndian.PutUint32(buf[off+4:], uint32(p.VY))
		off += 8
	}

	binary.LittleEndian.PutUint32(buf[off:], uint32(s.Ball.Pos.X))
	binary.LittleEndian.PutUint32(buf[off+4:], uint32(s.Ball.Pos.Y))
	binary.LittleEndian.PutUint32(buf[off+8:], uint32(s.Ball.Vel.X))
	binary.LittleEndian.PutUint32(buf[off+12:], uint32(s.Ball.Vel.Y))
	off += 16

	buf[off] = s.Score[0]
	buf[off+1] = s.Score[1]
	off += 2

	binary.LittleEndian.PutUint64(buf[off:], s.Rng)
}

// DecodeSnapshot parses a snapshot body, validating the exact length and
// every discriminant. Phases that carry no side or timer must have those
// bytes zero; anything else is a malformed peer.
func DecodeSnapshot(b []byte) (game.Snapshot, error) {
	var s game.Snapshot
	if err := checkLen(len(b), SnapshotBodyLen); err != nil {
		return s, err
	}

	s.Tick = binary.LittleEndian.Uint32(b[0:4])

	status, err := decodeStatus(b[4:8])
	if err != nil {
		return s, err
	}
	s.Status = status

	off := 8
	for i := range s.Paddles {
		s.Paddles[i].Y = fixed.Fx(binary.LittleEndian.Uint32(b[off:]))
		s.Paddles[i].VY = fixed.Fx(binary.LittleEndian.Uint32(b[off+4:]))
		off += 8
	}

	s.Ball.Pos.X = fixed.Fx(binary.LittleEndian.Uint32(b[off:]))
	s.Ball.Pos.Y = fixed.Fx(binary.LittleEndian.Uint32(b[off+4:]))
	s.Ball.Vel.X = fixed.Fx(binary.LittleEndian.Uint32(b[off+8:]))
	s.Ball.Vel.Y = fixed.Fx(binary.LittleEndian.Uint32(b[off+12:]))
	off += 16

	s.Score[0] = b[off]
	s.Score[1] = b[off+1]
	off += 2

	s.Rng = binary.LittleEndian.Uint64(b[off:])
	return s, nil
}

func decodeStatus(b []byte) (game.Status, error) {
	kind := game.StatusKind(b[0])
	side := b[1]
	ticks := binary.LittleEndian.Uint16(b[2:4])

	if side > 1 {
		return game.Status{}, fmt.Errorf("%w: status side %d", ErrBadValue, side)
	}

	switch kind {
	case game.StatusLobby, game.StatusPlaying:
		if side != 0 || ticks != 0 {
			return game.Status{}, fmt.Errorf("%w: unexpected status payload for kind %d", ErrBadValue, kind)
		}
	case game.StatusCountdown:
		if side != 0 {
			return game.Status{}, fmt.Errorf("%w: countdown carries no side", ErrBadValue)
		}
	case game.StatusScored:
		// Scorer plus remaining pause ticks; both meaningful.
	case game.StatusGameOver:
		if ticks != 0 {
			return game.Status{}, fmt.Errorf("%w: game over carries no timer", ErrBadValue)
		}
	default:
		return game.Status{}, fmt.Errorf("%w: status kind %d", ErrBadValue, kind)
	}

	return game.Status{Kind: kind, Side: game.Side(side), TicksLeft: ticks}, nil
}
