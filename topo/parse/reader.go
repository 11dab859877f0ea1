// Package parse turns the class-specific descriptor bytes of a UVC Video
// Control or Video Streaming interface into a topo.Topology or a
// topo.StreamingInterfaceDesc.
package parse

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/daedaluz/govuc/topo"
)

// reader is a little-endian byte cursor over one class-specific descriptor's
// payload. Every read either advances the cursor or returns
// io.ErrUnexpectedEOF, never partial data.
type reader struct {
	buf []byte
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) take(n int) ([]byte, error) {
	if n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[:n]
	r.buf = r.buf[n:]
	return b, nil
}

func (r *reader) remaining() int { return len(r.buf) }

func (r *reader) u8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// bitmask reads an explicit-length little-endian bitmask into a uint32,
// discarding bits beyond the 32nd (with a log) if length > 4.
func (r *reader) bitmask(length uint8) (uint32, error) {
	b, err := r.take(int(length))
	if err != nil {
		return 0, err
	}
	if length > 4 {
		log.Printf("govuc: %d-byte bitmask truncated to its low 4 bytes", length)
	}
	var buf [4]byte
	copy(buf[:], b)
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// lengthPrefixedBitmask reads a one-byte length followed by that many
// bitmask bytes (the bControlSize/bmControls idiom used throughout UVC).
func (r *reader) lengthPrefixedBitmask() (uint32, uint8, error) {
	n, err := r.u8()
	if err != nil {
		return 0, 0, err
	}
	mask, err := r.bitmask(n)
	return mask, n, err
}

// guid reads UVC's mixed-endian GUID encoding: the first three groups are
// little-endian integers, the last two groups are raw bytes (USB-IF's
// convention for encoding a Microsoft-style GUID).
func (r *reader) guid() (uuid.UUID, error) {
	d1, err := r.u32()
	if err != nil {
		return uuid.UUID{}, err
	}
	d2, err := r.u16()
	if err != nil {
		return uuid.UUID{}, err
	}
	d3, err := r.u16()
	if err != nil {
		return uuid.UUID{}, err
	}
	d4, err := r.bytes(8)
	if err != nil {
		return uuid.UUID{}, err
	}
	var out uuid.UUID
	binary.BigEndian.PutUint32(out[0:4], d1)
	binary.BigEndian.PutUint16(out[4:6], d2)
	binary.BigEndian.PutUint16(out[6:8], d3)
	copy(out[8:16], d4)
	return out, nil
}

// time100ns reads a dwXxx field expressed in 100ns units (UVC's frame
// interval encoding).
func (r *reader) time100ns() (time.Duration, error) {
	units, err := r.u32()
	if err != nil {
		return 0, err
	}
	return time.Duration(units) * 100 * time.Nanosecond, nil
}

func (r *reader) nonzeroSourceID() (topo.SourceID, error) {
	v, err := r.u8()
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("bSourceID is 0, only non-zero identifiers are allowed")
	}
	return topo.SourceID(v), nil
}

func (r *reader) nonzeroTermID() (topo.TermID, error) {
	v, err := r.u8()
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("bTerminalID is 0, only non-zero identifiers are allowed")
	}
	return topo.TermID(v), nil
}

func (r *reader) nonzeroUnitID() (topo.UnitID, error) {
	v, err := r.u8()
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("bUnitID is 0, only non-zero identifiers are allowed")
	}
	return topo.UnitID(v), nil
}

// optionalTermID reads a bAssocTerminal-style field where 0 means "none".
func (r *reader) optionalTermID() (topo.TermID, error) {
	v, err := r.u8()
	if err != nil {
		return 0, err
	}
	return topo.TermID(v), nil
}

// splitDescriptors walks raw class-specific descriptor bytes (the
// interface's "extra" bytes) and returns the [start, end) byte span of each
// descriptor, bounded by its bLength; reading bDescriptorType,
// bDescriptorSubType and the payload is left to the caller. Malformed
// trailing bytes (a bLength under 2, or one running past the end) end the
// walk and are dropped without a log, rather than failing the whole
// interface.
func splitDescriptors(raw []byte) [][2]int {
	var spans [][2]int
	pos := 0
	for pos < len(raw) {
		if pos+2 > len(raw) {
			break
		}
		length := int(raw[pos])
		if length < 2 || pos+length > len(raw) {
			break
		}
		spans = append(spans, [2]int{pos, pos + length})
		pos += length
	}
	return spans
}
