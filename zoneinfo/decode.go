package zoneinfo

import (
	"bytes"

	"github.com/ngrash/go-tzfinder/internal/bufferio"
	"github.com/ngrash/go-tzfinder/tzif"
)

// CompactMagic identifies the compact zone encoding:
//
//	+---------------+---------------+-------------------+
//	|  "tzz1"   (4) | typecnt   (4) | transitioncnt (4) |
//	+---------------+---------------+-------------------+
//	|  transitions  (transitioncnt x (instant(4) type(1)))  |
//	+-------------------------------------------------------+
//	|  types        (typecnt x (offset(4) isdst(1)))        |
//	+-------------------------------------------------------+
var CompactMagic = [4]byte{'t', 'z', 'z', '1'}

const (
	compactTransitionSize = 5
	compactTypeSize       = 5
)

// DecodeZone decodes the zone blob visible to c. The blob is either in the
// compact encoding or a TZif file, of which only the version 1 data is used.
func DecodeZone(id string, c *bufferio.Cursor) (*Zone, error) {
	magic, err := c.Peek(len(CompactMagic))
	if err != nil {
		return nil, corruptf("zone %q: reading magic: %w", id, err)
	}
	switch {
	case bytes.Equal(magic, CompactMagic[:]):
		return decodeCompact(id, c)
	case bytes.Equal(magic, tzif.Magic[:]):
		return decodeTZif(id, c)
	default:
		return nil, corruptf("zone %q: unknown magic %q", id, magic)
	}
}

func decodeCompact(id string, c *bufferio.Cursor) (*Zone, error) {
	if err := c.Skip(len(CompactMagic)); err != nil {
		return nil, corruptf("zone %q: %w", id, err)
	}
	typeCount, err := c.ReadInt32()
	if err != nil {
		return nil, corruptf("zone %q: reading type count: %w", id, err)
	}
	if typeCount < 1 || typeCount > MaxTypes {
		return nil, corruptf("zone %q: type count %d not in [1, %d]", id, typeCount, MaxTypes)
	}
	transitionCount, err := c.ReadInt32()
	if err != nil {
		return nil, corruptf("zone %q: reading transition count: %w", id, err)
	}
	if transitionCount < 0 || transitionCount > MaxTransitions {
		return nil, corruptf("zone %q: transition count %d not in [0, %d]", id, transitionCount, MaxTransitions)
	}
	if need := int(transitionCount)*compactTransitionSize + int(typeCount)*compactTypeSize; need > c.Remaining() {
		return nil, corruptf("zone %q: need %d octets, have %d", id, need, c.Remaining())
	}

	transitions := make([]Transition, transitionCount)
	for i := range transitions {
		instant, err := c.ReadInt32()
		if err != nil {
			return nil, corruptf("zone %q: transition %d: %w", id, i, err)
		}
		typ, err := c.ReadByte()
		if err != nil {
			return nil, corruptf("zone %q: transition %d: %w", id, i, err)
		}
		transitions[i] = Transition{Instant: instant, TypeIndex: typ}
	}

	types := make([]Type, typeCount)
	for i := range types {
		off, err := c.ReadInt32()
		if err != nil {
			return nil, corruptf("zone %q: type %d: %w", id, i, err)
		}
		isDST, err := c.ReadByte()
		if err != nil {
			return nil, corruptf("zone %q: type %d: %w", id, i, err)
		}
		if isDST > 1 {
			return nil, corruptf("zone %q: type %d: isdst %d not 0 or 1", id, i, isDST)
		}
		types[i] = Type{UTCOffset: off, IsDST: isDST == 1}
	}
	return NewZone(id, types, transitions)
}

func decodeTZif(id string, c *bufferio.Cursor) (*Zone, error) {
	d, err := tzif.Decode(c, int64(c.Remaining()))
	if err != nil {
		return nil, corruptf("zone %q: %w", id, err)
	}
	h, blk := d.Header, d.V1Data
	if h.Typecnt < 1 || h.Typecnt > MaxTypes {
		return nil, corruptf("zone %q: type count %d not in [1, %d]", id, h.Typecnt, MaxTypes)
	}
	if h.Timecnt > MaxTransitions {
		return nil, corruptf("zone %q: transition count %d exceeds %d", id, h.Timecnt, MaxTransitions)
	}
	if err := tzif.Validate(d); err != nil {
		return nil, corruptf("zone %q: %w", id, err)
	}

	types := make([]Type, len(blk.LocalTimeTypes))
	for i, t := range blk.LocalTimeTypes {
		types[i] = Type{UTCOffset: t.Utoff, IsDST: t.Dst}
	}
	transitions := make([]Transition, len(blk.TransitionTimes))
	for i, at := range blk.TransitionTimes {
		transitions[i] = Transition{Instant: at, TypeIndex: blk.TransitionTypes[i]}
	}
	return NewZone(id, types, transitions)
}
