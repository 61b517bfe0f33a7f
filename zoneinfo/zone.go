// Package zoneinfo decodes a compiled time zone archive and answers
// offset and daylight saving queries for the zones it contains.
//
// All instants are Unix seconds. Values returned by this package are
// immutable and safe for concurrent use.
package zoneinfo

import (
	"fmt"
	"slices"
	"sort"
)

const (
	// MaxTypes is the largest number of types a zone may declare.
	MaxTypes = 256
	// MaxTransitions is the largest number of transitions a zone may declare.
	MaxTransitions = 2000
)

// Type is a local time type: a UTC offset and whether it is daylight saving time.
type Type struct {
	UTCOffset int32
	IsDST     bool
}

// Transition switches a zone to Types[TypeIndex] at Instant.
type Transition struct {
	Instant   int32
	TypeIndex uint8
}

// Zone is the decoded transition table of one named zone.
type Zone struct {
	id          string
	types       []Type
	transitions []Transition
}

// NewZone validates types and transitions and returns a Zone holding copies of them.
// Every failure wraps ErrCorrupt.
func NewZone(id string, types []Type, transitions []Transition) (*Zone, error) {
	if n := len(types); n < 1 || n > MaxTypes {
		return nil, corruptf("zone %q: type count %d not in [1, %d]", id, n, MaxTypes)
	}
	if n := len(transitions); n > MaxTransitions {
		return nil, corruptf("zone %q: transition count %d exceeds %d", id, n, MaxTransitions)
	}
	for i, tr := range transitions {
		if i > 0 && tr.Instant <= transitions[i-1].Instant {
			return nil, corruptf("zone %q: transition %d at %d not after %d", id, i, tr.Instant, transitions[i-1].Instant)
		}
		if int(tr.TypeIndex) >= len(types) {
			return nil, corruptf("zone %q: transition %d references type %d of %d", id, i, tr.TypeIndex, len(types))
		}
	}
	if !slices.ContainsFunc(types, func(t Type) bool { return !t.IsDST }) {
		return nil, corruptf("zone %q: no standard time type", id)
	}
	return &Zone{
		id:          id,
		types:       slices.Clone(types),
		transitions: slices.Clone(transitions),
	}, nil
}

// ID returns the zone identifier, e.g. "Europe/London".
func (z *Zone) ID() string { return z.id }

// Types returns a copy of the zone's types.
func (z *Zone) Types() []Type { return slices.Clone(z.types) }

// Transitions returns a copy of the zone's transitions in ascending order.
func (z *Zone) Transitions() []Transition { return slices.Clone(z.transitions) }

// active returns the index of the last transition at or before t, or -1.
func (z *Zone) active(t int64) int {
	return sort.Search(len(z.transitions), func(i int) bool {
		return int64(z.transitions[i].Instant) > t
	}) - 1
}

// typeAt returns the type entered by transition i. Index -1 stands for the
// time before the first transition, which uses the first transition's type.
func (z *Zone) typeAt(i int) Type {
	switch {
	case i >= 0:
		return z.types[z.transitions[i].TypeIndex]
	case len(z.transitions) > 0:
		return z.types[z.transitions[0].TypeIndex]
	default:
		return z.types[0]
	}
}

// OffsetAt returns the total UTC offset in seconds in force at t.
func (z *Zone) OffsetAt(t int64) int32 {
	return z.typeAt(z.active(t)).UTCOffset
}

// IsDSTAt reports whether daylight saving time is in force at t.
func (z *Zone) IsDSTAt(t int64) bool {
	return z.typeAt(z.active(t)).IsDST
}

// OffsetsAt splits the offset at t into its standard part and its
// daylight saving part. dst is zero when a standard type is in force.
func (z *Zone) OffsetsAt(t int64) (raw, dst int32) {
	i := z.active(t)
	typ := z.typeAt(i)
	if !typ.IsDST {
		return typ.UTCOffset, 0
	}
	std := z.standardBefore(max(i, 0))
	return std, typ.UTCOffset - std
}

// RawOffset returns the offset of the first transition's type, or of
// type 0 for zones without transitions.
func (z *Zone) RawOffset() int32 {
	return z.typeAt(-1).UTCOffset
}

// UsesDST reports whether a transition strictly after ref enters daylight
// saving time. Daylight saving time that ended at or before ref is ignored.
func (z *Zone) UsesDST(ref int64) bool {
	_, ok := z.nextDST(ref)
	return ok
}

// DSTSavings returns the amount the next daylight saving period after ref
// adds to the standard offset preceding it, or 0 if UsesDST(ref) is false.
func (z *Zone) DSTSavings(ref int64) int32 {
	i, ok := z.nextDST(ref)
	if !ok {
		return 0
	}
	return z.types[z.transitions[i].TypeIndex].UTCOffset - z.standardBefore(i)
}

func (z *Zone) nextDST(ref int64) (int, bool) {
	for i := z.active(ref) + 1; i < len(z.transitions); i++ {
		if z.types[z.transitions[i].TypeIndex].IsDST {
			return i, true
		}
	}
	return 0, false
}

// standardBefore returns the offset of the nearest standard type entered
// before transition i. If there is none it falls back to the first
// standard type in the table, which NewZone guarantees exists.
func (z *Zone) standardBefore(i int) int32 {
	for j := i - 1; j >= 0; j-- {
		if t := z.types[z.transitions[j].TypeIndex]; !t.IsDST {
			return t.UTCOffset
		}
	}
	for _, t := range z.types {
		if !t.IsDST {
			return t.UTCOffset
		}
	}
	return 0
}

// Equal reports whether z and o have the same id, types and transitions.
func (z *Zone) Equal(o *Zone) bool {
	if z == nil || o == nil {
		return z == o
	}
	return z.id == o.id &&
		slices.Equal(z.types, o.types) &&
		slices.Equal(z.transitions, o.transitions)
}

func (z *Zone) String() string {
	return fmt.Sprintf("%s (%d types, %d transitions)", z.id, len(z.types), len(z.transitions))
}
