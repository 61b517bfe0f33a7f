package countryzones

import "fmt"

type dstKind uint8

const (
	dstUnknown dstKind = iota
	dstNone
	dstSavings
)

// DST is an observed daylight saving state. The zero value is UnknownDST.
type DST struct {
	kind    dstKind
	savings int32
}

// NotDST is the state of a clock known to be on standard time.
func NotDST() DST { return DST{kind: dstNone} }

// Savings is the state of a clock known to be s seconds ahead of standard
// time. Savings(0) equals NotDST().
func Savings(s int32) DST {
	if s == 0 {
		return NotDST()
	}
	return DST{kind: dstSavings, savings: s}
}

// UnknownDST matches any daylight saving state.
func UnknownDST() DST { return DST{} }

// Known reports whether d is not UnknownDST.
func (d DST) Known() bool { return d.kind != dstUnknown }

// SavingsSeconds returns the savings in seconds; ok is false for UnknownDST.
func (d DST) SavingsSeconds() (s int32, ok bool) {
	return d.savings, d.Known()
}

// matches reports whether a zone whose daylight saving part is dst agrees with d.
func (d DST) matches(dst int32) bool {
	switch d.kind {
	case dstNone:
		return dst == 0
	case dstSavings:
		return dst == d.savings
	default:
		return true
	}
}

func (d DST) String() string {
	switch d.kind {
	case dstNone:
		return "not-dst"
	case dstSavings:
		return fmt.Sprintf("dst(%ds)", d.savings)
	default:
		return "unknown"
	}
}
