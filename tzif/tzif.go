// Package tzif reads and writes the version 1 header and data block of the
// TZif format defined by RFC 8536.
// https://datatracker.ietf.org/doc/html/rfc8536
//
// Only the v1 block is modelled. Version 2+ files begin with a complete v1
// block, so readers of this package see every TZif file as a v1 file and
// ignore whatever follows it.
package tzif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// NOTE: All multi-octet integer values MUST be stored in network octet
// order format (high-order octet first, otherwise known as big-endian),
// with all bits significant.  Signed integer values MUST be represented
// using two's complement.
var order = binary.BigEndian

// Version represents the version octet of a TZif header.
type Version byte

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	case V4:
		return "V4 (0x34)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", v)
	}
}

const (
	V1 Version = 0x00
	V2 Version = 0x32 // '2'
	V3 Version = 0x33 // '3'
	V4 Version = 0x34 // '4'
)

// Magic is the four-octet ASCII sequence "TZif" (0x54 0x5A 0x69 0x66),
// which identifies the file as utilizing the Time Zone Information Format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// ErrInvalidMagic is returned by ReadHeader when the input does not start with Magic.
var ErrInvalidMagic = errors.New("tzif: invalid magic")

// ErrInvalidIndicator is returned when a one-octet boolean is neither 0 nor 1.
var ErrInvalidIndicator = errors.New("tzif: indicator must be 0 or 1")

// Header is the header of a TZif file.
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
type Header struct {
	Version  Version
	Reserved [15]byte

	// Isutcnt is the number of UT/local indicators; zero or typecnt.
	Isutcnt uint32
	// Isstdcnt is the number of standard/wall indicators; zero or typecnt.
	Isstdcnt uint32
	// Leapcnt is the number of leap-second records.
	Leapcnt uint32
	// Timecnt is the number of transition times.
	Timecnt uint32
	// Typecnt is the number of local time type records. MUST NOT be zero.
	Typecnt uint32
	// Charcnt is the number of octets of time zone designations,
	// including the trailing NUL. MUST NOT be zero.
	Charcnt uint32
}

// headerSize is the encoded size of a Header including the magic.
const headerSize = 44

// V1DataSize returns the number of octets the v1 data block described by h occupies.
// The result is computed in 64 bits so that hostile counts cannot overflow it.
func (h Header) V1DataSize() int64 {
	const timeSize = 4
	return int64(h.Timecnt)*timeSize +
		int64(h.Timecnt) +
		int64(h.Typecnt)*localTimeTypeSize +
		int64(h.Charcnt) +
		int64(h.Leapcnt)*(timeSize+4) +
		int64(h.Isstdcnt) +
		int64(h.Isutcnt)
}

// Write writes the Header to w.
func (h Header) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

// ReadHeader reads the magic and a Header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	var magic [len(Magic)]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return h, fmt.Errorf("reading magic: %w", err)
	}
	if !bytes.Equal(magic[:], Magic[:]) {
		return h, fmt.Errorf("%w: %q", ErrInvalidMagic, magic[:])
	}
	if err := binary.Read(r, order, &h); err != nil {
		return h, fmt.Errorf("reading header: %w", err)
	}
	return h, nil
}

// V1DataBlock is the data block of a version 1 TZif file.
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x 4)                |
//	+---------------------------------------------------------+
//	|  transition types          (timecnt)                    |
//	+---------------------------------------------------------+
//	|  local time type records   (typecnt x 6)                |
//	+---------------------------------------------------------+
//	|  time zone designations    (charcnt)                    |
//	+---------------------------------------------------------+
//	|  leap-second records       (leapcnt x 8)                |
//	+---------------------------------------------------------+
//	|  standard/wall indicators  (isstdcnt)                   |
//	+---------------------------------------------------------+
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
type V1DataBlock struct {
	// TransitionTimes are Unix times sorted in strictly ascending order.
	TransitionTimes []int32
	// TransitionTypes index LocalTimeTypes, one per transition time.
	TransitionTypes []uint8
	// LocalTimeTypes describe the offsets a transition can switch to.
	LocalTimeTypes []LocalTimeType
	// TimeZoneDesignation holds NUL-terminated abbreviations such as "GMT\x00BST\x00".
	TimeZoneDesignation []byte
	LeapSecondRecords   []LeapSecondRecord
	// StandardWallIndicators are true where the transition was specified in standard time.
	StandardWallIndicators []bool
	// UTLocalIndicators are true where the transition was specified in UT.
	UTLocalIndicators []bool
}

func (b V1DataBlock) Write(w io.Writer) error {
	if err := binary.Write(w, order, b.TransitionTimes); err != nil {
		return err
	}
	if err := binary.Write(w, order, b.TransitionTypes); err != nil {
		return err
	}
	for _, r := range b.LocalTimeTypes {
		if err := r.Write(w); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.TimeZoneDesignation); err != nil {
		return err
	}
	for _, r := range b.LeapSecondRecords {
		if err := binary.Write(w, order, r); err != nil {
			return err
		}
	}
	if err := binary.Write(w, order, b.StandardWallIndicators); err != nil {
		return err
	}
	return binary.Write(w, order, b.UTLocalIndicators)
}

// ReadV1DataBlock reads the data block described by h from r.
// Boolean octets other than 0 and 1 are rejected with ErrInvalidIndicator.
func ReadV1DataBlock(r io.Reader, h Header) (V1DataBlock, error) {
	var b V1DataBlock
	if h.Timecnt > 0 {
		b.TransitionTimes = make([]int32, h.Timecnt)
		if err := binary.Read(r, order, b.TransitionTimes); err != nil {
			return b, fmt.Errorf("reading transition times: %w", err)
		}
		b.TransitionTypes = make([]uint8, h.Timecnt)
		if _, err := io.ReadFull(r, b.TransitionTypes); err != nil {
			return b, fmt.Errorf("reading transition types: %w", err)
		}
	}
	if h.Typecnt > 0 {
		b.LocalTimeTypes = make([]LocalTimeType, h.Typecnt)
		for i := range b.LocalTimeTypes {
			t, err := ReadLocalTimeType(r)
			if err != nil {
				return b, fmt.Errorf("reading local time type %d: %w", i, err)
			}
			b.LocalTimeTypes[i] = t
		}
	}
	if h.Charcnt > 0 {
		b.TimeZoneDesignation = make([]byte, h.Charcnt)
		if _, err := io.ReadFull(r, b.TimeZoneDesignation); err != nil {
			return b, fmt.Errorf("reading time zone designation: %w", err)
		}
	}
	if h.Leapcnt > 0 {
		b.LeapSecondRecords = make([]LeapSecondRecord, h.Leapcnt)
		if err := binary.Read(r, order, b.LeapSecondRecords); err != nil {
			return b, fmt.Errorf("reading leap second records: %w", err)
		}
	}
	var err error
	if b.StandardWallIndicators, err = readIndicators(r, h.Isstdcnt); err != nil {
		return b, fmt.Errorf("reading standard/wall indicators: %w", err)
	}
	if b.UTLocalIndicators, err = readIndicators(r, h.Isutcnt); err != nil {
		return b, fmt.Errorf("reading UT/local indicators: %w", err)
	}
	return b, nil
}

func readIndicators(r io.Reader, n uint32) ([]bool, error) {
	if n == 0 {
		return nil, nil
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i, v := range raw {
		b, err := decodeBool(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

func decodeBool(v byte) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: got %d", ErrInvalidIndicator, v)
	}
}

// LeapSecondRecord is a v1 leap-second record.
//
//	+---------------+---------------+
//	|  occur (4)    |  corr (4)     |
//	+---------------+---------------+
type LeapSecondRecord struct {
	Occur int32
	Corr  int32
}

// LocalTimeType is a local time type record.
//
//	+---------------+---+---+
//	|  utoff (4)    |dst|idx|
//	+---------------+---+---+
type LocalTimeType struct {
	// Utoff is the number of seconds added to UT to obtain local time.
	Utoff int32
	// Dst is true if the type is daylight saving time.
	Dst bool
	// Idx indexes the designation string in TimeZoneDesignation.
	Idx uint8
}

const localTimeTypeSize = 6

func (r LocalTimeType) Write(w io.Writer) error {
	var buf [localTimeTypeSize]byte
	order.PutUint32(buf[:4], uint32(r.Utoff))
	if r.Dst {
		buf[4] = 1
	}
	buf[5] = r.Idx
	_, err := w.Write(buf[:])
	return err
}

// ReadLocalTimeType reads one six-octet local time type record.
func ReadLocalTimeType(r io.Reader) (LocalTimeType, error) {
	var buf [localTimeTypeSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return LocalTimeType{}, err
	}
	dst, err := decodeBool(buf[4])
	if err != nil {
		return LocalTimeType{}, fmt.Errorf("isdst: %w", err)
	}
	return LocalTimeType{
		Utoff: int32(order.Uint32(buf[:4])),
		Dst:   dst,
		Idx:   buf[5],
	}, nil
}

// Designation returns the abbreviation of type t, e.g. "BST".
func (b V1DataBlock) Designation(t LocalTimeType) string {
	if int(t.Idx) >= len(b.TimeZoneDesignation) {
		return ""
	}
	s := b.TimeZoneDesignation[t.Idx:]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return string(s)
}
