// Package zonetest builds zone blobs and archives, valid or deliberately
// broken, for tests of the packages that read them.
package zonetest

import (
	"bytes"
	"encoding/binary"

	"github.com/ngrash/go-tzfinder/internal/unixtime"
	"github.com/ngrash/go-tzfinder/tzif"
)

var order = binary.BigEndian

// Blob describes one zone's data. Transitions are {instant, type index}
// pairs and Types are {offset, isdst} pairs. isdst is written verbatim, so
// values other than 0 and 1 produce invalid data.
type Blob struct {
	Magic       []byte // nil means "tzz1"
	Transitions [][2]int32
	Types       [][2]int32

	// Count overrides, written instead of the real lengths when set.
	TypeCount       *int32
	TransitionCount *int32
}

// ValidBlob returns a small, valid two-type blob.
func ValidBlob() Blob {
	return Blob{
		Transitions: [][2]int32{{-2000, 0}, {1000, 1}, {2000, 0}},
		Types:       [][2]int32{{3600, 0}, {7200, 1}},
	}
}

// Int32 returns a pointer to v, for the override fields.
func Int32(v int32) *int32 { return &v }

// Uint32 returns a pointer to v, for the override fields.
func Uint32(v uint32) *uint32 { return &v }

// Compact encodes b in the compact zone encoding.
func (b Blob) Compact() []byte {
	magic := b.Magic
	if magic == nil {
		magic = []byte("tzz1")
	}
	typeCount, transitionCount := int32(len(b.Types)), int32(len(b.Transitions))
	if b.TypeCount != nil {
		typeCount = *b.TypeCount
	}
	if b.TransitionCount != nil {
		transitionCount = *b.TransitionCount
	}

	out := append([]byte{}, magic...)
	out = order.AppendUint32(out, uint32(typeCount))
	out = order.AppendUint32(out, uint32(transitionCount))
	for _, tr := range b.Transitions {
		out = order.AppendUint32(out, uint32(tr[0]))
		out = append(out, byte(tr[1]))
	}
	for _, t := range b.Types {
		out = order.AppendUint32(out, uint32(t[0]))
		out = append(out, byte(t[1]))
	}
	return out
}

// TZif encodes b as a version 1 TZif file. Every type is designated "ZZZ".
// isdst values are reduced to booleans.
func (b Blob) TZif() []byte {
	d := tzif.Data{
		Header: tzif.Header{
			Version: tzif.V1,
			Timecnt: uint32(len(b.Transitions)),
			Typecnt: uint32(len(b.Types)),
			Charcnt: 4,
		},
		V1Data: tzif.V1DataBlock{TimeZoneDesignation: []byte("ZZZ\x00")},
	}
	if b.TypeCount != nil {
		d.Header.Typecnt = uint32(*b.TypeCount)
	}
	if b.TransitionCount != nil {
		d.Header.Timecnt = uint32(*b.TransitionCount)
	}
	for _, tr := range b.Transitions {
		d.V1Data.TransitionTimes = append(d.V1Data.TransitionTimes, tr[0])
		d.V1Data.TransitionTypes = append(d.V1Data.TransitionTypes, uint8(tr[1]))
	}
	for _, t := range b.Types {
		d.V1Data.LocalTimeTypes = append(d.V1Data.LocalTimeTypes, tzif.LocalTimeType{Utoff: t[0], Dst: t[1] != 0})
	}
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Entry is one zone of an Archive.
type Entry struct {
	ID   string
	Data []byte
}

// Archive describes a zone archive. Entries are written in the given order.
type Archive struct {
	Version string
	Entries []Entry
	ZoneTab []byte

	// Section offset overrides.
	IndexOffset   *uint32
	DataOffset    *uint32
	ZoneTabOffset *uint32
}

const (
	headerLen = 24
	idLen     = 40
)

// Build encodes a.
func (a Archive) Build() []byte {
	var data []byte
	var index []byte
	for _, e := range a.Entries {
		var id [idLen]byte
		copy(id[:], e.ID)
		index = append(index, id[:]...)
		index = order.AppendUint32(index, uint32(len(data)))
		index = order.AppendUint32(index, uint32(len(e.Data)))
		index = order.AppendUint32(index, 0)
		data = append(data, e.Data...)
	}

	indexOff := uint32(headerLen)
	dataOff := indexOff + uint32(len(index))
	zonetabOff := dataOff + uint32(len(data))
	if a.IndexOffset != nil {
		indexOff = *a.IndexOffset
	}
	if a.DataOffset != nil {
		dataOff = *a.DataOffset
	}
	if a.ZoneTabOffset != nil {
		zonetabOff = *a.ZoneTabOffset
	}

	version := []byte(a.Version + "\x00\x00\x00\x00\x00")[:5]
	out := append([]byte("tzdata"), version...)
	out = append(out, 0)
	out = order.AppendUint32(out, indexOff)
	out = order.AppendUint32(out, dataOff)
	out = order.AppendUint32(out, zonetabOff)
	out = append(out, index...)
	out = append(out, data...)
	out = append(out, a.ZoneTab...)
	return out
}

// Instants shared by tests. In summer 2017 London and New York observe
// daylight saving time; in January 2018 neither does.
var (
	Summer2017 = unixtime.FromDateTime(2017, 7, 22, 13, 14, 15)
	Winter2018 = unixtime.FromDateTime(2018, 1, 22, 13, 14, 15)
)

func at(y, mo, d, h int) int32 {
	return int32(unixtime.FromDateTime(y, mo, d, h, 0, 0))
}

// Synthetic zones modelled on their namesakes around 2016 to 2018.
var (
	London = Blob{
		Types: [][2]int32{{0, 0}, {3600, 1}},
		Transitions: [][2]int32{
			{at(2016, 10, 30, 1), 0},
			{at(2017, 3, 26, 1), 1},
			{at(2017, 10, 29, 1), 0},
			{at(2018, 3, 25, 1), 1},
			{at(2018, 10, 28, 1), 0},
		},
	}
	NewYork = Blob{
		Types: [][2]int32{{-18000, 0}, {-14400, 1}},
		Transitions: [][2]int32{
			{at(2016, 11, 6, 6), 0},
			{at(2017, 3, 12, 7), 1},
			{at(2017, 11, 5, 6), 0},
			{at(2018, 3, 11, 7), 1},
			{at(2018, 11, 4, 6), 0},
		},
	}
	LosAngeles = Blob{
		Types: [][2]int32{{-28800, 0}, {-25200, 1}},
		Transitions: [][2]int32{
			{at(2016, 11, 6, 9), 0},
			{at(2017, 3, 12, 10), 1},
			{at(2017, 11, 5, 9), 0},
			{at(2018, 3, 11, 10), 1},
			{at(2018, 11, 4, 9), 0},
		},
	}
	Paris = Blob{
		Types: [][2]int32{{3600, 0}, {7200, 1}},
		Transitions: [][2]int32{
			{at(2016, 10, 30, 1), 0},
			{at(2017, 3, 26, 1), 1},
			{at(2017, 10, 29, 1), 0},
			{at(2018, 3, 25, 1), 1},
			{at(2018, 10, 28, 1), 0},
		},
	}
	Reykjavik = Blob{
		Types:       [][2]int32{{-3600, 0}, {0, 0}},
		Transitions: [][2]int32{{at(1968, 4, 7, 1), 1}},
	}
	UTC = Blob{
		Types: [][2]int32{{0, 0}},
	}
)

// Zone ids of the synthetic zones.
const (
	LondonID     = "Europe/London"
	LosAngelesID = "America/Los_Angeles"
	NewYorkID    = "America/New_York"
	ParisID      = "Europe/Paris"
	ReykjavikID  = "Atlantic/Reykjavik"
	UTCID        = "Etc/UTC"
)

// StandardArchive returns an archive of the synthetic zones, sorted by id.
// Reykjavik and Paris are stored as TZif, the others in the compact encoding.
func StandardArchive() Archive {
	return Archive{
		Version: "2017c",
		Entries: []Entry{
			{ID: LosAngelesID, Data: LosAngeles.Compact()},
			{ID: NewYorkID, Data: NewYork.Compact()},
			{ID: ReykjavikID, Data: Reykjavik.TZif()},
			{ID: UTCID, Data: UTC.Compact()},
			{ID: LondonID, Data: London.Compact()},
			{ID: ParisID, Data: Paris.TZif()},
		},
		ZoneTab: []byte("GB\tEurope/London\nIS\tAtlantic/Reykjavik\nUS\tAmerica/New_York\n"),
	}
}
