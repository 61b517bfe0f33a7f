package zoneinfo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sort"

	lru "github.com/hashicorp/golang-lru"

	"github.com/ngrash/go-tzfinder/internal/bufferio"
)

// Archive header:
//
//	+-------------------+-------------+---+
//	|  "tzdata"     (6) | version (5) | 0 |
//	+-------------------+-------------+---+-----------+
//	|  index (4)  |  data (4)  |  zonetab (4)         |
//	+-------------+------------+----------------------+
//
// Index entry:
//
//	+----------------------------+-----------+------------+--------------+
//	|  id, NUL padded       (40) | start (4) | length (4) | reserved (4) |
//	+----------------------------+-----------+------------+--------------+
const (
	archiveMagic   = "tzdata"
	versionLen     = 5
	markerLen      = len(archiveMagic) + versionLen + 1
	headerLen      = markerLen + 3*4
	idLen          = 40
	IndexEntrySize = idLen + 3*4
)

// IndexEntry locates one zone blob. Start is relative to the data section.
type IndexEntry struct {
	ID     string
	Start  uint32
	Length uint32
}

// Archive is a parsed zone archive. It is immutable and safe for concurrent use.
type Archive struct {
	version string
	buf     []byte
	data    int
	zonetab int
	entries []IndexEntry
	cache   *lru.Cache
}

// Option configures an Archive.
type Option func(*Archive) error

// WithCache keeps up to size decoded zones. Zones are immutable, so callers
// sharing a cached *Zone cannot observe each other.
func WithCache(size int) Option {
	return func(a *Archive) error {
		c, err := lru.New(size)
		if err != nil {
			return fmt.Errorf("zone cache: %w", err)
		}
		a.cache = c
		return nil
	}
}

// Parse validates the header and index of b. Zone blobs are not decoded
// until requested; see Validate. b must not be modified afterwards.
// Every structural failure wraps ErrCorrupt.
func Parse(b []byte, opts ...Option) (*Archive, error) {
	c := bufferio.New(b)
	version, err := readMarker(c)
	if err != nil {
		return nil, err
	}
	var offs [3]uint32
	for i := range offs {
		if offs[i], err = c.ReadUint32(); err != nil {
			return nil, corruptf("reading section offsets: %w", err)
		}
	}
	index, data, zonetab := offs[0], offs[1], offs[2]
	if index < uint32(headerLen) || index > data || data > zonetab || int64(zonetab) > int64(len(b)) {
		return nil, corruptf("section offsets index=%d data=%d zonetab=%d out of order or outside %d octets", index, data, zonetab, len(b))
	}
	if (data-index)%IndexEntrySize != 0 {
		return nil, corruptf("index length %d not a multiple of %d", data-index, IndexEntrySize)
	}

	ix, err := c.Slice(int(index), int(data-index))
	if err != nil {
		return nil, corruptf("index: %w", err)
	}
	entries := make([]IndexEntry, 0, (data-index)/IndexEntrySize)
	for ix.Remaining() > 0 {
		raw, _ := ix.ReadBytes(idLen)
		start, _ := ix.ReadUint32()
		length, _ := ix.ReadUint32()
		_ = ix.Skip(4)

		id := string(raw)
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			id = string(raw[:i])
		}
		n := len(entries)
		switch {
		case id == "":
			return nil, corruptf("index entry %d: empty id", n)
		case n > 0 && id <= entries[n-1].ID:
			return nil, corruptf("index entry %d: id %q not after %q", n, id, entries[n-1].ID)
		case uint64(data)+uint64(start)+uint64(length) > uint64(zonetab):
			return nil, corruptf("zone %q: range [%d, +%d) leaves data section", id, start, length)
		}
		entries = append(entries, IndexEntry{ID: id, Start: start, Length: length})
	}

	a := &Archive{
		version: version,
		buf:     b,
		data:    int(data),
		zonetab: int(zonetab),
		entries: entries,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func readMarker(c *bufferio.Cursor) (string, error) {
	marker, err := c.ReadBytes(markerLen)
	if err != nil {
		return "", corruptf("reading header: %w", err)
	}
	if !bytes.HasPrefix(marker, []byte(archiveMagic)) || marker[markerLen-1] != 0 {
		return "", corruptf("bad header %q", marker)
	}
	return string(marker[len(archiveMagic) : markerLen-1]), nil
}

// ReadVersion returns the version recorded in the header read from r
// without parsing the rest of the archive.
func ReadVersion(r io.Reader) (string, error) {
	buf := make([]byte, markerLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", corruptf("reading header: %w", err)
	}
	return readMarker(bufferio.New(buf))
}

// Version returns the rules version, e.g. "2017c".
func (a *Archive) Version() string { return a.version }

// Entries returns a copy of the index.
func (a *Archive) Entries() []IndexEntry { return slices.Clone(a.entries) }

// IDs returns the zone ids in ascending order.
func (a *Archive) IDs() []string {
	ids := make([]string, len(a.entries))
	for i, e := range a.entries {
		ids[i] = e.ID
	}
	return ids
}

// ZoneTab returns a copy of the trailing table.
func (a *Archive) ZoneTab() []byte { return slices.Clone(a.buf[a.zonetab:]) }

func (a *Archive) find(id string) (IndexEntry, bool) {
	i := sort.Search(len(a.entries), func(i int) bool { return a.entries[i].ID >= id })
	if i < len(a.entries) && a.entries[i].ID == id {
		return a.entries[i], true
	}
	return IndexEntry{}, false
}

// HasZone reports whether id is in the index.
func (a *Archive) HasZone(id string) bool {
	_, ok := a.find(id)
	return ok
}

// Lookup returns a cursor bounded to the blob of id.
func (a *Archive) Lookup(id string) (*bufferio.Cursor, bool) {
	e, ok := a.find(id)
	if !ok {
		return nil, false
	}
	// Parse checked the range against the data section.
	c, err := bufferio.New(a.buf).Slice(a.data+int(e.Start), int(e.Length))
	if err != nil {
		return nil, false
	}
	return c, true
}

// Zone decodes the zone id. Unknown ids return ErrNotFound, undecodable
// blobs an error wrapping ErrCorrupt.
func (a *Archive) Zone(id string) (*Zone, error) {
	if a.cache != nil {
		if v, ok := a.cache.Get(id); ok {
			return v.(*Zone), nil
		}
	}
	c, ok := a.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	z, err := DecodeZone(id, c)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		a.cache.Add(id, z)
	}
	return z, nil
}

// Validate decodes every zone and reports all failures.
func (a *Archive) Validate() error {
	var errs []error
	for _, e := range a.entries {
		if _, err := a.Zone(e.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load reads, parses and validates the archive at path.
func Load(path string, opts ...Option) (*Archive, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := Parse(b, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// LoadWithFallback returns the first of paths that loads successfully,
// or Builtin if none does. Rejected paths are logged. opts apply to
// whichever archive is returned; an error means an option failed.
func LoadWithFallback(paths []string, opts ...Option) (*Archive, error) {
	for _, p := range paths {
		a, err := Load(p, opts...)
		if err == nil {
			return a, nil
		}
		slog.Warn("zone archive rejected", "path", p, "error", err)
	}
	slog.Warn("no usable zone archive, using built-in GMT", "candidates", len(paths))
	a := Builtin()
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// BuiltinVersion is the version reported by Builtin.
const BuiltinVersion = "missing"

// Builtin returns an archive holding only the fixed-offset zone "GMT".
func Builtin() *Archive {
	blob := append([]byte{}, CompactMagic[:]...)
	blob = binary.BigEndian.AppendUint32(blob, 1) // types
	blob = binary.BigEndian.AppendUint32(blob, 0) // transitions
	blob = append(blob, 0, 0, 0, 0, 0)            // offset 0, standard

	var entry [IndexEntrySize]byte
	copy(entry[:idLen], "GMT")
	binary.BigEndian.PutUint32(entry[idLen+4:], uint32(len(blob)))

	data := uint32(headerLen + IndexEntrySize)
	b := append([]byte(archiveMagic), make([]byte, versionLen+1)...)
	b = binary.BigEndian.AppendUint32(b, uint32(headerLen))
	b = binary.BigEndian.AppendUint32(b, data)
	b = binary.BigEndian.AppendUint32(b, data+uint32(len(blob)))
	b = append(b, entry[:]...)
	b = append(b, blob...)

	a, err := Parse(b)
	if err != nil {
		panic(fmt.Sprintf("zoneinfo: built-in archive: %v", err))
	}
	// The header has no room for a seven character version.
	a.version = BuiltinVersion
	return a
}
