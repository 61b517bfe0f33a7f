package zoneinfo

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzfinder/internal/zonetest"
)

func mustParse(t *testing.T, b []byte, opts ...Option) *Archive {
	t.Helper()
	a, err := Parse(b, opts...)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return a
}

func TestParse_Valid(t *testing.T) {
	a := mustParse(t, zonetest.StandardArchive().Build())

	if got, want := a.Version(), "2017c"; got != want {
		t.Errorf("Version() = %q, want %q", got, want)
	}
	wantIDs := []string{
		zonetest.LosAngelesID,
		zonetest.NewYorkID,
		zonetest.ReykjavikID,
		zonetest.UTCID,
		zonetest.LondonID,
		zonetest.ParisID,
	}
	if diff := cmp.Diff(a.IDs(), wantIDs); diff != "" {
		t.Errorf("IDs() mismatch (-got +want):\n%s", diff)
	}
	if got, want := string(a.ZoneTab()), string(zonetest.StandardArchive().ZoneTab); got != want {
		t.Errorf("ZoneTab() = %q, want %q", got, want)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	for _, id := range wantIDs {
		if !a.HasZone(id) {
			t.Errorf("HasZone(%q) = false", id)
		}
	}
	if a.HasZone("Europe/Zurich") {
		t.Errorf("HasZone(Europe/Zurich) = true")
	}
}

func TestArchive_Lookup(t *testing.T) {
	a := mustParse(t, zonetest.StandardArchive().Build())

	c, ok := a.Lookup(zonetest.LondonID)
	if !ok {
		t.Fatal("Lookup() not found")
	}
	want := zonetest.London.Compact()
	if c.Len() != len(want) {
		t.Fatalf("cursor length = %d, want %d", c.Len(), len(want))
	}
	got, err := c.ReadBytes(c.Len())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Lookup() returned the wrong blob")
	}

	if _, ok := a.Lookup("THIS_TZ_DOES_NOT_EXIST"); ok {
		t.Errorf("Lookup() found an unknown id")
	}
}

func TestArchive_Zone(t *testing.T) {
	a := mustParse(t, zonetest.StandardArchive().Build())

	london, err := a.Zone(zonetest.LondonID)
	if err != nil {
		t.Fatal(err)
	}
	if got := london.OffsetAt(zonetest.Summer2017); got != 3600 {
		t.Errorf("London OffsetAt(summer) = %d, want 3600", got)
	}
	if got := london.OffsetAt(zonetest.Winter2018); got != 0 {
		t.Errorf("London OffsetAt(winter) = %d, want 0", got)
	}

	reykjavik, err := a.Zone(zonetest.ReykjavikID)
	if err != nil {
		t.Fatal(err)
	}
	if got := reykjavik.OffsetAt(zonetest.Summer2017); got != 0 {
		t.Errorf("Reykjavik OffsetAt(summer) = %d, want 0", got)
	}

	again, err := a.Zone(zonetest.LondonID)
	if err != nil {
		t.Fatal(err)
	}
	if london == again || !london.Equal(again) {
		t.Errorf("uncached Zone() should return distinct, equal values")
	}

	if _, err := a.Zone("THIS_TZ_DOES_NOT_EXIST"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Zone() err = %v, want ErrNotFound", err)
	}
}

func TestArchive_WithCache(t *testing.T) {
	a := mustParse(t, zonetest.StandardArchive().Build(), WithCache(2))
	first, err := a.Zone(zonetest.NewYorkID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Zone(zonetest.NewYorkID)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("cached Zone() returned a new value")
	}

	if _, err := Parse(zonetest.StandardArchive().Build(), WithCache(0)); err == nil {
		t.Errorf("WithCache(0) accepted")
	}
}

func TestArchive_ZoneConcurrent(t *testing.T) {
	b := zonetest.StandardArchive().Build()
	ids := []string{zonetest.LondonID, zonetest.NewYorkID, zonetest.ReykjavikID}
	serial := mustParse(t, b)
	want := make(map[string]*Zone)
	for _, id := range ids {
		z, err := serial.Zone(id)
		if err != nil {
			t.Fatal(err)
		}
		want[id] = z
	}

	cases := []struct {
		name string
		opts []Option
	}{
		{"no cache", nil},
		{"cache", []Option{WithCache(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := mustParse(t, b, tc.opts...)
			var wg sync.WaitGroup
			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					for j := range ids {
						id := ids[(i+j)%len(ids)]
						got, err := a.Zone(id)
						if err != nil {
							t.Errorf("Zone(%q) error = %v", id, err)
							continue
						}
						if !got.Equal(want[id]) {
							t.Errorf("Zone(%q) differs from serial decode", id)
						}
					}
				}(i)
			}
			wg.Wait()
		})
	}
}

func TestParse_Corrupt(t *testing.T) {
	valid := zonetest.StandardArchive
	blob := zonetest.ValidBlob().Compact()
	cases := []struct {
		name    string
		archive func() []byte
	}{
		{"empty", func() []byte { return nil }},
		{"bad header", func() []byte {
			b := valid().Build()
			b[0] = 'a'
			return b
		}},
		{"unterminated version", func() []byte {
			b := valid().Build()
			b[11] = 'x'
			return b
		}},
		{"truncated offsets", func() []byte { return valid().Build()[:20] }},
		{"offsets out of order", func() []byte {
			a := valid()
			a.IndexOffset = zonetest.Uint32(10)
			a.DataOffset = zonetest.Uint32(30)
			return a.Build()
		}},
		{"zonetab outside file", func() []byte {
			a := valid()
			a.IndexOffset = zonetest.Uint32(24)
			a.DataOffset = zonetest.Uint32(24 + IndexEntrySize)
			a.ZoneTabOffset = zonetest.Uint32(3000)
			return a.Build()
		}},
		{"non-divisible index", func() []byte {
			a := valid()
			a.DataOffset = zonetest.Uint32(24 + IndexEntrySize - 1)
			return a.Build()
		}},
		{"empty id", func() []byte {
			return zonetest.Archive{Version: "2017c", Entries: []zonetest.Entry{{ID: "", Data: blob}}}.Build()
		}},
		{"ids out of order", func() []byte {
			return zonetest.Archive{Version: "2017c", Entries: []zonetest.Entry{
				{ID: "Europe/Zurich", Data: blob},
				{ID: "Europe/London", Data: blob},
			}}.Build()
		}},
		{"duplicate id", func() []byte {
			return zonetest.Archive{Version: "2017c", Entries: []zonetest.Entry{
				{ID: "Europe/London", Data: blob},
				{ID: "Europe/London", Data: blob},
			}}.Build()
		}},
		{"zone beyond data section", func() []byte {
			a := zonetest.Archive{Version: "2017c", Entries: []zonetest.Entry{{ID: "Europe/London", Data: blob}}}
			a.ZoneTabOffset = zonetest.Uint32(24 + IndexEntrySize + uint32(len(blob)) - 1)
			return a.Build()
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := Parse(tc.archive())
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("Parse() err = %v, want ErrCorrupt", err)
			}
			if a != nil {
				t.Errorf("Parse() returned a partial archive")
			}
		})
	}
}

func TestArchive_ValidateBadZones(t *testing.T) {
	b := zonetest.Archive{Version: "2017c", Entries: []zonetest.Entry{
		{ID: "Europe/London", Data: []byte("This is too short")},
		{ID: "Europe/Paris", Data: zonetest.ValidBlob().Compact()},
		{ID: "Europe/Zurich", Data: []byte("tzz1")},
	}}.Build()
	a := mustParse(t, b)

	err := a.Validate()
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Validate() err = %v, want ErrCorrupt", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Errorf("Validate() = %v, want two joined failures", err)
	}
	if _, err := a.Zone("Europe/Paris"); err != nil {
		t.Errorf("Zone(Europe/Paris) = %v, want nil", err)
	}
}

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad(t *testing.T) {
	good := writeFile(t, "tzdata", zonetest.StandardArchive().Build())
	a, err := Load(good, WithCache(4))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if a.Version() != "2017c" {
		t.Errorf("Version() = %q", a.Version())
	}

	bad := writeFile(t, "bad", zonetest.Archive{Version: "2017c", Entries: []zonetest.Entry{
		{ID: "Europe/London", Data: []byte("This is too short")},
	}}.Build())
	if _, err := Load(bad); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() err = %v, want ErrCorrupt", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() err = %v, want os.ErrNotExist", err)
	}
}

func TestLoadWithFallback(t *testing.T) {
	good := zonetest.StandardArchive()
	override := zonetest.StandardArchive()
	override.Version = "9999z"

	goodPath := writeFile(t, "tzdata", good.Build())
	overridePath := writeFile(t, "override", override.Build())
	emptyPath := writeFile(t, "empty", nil)
	corruptPath := writeFile(t, "corrupt", []byte("invalid content"))
	missingPath := filepath.Join(t.TempDir(), "missing")

	cases := []struct {
		name  string
		paths []string
		want  string
	}{
		{"empty override", []string{emptyPath, goodPath}, "2017c"},
		{"corrupt override", []string{corruptPath, goodPath}, "2017c"},
		{"good override", []string{overridePath, goodPath}, "9999z"},
		{"no good file", []string{missingPath, emptyPath, corruptPath}, BuiltinVersion},
		{"no paths", nil, BuiltinVersion},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := LoadWithFallback(tc.paths)
			if err != nil {
				t.Fatalf("LoadWithFallback() error = %v", err)
			}
			if got := a.Version(); got != tc.want {
				t.Errorf("Version() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoadWithFallback_Options(t *testing.T) {
	goodPath := writeFile(t, "tzdata", zonetest.StandardArchive().Build())
	missingPath := filepath.Join(t.TempDir(), "missing")

	for _, paths := range [][]string{{goodPath}, {missingPath}} {
		a, err := LoadWithFallback(paths, WithCache(4))
		if err != nil {
			t.Fatalf("LoadWithFallback(%q) error = %v", paths, err)
		}
		if a.cache == nil {
			t.Errorf("LoadWithFallback(%q) ignored WithCache", paths)
		}
		if _, err := LoadWithFallback(paths, WithCache(0)); err == nil {
			t.Errorf("LoadWithFallback(%q, WithCache(0)) succeeded", paths)
		}
	}
}

func TestBuiltin(t *testing.T) {
	a := Builtin()
	if diff := cmp.Diff(a.IDs(), []string{"GMT"}); diff != "" {
		t.Errorf("IDs() mismatch (-got +want):\n%s", diff)
	}
	gmt, err := a.Zone("GMT")
	if err != nil {
		t.Fatal(err)
	}
	if gmt.OffsetAt(zonetest.Summer2017) != 0 || gmt.UsesDST(0) {
		t.Errorf("GMT is not a fixed zero offset")
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestReadVersion(t *testing.T) {
	v, err := ReadVersion(bytes.NewReader(zonetest.StandardArchive().Build()))
	if err != nil || v != "2017c" {
		t.Errorf("ReadVersion() = %q, %v; want 2017c, nil", v, err)
	}
	for _, in := range [][]byte{nil, []byte("tzdata"), []byte("invalid content")} {
		if _, err := ReadVersion(bytes.NewReader(in)); !errors.Is(err, ErrCorrupt) {
			t.Errorf("ReadVersion(%q) err = %v, want ErrCorrupt", in, err)
		}
	}
}
