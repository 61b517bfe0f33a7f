package countryzones

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzfinder/internal/zonetest"
	"github.com/ngrash/go-tzfinder/zoneinfo"
)

const invalidID = "Moon/Tranquility_Base"

var testArchive = func() *zoneinfo.Archive {
	a, err := zoneinfo.Parse(zonetest.StandardArchive().Build())
	if err != nil {
		panic(err)
	}
	return a
}()

func mappings(ids ...string) []TimeZoneMapping {
	out := make([]TimeZoneMapping, len(ids))
	for i, id := range ids {
		out[i] = TimeZoneMapping{ID: id, ShownInPicker: true}
	}
	return out
}

func country(iso, defaultID string, everUsesUTC bool, ids ...string) *CountryTimeZones {
	return New(iso, defaultID, everUsesUTC, mappings(ids...), testArchive)
}

func zoneIDs(zones []*zoneinfo.Zone) []string {
	ids := make([]string, len(zones))
	for i, z := range zones {
		ids[i] = z.ID()
	}
	return ids
}

func TestNew(t *testing.T) {
	c := country("gb", zonetest.LondonID, true, zonetest.LondonID)

	if !c.IsForCountryCode("gb") {
		t.Errorf("IsForCountryCode(gb) = false")
	}
	if got := c.DefaultTimeZoneID(); got != zonetest.LondonID {
		t.Errorf("DefaultTimeZoneID() = %q, want %q", got, zonetest.LondonID)
	}
	if z := c.DefaultTimeZone(); z == nil || z.ID() != zonetest.LondonID {
		t.Errorf("DefaultTimeZone() = %v, want %s", z, zonetest.LondonID)
	}
	if diff := cmp.Diff(c.Mappings(), mappings(zonetest.LondonID)); diff != "" {
		t.Errorf("Mappings() mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(zoneIDs(c.Zones()), []string{zonetest.LondonID}); diff != "" {
		t.Errorf("Zones() mismatch (-got +want):\n%s", diff)
	}
	if !c.EverUsesUTC() {
		t.Errorf("EverUsesUTC() = false")
	}
}

func TestNew_NoDefault(t *testing.T) {
	c := country("gb", "", true, zonetest.LondonID)
	if got := c.DefaultTimeZoneID(); got != "" {
		t.Errorf("DefaultTimeZoneID() = %q, want empty", got)
	}
	if z := c.DefaultTimeZone(); z != nil {
		t.Errorf("DefaultTimeZone() = %v, want nil", z)
	}
}

func TestNew_DefaultCleared(t *testing.T) {
	cases := []struct {
		name      string
		defaultID string
		ids       []string
	}{
		{"unresolvable default", invalidID, []string{zonetest.LondonID, invalidID}},
		{"default not a candidate", zonetest.NewYorkID, []string{zonetest.LondonID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := country("gb", tc.defaultID, true, tc.ids...)
			if got := c.DefaultTimeZoneID(); got != "" {
				t.Errorf("DefaultTimeZoneID() = %q, want empty", got)
			}
			if diff := cmp.Diff(c.TimeZoneIDs(), []string{zonetest.LondonID}); diff != "" {
				t.Errorf("TimeZoneIDs() mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestNew_UnknownZonesDropped(t *testing.T) {
	c := country("gb", zonetest.LondonID, true, invalidID, zonetest.LondonID, "Europe/Nowhere")
	if diff := cmp.Diff(c.Mappings(), mappings(zonetest.LondonID)); diff != "" {
		t.Errorf("Mappings() mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(zoneIDs(c.Zones()), []string{zonetest.LondonID}); diff != "" {
		t.Errorf("Zones() mismatch (-got +want):\n%s", diff)
	}
}

func TestIsForCountryCode(t *testing.T) {
	for _, iso := range []string{"gb", "GB"} {
		c := country(iso, zonetest.LondonID, true, zonetest.LondonID)
		if c.ISO() != "gb" {
			t.Errorf("ISO() = %q, want gb", c.ISO())
		}
		for _, code := range []string{"gb", "GB", "Gb", "gB"} {
			if !c.IsForCountryCode(code) {
				t.Errorf("IsForCountryCode(%q) = false", code)
			}
		}
		if c.IsForCountryCode("fr") {
			t.Errorf("IsForCountryCode(fr) = true")
		}
	}
}

func TestCountryTimeZones_AccessorsReturnCopies(t *testing.T) {
	notAfter := int64(1234)
	in := []TimeZoneMapping{{ID: zonetest.NewYorkID, ShownInPicker: true, NotUsedAfter: &notAfter}}
	c := New("us", zonetest.NewYorkID, false, in, testArchive)

	in[0].ID = "changed"
	notAfter = 1

	got := c.Mappings()
	got[0].ID = "changed"
	*got[0].NotUsedAfter = 1
	zones := c.Zones()
	zones[0] = nil
	ids := c.TimeZoneIDs()
	ids[0] = "changed"

	m := c.Mappings()[0]
	if m.ID != zonetest.NewYorkID || m.NotUsedAfter == nil || *m.NotUsedAfter != 1234 {
		t.Errorf("Mappings()[0] = %+v, want %s not used after 1234", m, zonetest.NewYorkID)
	}
	if c.Zones()[0] == nil || c.TimeZoneIDs()[0] != zonetest.NewYorkID {
		t.Errorf("published state was modified through a returned slice")
	}
}

func TestEffectiveMappingsAt(t *testing.T) {
	notAfter := int64(1000)
	in := []TimeZoneMapping{
		{ID: zonetest.NewYorkID, ShownInPicker: true, NotUsedAfter: &notAfter},
		{ID: zonetest.LosAngelesID, ShownInPicker: false},
	}
	c := New("us", zonetest.NewYorkID, false, in, testArchive)

	ids := func(ms []TimeZoneMapping) []string {
		var out []string
		for _, m := range ms {
			out = append(out, m.ID)
		}
		return out
	}
	if diff := cmp.Diff(ids(c.EffectiveMappingsAt(1000)), []string{zonetest.NewYorkID, zonetest.LosAngelesID}); diff != "" {
		t.Errorf("EffectiveMappingsAt(1000) mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(ids(c.EffectiveMappingsAt(1001)), []string{zonetest.LosAngelesID}); diff != "" {
		t.Errorf("EffectiveMappingsAt(1001) mismatch (-got +want):\n%s", diff)
	}
}
