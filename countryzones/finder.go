package countryzones

import "github.com/ngrash/go-tzfinder/zoneinfo"

// Finder indexes country records by country code and by zone id.
type Finder struct {
	countries []*CountryTimeZones
	byISO     map[string]*CountryTimeZones
}

// NewFinder indexes countries. If two records share a code, the first wins
// lookups by code; both are still returned by CountriesForZone.
func NewFinder(countries []*CountryTimeZones) *Finder {
	f := &Finder{
		countries: append([]*CountryTimeZones(nil), countries...),
		byISO:     make(map[string]*CountryTimeZones, len(countries)),
	}
	for _, c := range f.countries {
		if _, ok := f.byISO[c.iso]; !ok {
			f.byISO[c.iso] = c
		}
	}
	return f
}

// CountryISOCodes returns the codes of all records in input order.
func (f *Finder) CountryISOCodes() []string {
	codes := make([]string, len(f.countries))
	for i, c := range f.countries {
		codes[i] = c.iso
	}
	return codes
}

// CountriesForZone returns the records that list id, in input order.
// The result is empty, never nil, when no record lists id.
func (f *Finder) CountriesForZone(id string) []*CountryTimeZones {
	out := []*CountryTimeZones{}
	for _, c := range f.countries {
		if c.hasZone(id) {
			out = append(out, c)
		}
	}
	return out
}

// Country returns the record for iso, ignoring case.
func (f *Finder) Country(iso string) (*CountryTimeZones, bool) {
	c, ok := f.byISO[normalize(iso)]
	return c, ok
}

// DefaultTimeZoneID returns the default zone id of iso. ok is false if the
// country is unknown or has no default.
func (f *Finder) DefaultTimeZoneID(iso string) (id string, ok bool) {
	c, ok := f.Country(iso)
	if !ok || c.defaultID == "" {
		return "", false
	}
	return c.defaultID, true
}

// TimeZoneIDs returns the zone ids of iso.
func (f *Finder) TimeZoneIDs(iso string) ([]string, bool) {
	c, ok := f.Country(iso)
	if !ok {
		return nil, false
	}
	return c.TimeZoneIDs(), true
}

// LookupByCountryAndOffset resolves a zone of iso from an offset and daylight
// saving flag, as CountryTimeZones.LookupByOffsetAndDSTFlag does.
func (f *Finder) LookupByCountryAndOffset(iso string, offset int32, isDST bool, when int64, bias string) (*zoneinfo.Zone, bool) {
	c, ok := f.Country(iso)
	if !ok {
		return nil, false
	}
	r, ok := c.LookupByOffsetAndDSTFlag(offset, isDST, when, bias)
	return r.Zone, ok
}
