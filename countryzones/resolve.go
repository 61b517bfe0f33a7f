package countryzones

import "github.com/ngrash/go-tzfinder/zoneinfo"

// OffsetResult is the zone picked by a lookup. OneMatch is false if other
// zones of the country matched as well.
type OffsetResult struct {
	Zone     *zoneinfo.Zone
	OneMatch bool
}

// LookupByOffsetWithBias returns the zone of c whose total offset at when is
// offset and whose daylight saving part agrees with dst. If several zones
// match, the zone named bias wins if it is one of them, otherwise the first
// match in configured order. bias may be "". ok is false if nothing matches.
func (c *CountryTimeZones) LookupByOffsetWithBias(offset int32, dst DST, when int64, bias string) (r OffsetResult, ok bool) {
	return c.lookup(bias, func(z *zoneinfo.Zone) bool {
		raw, d := z.OffsetsAt(when)
		return raw+d == offset && dst.matches(d)
	})
}

// LookupByOffsetAndDSTFlag is LookupByOffsetWithBias for callers that only
// know whether daylight saving time is in force.
func (c *CountryTimeZones) LookupByOffsetAndDSTFlag(offset int32, isDST bool, when int64, bias string) (r OffsetResult, ok bool) {
	return c.lookup(bias, func(z *zoneinfo.Zone) bool {
		return z.OffsetAt(when) == offset && z.IsDSTAt(when) == isDST
	})
}

func (c *CountryTimeZones) lookup(bias string, match func(*zoneinfo.Zone) bool) (OffsetResult, bool) {
	var first, biased *zoneinfo.Zone
	n := 0
	for _, z := range c.zones {
		if !match(z) {
			continue
		}
		n++
		if first == nil {
			first = z
		}
		if bias != "" && z.ID() == bias {
			biased = z
		}
	}
	switch {
	case n == 0:
		return OffsetResult{}, false
	case n == 1:
		return OffsetResult{Zone: first, OneMatch: true}, true
	case biased != nil:
		return OffsetResult{Zone: biased}, true
	default:
		return OffsetResult{Zone: first}, true
	}
}

// IsDefaultOkForCountryTimeZoneDetection reports whether every zone of c has
// the same offset at when, so that the default zone is as good as any.
// It is false for a country without zones.
func (c *CountryTimeZones) IsDefaultOkForCountryTimeZoneDetection(when int64) bool {
	if len(c.zones) == 0 {
		return false
	}
	want := c.zones[0].OffsetAt(when)
	for _, z := range c.zones[1:] {
		if z.OffsetAt(when) != want {
			return false
		}
	}
	return true
}

// HasUTCZone reports whether c ever uses UTC and one of its zones has a zero
// offset at when.
func (c *CountryTimeZones) HasUTCZone(when int64) bool {
	if !c.everUsesUTC {
		return false
	}
	for _, z := range c.zones {
		if z.OffsetAt(when) == 0 {
			return true
		}
	}
	return false
}
