// Package countryzones holds the candidate time zones of each country and
// picks one of them from an observed UTC offset.
package countryzones

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/ngrash/go-tzfinder/zoneinfo"
)

// ZoneSource resolves zone ids. *zoneinfo.Archive implements it.
type ZoneSource interface {
	Zone(id string) (*zoneinfo.Zone, error)
}

// CountryTimeZones is the immutable zone record of one country.
type CountryTimeZones struct {
	iso         string
	defaultID   string
	everUsesUTC bool
	mappings    []TimeZoneMapping
	zones       []*zoneinfo.Zone // zones[i] is mappings[i].ID
}

// New builds a country record. Mappings whose zone src cannot resolve are
// dropped, and defaultID is cleared unless it names a surviving mapping.
// iso is matched case-insensitively.
func New(iso, defaultID string, everUsesUTC bool, mappings []TimeZoneMapping, src ZoneSource) *CountryTimeZones {
	c := &CountryTimeZones{
		iso:         normalize(iso),
		everUsesUTC: everUsesUTC,
	}
	for _, m := range mappings {
		z, err := src.Zone(m.ID)
		if err != nil {
			slog.Debug("skipping unresolvable zone", "country", c.iso, "zone", m.ID, "error", err)
			continue
		}
		c.mappings = append(c.mappings, m.clone())
		c.zones = append(c.zones, z)
	}
	if defaultID != "" {
		if slices.ContainsFunc(c.mappings, func(m TimeZoneMapping) bool { return m.ID == defaultID }) {
			c.defaultID = defaultID
		} else {
			slog.Debug("clearing default zone", "country", c.iso, "zone", defaultID)
		}
	}
	return c
}

func normalize(iso string) string { return strings.ToLower(iso) }

// ISO returns the lower-case country code.
func (c *CountryTimeZones) ISO() string { return c.iso }

// IsForCountryCode reports whether code names this country, ignoring case.
func (c *CountryTimeZones) IsForCountryCode(code string) bool {
	return normalize(code) == c.iso
}

// DefaultTimeZoneID returns the default zone id, or "" if there is none.
func (c *CountryTimeZones) DefaultTimeZoneID() string { return c.defaultID }

// DefaultTimeZone returns the default zone, or nil if there is none.
func (c *CountryTimeZones) DefaultTimeZone() *zoneinfo.Zone {
	for i, m := range c.mappings {
		if m.ID == c.defaultID {
			return c.zones[i]
		}
	}
	return nil
}

// EverUsesUTC reports whether the country has ever used an offset of zero.
func (c *CountryTimeZones) EverUsesUTC() bool { return c.everUsesUTC }

// Mappings returns a copy of the surviving mappings in configured order.
func (c *CountryTimeZones) Mappings() []TimeZoneMapping { return cloneMappings(c.mappings) }

// EffectiveMappingsAt returns the mappings that still apply at t.
func (c *CountryTimeZones) EffectiveMappingsAt(t int64) []TimeZoneMapping {
	var out []TimeZoneMapping
	for _, m := range c.mappings {
		if m.EffectiveAt(t) {
			out = append(out, m.clone())
		}
	}
	return out
}

// TimeZoneIDs returns the ids of the surviving mappings.
func (c *CountryTimeZones) TimeZoneIDs() []string {
	ids := make([]string, len(c.mappings))
	for i, m := range c.mappings {
		ids[i] = m.ID
	}
	return ids
}

// Zones returns the resolved zones in mapping order.
func (c *CountryTimeZones) Zones() []*zoneinfo.Zone { return slices.Clone(c.zones) }

func (c *CountryTimeZones) hasZone(id string) bool {
	return slices.ContainsFunc(c.mappings, func(m TimeZoneMapping) bool { return m.ID == id })
}
