package countryzones

// TimeZoneMapping is one candidate zone of a country.
type TimeZoneMapping struct {
	ID string
	// ShownInPicker is true if the zone should be offered to users choosing a zone manually.
	ShownInPicker bool
	// NotUsedAfter, if set, is the instant after which the zone no longer differs
	// from another zone of the country.
	NotUsedAfter *int64
}

// EffectiveAt reports whether m still applies at t.
func (m TimeZoneMapping) EffectiveAt(t int64) bool {
	return m.NotUsedAfter == nil || *m.NotUsedAfter >= t
}

func (m TimeZoneMapping) clone() TimeZoneMapping {
	if m.NotUsedAfter != nil {
		v := *m.NotUsedAfter
		m.NotUsedAfter = &v
	}
	return m
}

func cloneMappings(in []TimeZoneMapping) []TimeZoneMapping {
	out := make([]TimeZoneMapping, len(in))
	for i, m := range in {
		out[i] = m.clone()
	}
	return out
}
