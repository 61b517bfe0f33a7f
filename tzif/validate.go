package tzif

import (
	"errors"
	"fmt"
)

// Validate checks d against the MUST-level requirements of RFC 8536 for the
// v1 header and data block. All violations are reported together.
func Validate(d Data) error {
	var (
		errs   []error
		data   = d.V1Data
		header = d.Header
	)

	// Isutcnt
	if header.Isutcnt != 0 && header.Isutcnt != header.Typecnt {
		errs = append(errs, fmt.Errorf("invalid isutcnt (%d): must be 0 or equal to typecnt (%d)", header.Isutcnt, header.Typecnt))
	}
	if len(data.UTLocalIndicators) != int(header.Isutcnt) {
		errs = append(errs, fmt.Errorf("invalid isutcnt: header = %d, data = %d", header.Isutcnt, len(data.UTLocalIndicators)))
	}

	// Isstdcnt
	if header.Isstdcnt != 0 && header.Isstdcnt != header.Typecnt {
		errs = append(errs, fmt.Errorf("invalid isstdcnt (%d): must be 0 or equal to typecnt (%d)", header.Isstdcnt, header.Typecnt))
	}
	if len(data.StandardWallIndicators) != int(header.Isstdcnt) {
		errs = append(errs, fmt.Errorf("invalid isstdcnt: header = %d, data = %d", header.Isstdcnt, len(data.StandardWallIndicators)))
	}
	for i, ut := range data.UTLocalIndicators {
		if ut && i < len(data.StandardWallIndicators) && !data.StandardWallIndicators[i] {
			errs = append(errs, fmt.Errorf("type %d: UT indicator set without standard indicator", i))
		}
	}

	// Leapcnt
	if len(data.LeapSecondRecords) != int(header.Leapcnt) {
		errs = append(errs, fmt.Errorf("invalid leapcnt: header = %d, data = %d", header.Leapcnt, len(data.LeapSecondRecords)))
	}

	// Timecnt
	if len(data.TransitionTimes) != int(header.Timecnt) {
		errs = append(errs, fmt.Errorf("invalid timecnt: header = %d, transition times = %d", header.Timecnt, len(data.TransitionTimes)))
	}
	if times, types := len(data.TransitionTimes), len(data.TransitionTypes); times != types {
		errs = append(errs, fmt.Errorf("inconsistent transitions: transition times = %d, transition types = %d", times, types))
	}
	for i := 1; i < len(data.TransitionTimes); i++ {
		if data.TransitionTimes[i] <= data.TransitionTimes[i-1] {
			errs = append(errs, fmt.Errorf("transition %d (%d) not after transition %d (%d)", i, data.TransitionTimes[i], i-1, data.TransitionTimes[i-1]))
		}
	}
	for i, typ := range data.TransitionTypes {
		if uint32(typ) >= header.Typecnt {
			errs = append(errs, fmt.Errorf("transition %d: type index %d out of range [0, %d)", i, typ, header.Typecnt))
		}
	}

	// Typecnt
	if header.Typecnt == 0 {
		errs = append(errs, fmt.Errorf("invalid typecnt: must not be zero"))
	}
	if len(data.LocalTimeTypes) != int(header.Typecnt) {
		errs = append(errs, fmt.Errorf("invalid typecnt: header = %d, data = %d", header.Typecnt, len(data.LocalTimeTypes)))
	}

	// Charcnt
	if header.Charcnt == 0 {
		errs = append(errs, fmt.Errorf("invalid charcnt: must not be zero"))
	}
	if len(data.TimeZoneDesignation) != int(header.Charcnt) {
		errs = append(errs, fmt.Errorf("invalid charcnt: header = %d, data = %d", header.Charcnt, len(data.TimeZoneDesignation)))
	}
	if n := len(data.TimeZoneDesignation); n > 0 && data.TimeZoneDesignation[n-1] != 0 {
		errs = append(errs, fmt.Errorf("invalid time zone designations: missing null terminator"))
	}
	for i, t := range data.LocalTimeTypes {
		if int(t.Idx) >= len(data.TimeZoneDesignation) {
			errs = append(errs, fmt.Errorf("type %d: designation index %d out of range [0, %d)", i, t.Idx, len(data.TimeZoneDesignation)))
		}
	}
	return errors.Join(errs...)
}
