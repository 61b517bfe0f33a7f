// Package unixtime converts between proleptic Gregorian UTC date-times and
// Unix seconds without consulting time.Location.
package unixtime

import "fmt"

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	// daysPerEra is the length of one 400-year Gregorian cycle.
	daysPerEra = 365*400 + 97
	// epochShift is the number of days from 0000-03-01 to 1970-01-01.
	epochShift = 719468
)

// FromDateTime returns the Unix time of the given UTC date and time.
// Leap seconds are ignored. Month is 1-based.
func FromDateTime(year, month, day, hour, minute, second int) int64 {
	days := daysFromCivil(int64(year), int64(month), int64(day))
	return days*secondsPerDay + int64(hour)*secondsPerHour + int64(minute)*secondsPerMinute + int64(second)
}

// ToDateTime is the inverse of FromDateTime.
func ToDateTime(unix int64) (year, month, day, hour, minute, second int) {
	days := floorDiv(unix, secondsPerDay)
	rem := unix - days*secondsPerDay
	y, m, d := civilFromDays(days)
	return int(y), int(m), int(d), int(rem / secondsPerHour), int(rem % secondsPerHour / secondsPerMinute), int(rem % secondsPerMinute)
}

// Format renders unix as an ISO 8601 UTC timestamp, e.g. "2017-07-22T13:14:15Z".
func Format(unix int64) string {
	y, mo, d, h, mi, s := ToDateTime(unix)
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ", y, mo, d, h, mi, s)
}

// daysFromCivil counts days since 1970-01-01. Years are shifted to start in
// March so that the leap day is the last day of the computational year.
func daysFromCivil(y, m, d int64) int64 {
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*daysPerEra + doe - epochShift
}

func civilFromDays(z int64) (y, m, d int64) {
	z += epochShift
	era := floorDiv(z, daysPerEra)
	doe := z - era*daysPerEra
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d = doy - (153*mp+2)/5 + 1
	m = mp + 3
	if m > 12 {
		m -= 12
	}
	y = yoe + era*400
	if m <= 2 {
		y++
	}
	return y, m, d
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
