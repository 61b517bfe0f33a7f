package unixtime

import (
	"testing"
	"time"
)

func TestFromDateTime(t *testing.T) {
	cases := []struct {
		y, mo, d, h, mi, s int
	}{
		{1970, 1, 1, 0, 0, 0},
		{1969, 12, 31, 23, 59, 59},
		{2000, 2, 29, 12, 0, 0},
		{2017, 7, 22, 13, 14, 15},
		{2018, 1, 22, 13, 14, 15},
		{1901, 12, 13, 20, 45, 52},
		{2038, 1, 19, 3, 14, 7},
		{1600, 3, 1, 0, 0, 0},
	}
	for _, tc := range cases {
		want := time.Date(tc.y, time.Month(tc.mo), tc.d, tc.h, tc.mi, tc.s, 0, time.UTC).Unix()
		if got := FromDateTime(tc.y, tc.mo, tc.d, tc.h, tc.mi, tc.s); got != want {
			t.Errorf("FromDateTime(%v) = %d, want %d", tc, got, want)
		}
		y, mo, d, h, mi, s := ToDateTime(want)
		if y != tc.y || mo != tc.mo || d != tc.d || h != tc.h || mi != tc.mi || s != tc.s {
			t.Errorf("ToDateTime(%d) = %d-%d-%d %d:%d:%d, want %v", want, y, mo, d, h, mi, s, tc)
		}
	}
}

func TestFormat(t *testing.T) {
	if got, want := Format(1500729255), "2017-07-22T13:14:15Z"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	if got, want := Format(-1), "1969-12-31T23:59:59Z"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
