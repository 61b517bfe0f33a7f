package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ngrash/go-tzfinder/internal/zonetest"
	"github.com/ngrash/go-tzfinder/zoneinfo"
)

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Archive(t *testing.T) {
	path := writeFile(t, "tzdata", zonetest.StandardArchive().Build())

	var out bytes.Buffer
	if err := run([]string{path}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"version = 2017c", "zones   = 6", zonetest.LondonID, zonetest.UTCID} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Zone(t *testing.T) {
	path := writeFile(t, "tzdata", zonetest.StandardArchive().Build())
	at := strconv.FormatInt(zonetest.Summer2017, 10)

	var out bytes.Buffer
	if err := run([]string{"--zone", zonetest.LondonID, "--at", at, path}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{
		"Zone " + zonetest.LondonID,
		"Transitions (5)",
		"2017-03-26T01:00:00Z type=1",
		"At 2017-07-22T13:14:15Z",
		"offset     = 3600",
		"isdst      = true",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Blob(t *testing.T) {
	path := writeFile(t, "reykjavik", zonetest.Reykjavik.TZif())

	var out bytes.Buffer
	if err := run([]string{"--blob", path}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"Types (2)", "Designations", "  1 ZZZ"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Errors(t *testing.T) {
	good := writeFile(t, "tzdata", zonetest.StandardArchive().Build())
	bad := writeFile(t, "bad", []byte("tzdata2017c\x00"))

	cases := []struct {
		name string
		args []string
		want error
	}{
		{"unknown zone", []string{"--zone", "Moon/Base", good}, zoneinfo.ErrNotFound},
		{"corrupt archive", []string{bad}, zoneinfo.ErrCorrupt},
		{"corrupt blob", []string{"--blob", bad}, zoneinfo.ErrCorrupt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := run(tc.args, &bytes.Buffer{})
			if !errors.Is(err, tc.want) {
				t.Errorf("run() error = %v, want %v", err, tc.want)
			}
		})
	}

	if err := run(nil, &bytes.Buffer{}); err == nil {
		t.Errorf("run() without file succeeded")
	}
}
