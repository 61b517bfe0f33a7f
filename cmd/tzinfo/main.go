// tzinfo prints the contents of a zone archive, of one zone in it, or of a
// single zone blob file.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/ngrash/go-tzfinder/internal/bufferio"
	"github.com/ngrash/go-tzfinder/internal/unixtime"
	"github.com/ngrash/go-tzfinder/tzif"
	"github.com/ngrash/go-tzfinder/zoneinfo"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		zoneID  string
		blob    bool
		at      int64
		verbose bool
	)
	flags := pflag.NewFlagSet("tzinfo", pflag.ContinueOnError)
	flags.StringVarP(&zoneID, "zone", "z", "", "print the zone with this id instead of the archive index")
	flags.BoolVar(&blob, "blob", false, "the file is a single zone blob, not an archive")
	flags.Int64Var(&at, "at", time.Now().Unix(), "instant in Unix seconds for offset queries")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tzinfo [flags] <file>")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	setupLogging(verbose)

	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("expected one file, got %d", flags.NArg())
	}
	path := flags.Arg(0)

	if blob {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		z, err := zoneinfo.DecodeZone(path, bufferio.New(b))
		if err != nil {
			return err
		}
		printZone(out, z, at)
		if bytes.HasPrefix(b, tzif.Magic[:]) {
			return printDesignations(out, b)
		}
		return nil
	}

	a, err := zoneinfo.Load(path)
	if err != nil {
		return err
	}
	slog.Debug("archive loaded", "path", path, "version", a.Version(), "zones", len(a.Entries()))

	if zoneID == "" {
		printArchive(out, a)
		return nil
	}
	z, err := a.Zone(zoneID)
	if err != nil {
		return err
	}
	printZone(out, z, at)
	return nil
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func printArchive(w io.Writer, a *zoneinfo.Archive) {
	entries := a.Entries()
	fmt.Fprintln(w, "Archive")
	fmt.Fprintln(w, "  version =", a.Version())
	fmt.Fprintln(w, "  zones   =", len(entries))
	fmt.Fprintln(w, "  zonetab =", len(a.ZoneTab()), "bytes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Index")
	for _, e := range entries {
		fmt.Fprintf(w, "  %-40s start=%d length=%d\n", e.ID, e.Start, e.Length)
	}
}

func printZone(w io.Writer, z *zoneinfo.Zone, at int64) {
	types := z.Types()
	transitions := z.Transitions()

	fmt.Fprintln(w, "Zone", z.ID())
	fmt.Fprintf(w, "  Types (%d)\n", len(types))
	for i, t := range types {
		fmt.Fprintf(w, "    %3d offset=%d dst=%t\n", i, t.UTCOffset, t.IsDST)
	}
	fmt.Fprintf(w, "  Transitions (%d)\n", len(transitions))
	for _, t := range transitions {
		fmt.Fprintf(w, "    %s type=%d\n", unixtime.Format(int64(t.Instant)), t.TypeIndex)
	}
	fmt.Fprintln(w)

	raw, dst := z.OffsetsAt(at)
	fmt.Fprintln(w, "At", unixtime.Format(at))
	fmt.Fprintln(w, "  offset     =", z.OffsetAt(at))
	fmt.Fprintln(w, "  raw        =", raw)
	fmt.Fprintln(w, "  dst        =", dst)
	fmt.Fprintln(w, "  isdst      =", z.IsDSTAt(at))
	fmt.Fprintln(w, "  usesdst    =", z.UsesDST(at))
	fmt.Fprintln(w, "  dstsavings =", z.DSTSavings(at))
	fmt.Fprintln(w, "  rawoffset  =", z.RawOffset())
}

func printDesignations(w io.Writer, b []byte) error {
	d, err := tzif.DecodeBytes(b)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Designations")
	for i, t := range d.V1Data.LocalTimeTypes {
		fmt.Fprintf(w, "  %3d %s\n", i, d.V1Data.Designation(t))
	}
	return nil
}
