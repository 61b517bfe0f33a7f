// tzfind answers questions about the time zones of countries.
//
//	tzfind [flags] zones <country>
//	tzfind [flags] countries <zone id>
//	tzfind [flags] lookup <country> <offset seconds>
//
// Negative offsets follow "--", as in "tzfind -c countries.yaml lookup us -- -18000".
// Countries come from a YAML file given with --config. The zone archive is
// the first of --archive or the file's archives that loads, or a built-in
// GMT-only archive.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/ngrash/go-tzfinder/countryzones"
	"github.com/ngrash/go-tzfinder/internal/unixtime"
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

type options struct {
	config   string
	archives []string
	at       int64
	dst      string
	bias     string
	cache    int
	verbose  bool
}

func run(args []string, out io.Writer) error {
	var o options
	flags := pflag.NewFlagSet("tzfind", pflag.ContinueOnError)
	flags.StringVarP(&o.config, "config", "c", "", "country file (required)")
	flags.StringSliceVar(&o.archives, "archive", nil, "zone archive to try, in order; replaces the archives of the country file")
	flags.Int64Var(&o.at, "at", time.Now().Unix(), "instant in Unix seconds")
	flags.StringVar(&o.dst, "dst", "unknown", `daylight saving state for lookup: "unknown", savings in seconds ("0" for none), or "yes"/"no" to match the DST flag only`)
	flags.StringVar(&o.bias, "bias", "", "zone to prefer when several match")
	flags.IntVar(&o.cache, "cache", 64, "number of decoded zones to cache")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log debug messages")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tzfind [flags] zones <country> | countries <zone id> | lookup <country> <offset>")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if o.config == "" {
		flags.Usage()
		return errors.New("--config is required")
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("missing command")
	}

	cfg, err := LoadConfig(o.config)
	if err != nil {
		return err
	}
	paths := cfg.Archives
	if len(o.archives) > 0 {
		paths = o.archives
	}
	var opts []zoneinfo.Option
	if o.cache > 0 {
		opts = append(opts, zoneinfo.WithCache(o.cache))
	}
	a, err := zoneinfo.LoadWithFallback(paths, opts...)
	if err != nil {
		return err
	}
	slog.Debug("using zone archive", "version", a.Version(), "zones", len(a.Entries()))
	f := cfg.Finder(a)

	cmd, rest := flags.Arg(0), flags.Args()[1:]
	switch cmd {
	case "zones":
		if len(rest) != 1 {
			return errors.New("usage: zones <country>")
		}
		return printZones(out, f, rest[0], o.at)
	case "countries":
		if len(rest) != 1 {
			return errors.New("usage: countries <zone id>")
		}
		for _, c := range f.CountriesForZone(rest[0]) {
			fmt.Fprintln(out, c.ISO())
		}
		return nil
	case "lookup":
		if len(rest) != 2 {
			return errors.New("usage: lookup <country> <offset>")
		}
		offset, err := strconv.ParseInt(rest[1], 10, 32)
		if err != nil {
			return fmt.Errorf("offset: %w", err)
		}
		return lookup(out, f, rest[0], int32(offset), o)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printZones(w io.Writer, f *countryzones.Finder, iso string, at int64) error {
	c, ok := f.Country(iso)
	if !ok {
		return fmt.Errorf("unknown country %q", iso)
	}
	def, _ := f.DefaultTimeZoneID(iso)
	fmt.Fprintln(w, "Country", c.ISO(), "at", unixtime.Format(at))
	fmt.Fprintln(w, "  default    =", def)
	fmt.Fprintln(w, "  everutc    =", c.EverUsesUTC())
	fmt.Fprintln(w, "  hasutc     =", c.HasUTCZone(at))
	fmt.Fprintln(w, "  defaultok  =", c.IsDefaultOkForCountryTimeZoneDetection(at))
	effective := make(map[string]bool)
	for _, m := range c.EffectiveMappingsAt(at) {
		effective[m.ID] = true
	}
	for i, z := range c.Zones() {
		m := c.Mappings()[i]
		fmt.Fprintf(w, "  %-40s offset=%d dst=%t picker=%t effective=%t\n",
			z.ID(), z.OffsetAt(at), z.IsDSTAt(at), m.ShownInPicker, effective[m.ID])
	}
	return nil
}

func lookup(w io.Writer, f *countryzones.Finder, iso string, offset int32, o options) error {
	if o.dst == "yes" || o.dst == "no" {
		z, ok := f.LookupByCountryAndOffset(iso, offset, o.dst == "yes", o.at, o.bias)
		if !ok {
			return errNoMatch
		}
		fmt.Fprintln(w, z.ID())
		return nil
	}

	dst := countryzones.UnknownDST()
	if o.dst != "unknown" {
		s, err := strconv.ParseInt(o.dst, 10, 32)
		if err != nil {
			return fmt.Errorf("--dst: %w", err)
		}
		dst = countryzones.Savings(int32(s))
	}
	c, ok := f.Country(iso)
	if !ok {
		return fmt.Errorf("unknown country %q", iso)
	}
	r, ok := c.LookupByOffsetWithBias(offset, dst, o.at, o.bias)
	if !ok {
		return errNoMatch
	}
	if r.OneMatch {
		fmt.Fprintln(w, r.Zone.ID())
	} else {
		fmt.Fprintln(w, r.Zone.ID(), "(one of several)")
	}
	return nil
}

var errNoMatch = errors.New("no matching zone")
