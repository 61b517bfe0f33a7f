// tzdiff reports the differences between two zone archives.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/pflag"

	"github.com/ngrash/go-tzfinder/zoneinfo"
)

func main() {
	identical, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if !identical {
		os.Exit(1)
	}
}

// zoneData is the comparable content of a zone.
type zoneData struct {
	Types       []zoneinfo.Type
	Transitions []zoneinfo.Transition
}

// archiveData is the comparable content of an archive.
type archiveData struct {
	Version string
	Zones   map[string]zoneData
	ZoneTab string
}

func run(args []string, out io.Writer) (bool, error) {
	var (
		ignoreVersion bool
		verbose       bool
	)
	flags := pflag.NewFlagSet("tzdiff", pflag.ContinueOnError)
	flags.BoolVar(&ignoreVersion, "ignore-version", false, "do not compare the archive versions")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tzdiff [flags] <archive A> <archive B>")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return false, err
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flags.NArg() != 2 {
		flags.Usage()
		return false, fmt.Errorf("expected two files, got %d", flags.NArg())
	}

	a, err := readArchive(flags.Arg(0))
	if err != nil {
		return false, err
	}
	b, err := readArchive(flags.Arg(1))
	if err != nil {
		return false, err
	}

	opts := []cmp.Option{cmpopts.EquateEmpty()}
	if ignoreVersion {
		opts = append(opts, cmpopts.IgnoreFields(archiveData{}, "Version"))
	}
	if diff := cmp.Diff(a, b, opts...); diff != "" {
		fmt.Fprintln(out, "archives are different: -A +B")
		fmt.Fprintln(out, diff)
		return false, nil
	}
	fmt.Fprintln(out, "archives are identical")
	return true, nil
}

func readArchive(path string) (archiveData, error) {
	a, err := zoneinfo.Load(path)
	if err != nil {
		return archiveData{}, err
	}
	d := archiveData{
		Version: a.Version(),
		Zones:   make(map[string]zoneData),
		ZoneTab: string(a.ZoneTab()),
	}
	for _, id := range a.IDs() {
		z, err := a.Zone(id)
		if err != nil {
			return archiveData{}, err
		}
		d.Zones[id] = zoneData{Types: z.Types(), Transitions: z.Transitions()}
	}
	slog.Debug("archive read", "path", path, "version", d.Version, "zones", len(d.Zones))
	return d, nil
}
