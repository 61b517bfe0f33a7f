package zoneinfo

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt is wrapped by every archive and zone decode failure.
	ErrCorrupt = errors.New("zoneinfo: corrupt data")
	// ErrNotFound is returned by Archive.Zone for ids the archive does not contain.
	ErrNotFound = errors.New("zoneinfo: zone not found")
)

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)
}
