// Package config defines the per-session build configuration variants
// and the tool-level settings loaded from flags and config files.
package config

import (
	"github.com/croftbox/hsworker/internal/hs"
	"github.com/croftbox/hsworker/internal/stamp"
)

// Config is a session configuration. Exactly one of the three variants
// (File, Cabal, Empty) is active; equality is structural.
type Config interface {
	isConfig()
}

// File targets a single source file with toolchain flags.
type File struct {
	FileName string
	Flags    []string
}

// Cabal is a named configuration derived from a project descriptor
// file, targeting one component, with separate configure-time flags.
type Cabal struct {
	Name        string
	CabalFile   string
	Component   hs.Component
	ConfigFlags []string
}

// Empty carries toolchain flags only, no files.
type Empty struct {
	Flags []string
}

func (File) isConfig()  {}
func (Cabal) isConfig() {}
func (Empty) isConfig() {}

// WorkerFlags returns the flags a worker launched for this
// configuration is started with.
func WorkerFlags(c Config) []string {
	switch c := c.(type) {
	case File:
		return c.Flags
	case Cabal:
		return c.ConfigFlags
	case Empty:
		return c.Flags
	default:
		return nil
	}
}

// StalenessPath returns the file whose modification time governs
// staleness for this configuration. Empty configurations have no such
// file and are never stale.
func StalenessPath(c Config) (string, bool) {
	switch c := c.(type) {
	case File:
		return c.FileName, true
	case Cabal:
		return c.CabalFile, true
	default:
		return "", false
	}
}

// ModStamp returns the modification time of the configuration's
// governing file, or the current time for configurations without one.
// Using the file's own mtime as a session's timestamp guarantees the
// session never appears newer than the content it reflects.
func ModStamp(c Config) (stamp.TimeStamp, error) {
	path, ok := StalenessPath(c)
	if !ok {
		return stamp.Now(), nil
	}

	return stamp.ForFile(path)
}

// Stale reports whether content behind the configuration has been
// modified after since. A missing governing file counts as stale so the
// caller refreshes and surfaces the underlying error there.
func Stale(c Config, since stamp.TimeStamp) bool {
	path, ok := StalenessPath(c)
	if !ok {
		return false
	}

	mt, err := stamp.ForFile(path)
	if err != nil {
		return true
	}

	return mt.After(since)
}
