package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default settings values
const (
	DefaultWorker    = "hsworkerd"
	DefaultOutputDir = ".hsworker"
	DefaultVerbose   = false
	DefaultNoCache   = false
)

// Settings holds the tool-level options for hsworker.
type Settings struct {
	// Name of the worker executable to launch
	Worker string

	// Root directory for per-session scratch output
	OutputDir string

	// Toolchain flags passed to the worker
	Flags []string

	// Named cabal configuration (defaults to the descriptor file stem)
	Name string

	// Cabal component in descriptor target syntax ("lib", "exe:<name>")
	Component string

	// Explicit compilation target overriding the one derived from the
	// file argument
	Target string

	// Enable verbose output
	Verbose bool

	// Disable the persistent result cache
	NoCache bool
}

// LoadSettings builds Settings from the current viper state.
func LoadSettings() (*Settings, error) {
	s := &Settings{
		Worker:    viper.GetString("worker"),
		OutputDir: viper.GetString("output_dir"),
		Flags:     viper.GetStringSlice("flag"),
		Name:      viper.GetString("name"),
		Component: viper.GetString("component"),
		Target:    viper.GetString("target"),
		Verbose:   viper.GetBool("verbose"),
		NoCache:   viper.GetBool("no_cache"),
	}

	if s.Worker == "" {
		s.Worker = DefaultWorker
	}

	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Settings) Validate() error {
	abs, err := filepath.Abs(s.OutputDir)
	if err != nil {
		return fmt.Errorf("invalid output directory: %v", err)
	}

	s.OutputDir = abs

	return nil
}
