package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/croftbox/hsworker/internal/cache"
	"github.com/croftbox/hsworker/internal/compile"
	"github.com/croftbox/hsworker/internal/config"
	"github.com/croftbox/hsworker/internal/hs"
	"github.com/croftbox/hsworker/internal/logging"
	"github.com/croftbox/hsworker/internal/session"
	"github.com/croftbox/hsworker/internal/wire"
	"github.com/croftbox/hsworker/internal/worker"
)

var compileCmd = &cobra.Command{
	Use:          "compile",
	Short:        "Compile through a worker session",
	Long:         `Compile a source file, cabal component or module through a cached worker session.`,
	RunE:         runCompile,
	SilenceUsage: true,
}

func runCompile(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("requires at most one file argument")
	}

	loader := config.NewLoader()
	settings, err := loader.LoadForCompile(cmd, args)
	if err != nil {
		return err
	}

	logging.SetVerbose(settings.Verbose)

	cfg, err := buildSessionConfig(settings, args)
	if err != nil {
		return err
	}

	target, err := deriveTarget(settings, cfg)
	if err != nil {
		return err
	}

	var store *cache.Cache
	if !settings.NoCache {
		store, err = cache.New(filepath.Join(settings.OutputDir, cache.DefaultCacheDir))
		if err != nil {
			return err
		}
		defer store.Close()

		if entry, err := store.Get(cfg); err == nil && entry != nil && entry.Fresh(cfg) {
			fmt.Printf("Cached result from %s:\n", entry.Stamp)
			printResult(entry.Result)

			if entry.Result.Succeeded {
				return nil
			}

			return fmt.Errorf("compilation failed")
		}
	}

	sessions := session.NewStore(settings.Worker, settings.OutputDir)
	defer sessions.Shutdown()

	sess, err := sessions.ValidOrRefresh(cfg)
	if err != nil {
		return err
	}

	resp, err := sess.Worker.Call(wire.CompileRequest{Target: target, Flags: settings.Flags})
	if err != nil {
		// Protocol corruption and crashes invalidate the session; the
		// next access goes through the refresh path.
		if wire.IsDecodeError(err) || errors.Is(err, worker.ErrWorkerCrashed) {
			sessions.Invalidate(cfg)
		}

		return err
	}

	switch resp := resp.(type) {
	case wire.CompileResponse:
		merged := compile.Merge(sess.LastResult, resp.Result)
		sessions.UpdateAfterCompilation(sess, resp.Graph, merged)

		if store != nil {
			entry := &cache.Entry{Stamp: sess.ConfigStamp, Result: merged, Graph: resp.Graph}
			if err := store.Put(cfg, entry); err != nil {
				logging.Logger().Warn("cannot persist result", "err", err)
			}
		}

		printResult(resp.Result)

		if !resp.Result.Succeeded {
			return fmt.Errorf("compilation failed")
		}

		return nil
	case wire.ErrorResponse:
		return fmt.Errorf("worker error: %s", resp.Message)
	default:
		return fmt.Errorf("unexpected response %T", resp)
	}
}

// buildSessionConfig derives the session configuration variant from the
// file argument: a .cabal file selects a cabal configuration, a source
// file a file configuration, no argument a flags-only one.
func buildSessionConfig(settings *config.Settings, args []string) (config.Config, error) {
	if len(args) == 0 {
		return config.Empty{Flags: settings.Flags}, nil
	}

	abs, err := filepath.Abs(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	switch {
	case strings.HasSuffix(abs, ".cabal"):
		name := settings.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(abs), ".cabal")
		}

		return config.Cabal{
			Name:        name,
			CabalFile:   abs,
			Component:   hs.ComponentFromTarget(settings.Component),
			ConfigFlags: settings.Flags,
		}, nil
	case strings.HasSuffix(abs, ".hs") || strings.HasSuffix(abs, ".lhs"):
		return config.File{FileName: abs, Flags: settings.Flags}, nil
	default:
		return nil, fmt.Errorf("file must have .hs, .lhs or .cabal extension")
	}
}

// deriveTarget picks the compilation target: an explicit --target flag
// wins, otherwise the configuration's own file is the target.
func deriveTarget(settings *config.Settings, cfg config.Config) (hs.Target, error) {
	if settings.Target != "" {
		return hs.ParseTarget(settings.Target), nil
	}

	switch cfg := cfg.(type) {
	case config.File:
		return hs.FileTarget{Path: cfg.FileName}, nil
	case config.Cabal:
		return hs.CabalTarget{Path: cfg.CabalFile}, nil
	default:
		return nil, fmt.Errorf("a target is required with a flags-only configuration")
	}
}

func printResult(r compile.Result) {
	for _, note := range r.Notes {
		fmt.Printf("%s: %s\n", note.Severity, note.Message)
	}

	status := "succeeded"
	if !r.Succeeded {
		status = "failed"
	}

	fmt.Printf("Compilation %s in %s\n", status, r.Elapsed)
}
