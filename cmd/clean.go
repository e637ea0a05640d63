package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/croftbox/hsworker/internal/cache"
	"github.com/croftbox/hsworker/internal/config"
)

var cleanCmd = &cobra.Command{
	Use:          "clean",
	Short:        "Clear the persistent result cache",
	RunE:         runClean,
	SilenceUsage: true,
}

func runClean(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader()
	settings, err := loader.LoadForCompile(cmd, args)
	if err != nil {
		return err
	}

	store, err := cache.New(filepath.Join(settings.OutputDir, cache.DefaultCacheDir))
	if err != nil {
		return err
	}
	defer store.Close()

	count, size, err := store.Stats(settings.OutputDir)
	if err == nil {
		fmt.Printf("Clearing %d cached results (%d bytes of scratch output)\n", count, size)
	}

	return store.Clear()
}
