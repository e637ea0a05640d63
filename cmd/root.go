package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/croftbox/hsworker/internal/config"
	"github.com/croftbox/hsworker/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "hsworker",
	Short:        "Haskell compilation worker controller",
	Long:         `Manages long-lived Haskell compilation worker processes and caches their session state.`,
	RunE:         runCompile,
	SilenceUsage: true,
	Args:         cobra.ArbitraryArgs,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().StringP("worker", "w", "", "Name of the worker executable to launch")
	rootCmd.PersistentFlags().StringP("output-dir", "o", "", "Root directory for per-session scratch output")
	rootCmd.PersistentFlags().StringSliceP("flag", "f", []string{}, "Toolchain flags passed to the worker")
	rootCmd.PersistentFlags().StringP("name", "n", "", "Named cabal configuration")
	rootCmd.PersistentFlags().StringP("component", "c", "", "Cabal component to target (lib, exe:<name>)")
	rootCmd.PersistentFlags().StringP("target", "t", "", "Compilation target (module:<name>, a source file, or a .cabal file)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable the persistent result cache")
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(cleanCmd)

	viper.SetDefault("worker", config.DefaultWorker)
	viper.SetDefault("output_dir", config.DefaultOutputDir)
	viper.SetDefault("verbose", config.DefaultVerbose)
	viper.SetDefault("no_cache", config.DefaultNoCache)
}
