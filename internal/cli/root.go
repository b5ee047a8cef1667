// Package cli wires the command tree.
package cli

import (
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"socheck/internal/config"
	"socheck/internal/logging"
)

// Build metadata, set by linker flags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	flagConfig   string
	flagLogLevel string
	flagNDKRoot  string
	flagBundled  bool
	flagPlatform string
	flagTimeout  int
)

var rootCmd = &cobra.Command{
	Use:   "socheck",
	Short: "socheck - Android shared object compatibility checker",
	Long: `Inspect a compiled .so and report whether it satisfies the
platform-mandated link-time optimizations:

- 16KB page alignment (Android 15+ page-size requirement)
- GNU symbol hash table (-Wl,--hash-style=gnu)
- Android relocation packing (-Wl,--pack-dyn-relocs=android)
- NDK toolchain provenance (inferred from embedded compiler strings)

socheck reads the textual output of llvm-readelf, llvm-objdump, nm, and
strings; it never parses ELF bytes itself. Point it at an NDK root to
prefer the bundled llvm tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagNDKRoot, "ndk-root", "", "NDK installation to take bundled llvm tools from")
	rootCmd.PersistentFlags().BoolVar(&flagBundled, "use-bundled", false, "prefer the NDK's bundled llvm tools")
	rootCmd.PersistentFlags().StringVar(&flagPlatform, "platform", "", "NDK prebuilt platform directory (linux-x86_64, darwin-x86_64, windows-x86_64)")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "per-tool timeout in seconds")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// loadConfig merges the optional config file with command-line
// overrides. Flags win over the file; the file wins over defaults.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagNDKRoot != "" {
		cfg.Tools.NDKRoot = flagNDKRoot
		cfg.Tools.UseBundled = true
	}
	if flagBundled {
		cfg.Tools.UseBundled = true
	}
	if flagPlatform != "" {
		cfg.Tools.Platform = flagPlatform
	}
	if flagTimeout > 0 {
		cfg.Tools.TimeoutSeconds = flagTimeout
	}
	return cfg, nil
}

func loggerFor(cfg config.Config, component string) zerolog.Logger {
	return logging.NewWithComponent(logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	}, component)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("socheck %s\n", Version)
			cmd.Printf("Git commit: %s\n", GitCommit)
			cmd.Printf("Go version: %s\n", runtime.Version())
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
