package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/inflammation-cli/internal/config"
	"github.com/KaramelBytes/inflammation-cli/internal/errors"
	"github.com/KaramelBytes/inflammation-cli/internal/logger"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	logJSON bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("⚠")
	errMark  = color.New(color.FgRed, color.Bold).Sprint("✗")
)

var rootCmd = &cobra.Command{
	Use:   "inflammation",
	Short: "Analyse patients' daily inflammation readings",
	Long: `inflammation loads per-patient, per-day inflammation readings from CSV, TSV or
XLSX files, computes daily statistics across patients and shows them as a text
table or as charts. It also keeps a small roster of patients and their
observations between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(debug, logJSON); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		loadConfig(cmd.ErrOrStderr())
		return nil
	},
	// Runs after every successful subcommand.
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		logger.Sync()
		return nil
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Sync()
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errMark, "Error:", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintln(w, "  hint:", hint)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.inflammation/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON on stderr")
}

func loadConfig(stderr io.Writer) {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(stderr, "%s Warning: failed to load config: %v\n", warnMark, err)
		c = cfgpkg.Defaults()
	}
	cfg = c
	logger.Logger.Debugw("config loaded",
		"chart_dir", cfg.ChartDir,
		"chart_format", cfg.ChartFormat,
		"roster_dir", cfg.RosterDir)
}

// currentConfig returns the loaded configuration, or the defaults when a
// command runs without the root pre-run hook.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Defaults()
	}
	return cfg
}
