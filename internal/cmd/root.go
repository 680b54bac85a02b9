package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Ning0612/fmatch/internal/config"
	"github.com/Ning0612/fmatch/internal/domain"
	"github.com/Ning0612/fmatch/internal/logger"
	"github.com/Ning0612/fmatch/internal/metrics"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// Output formats accepted by --format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// app carries what the persistent flags and config resolve to for one invocation
type app struct {
	configPath string
	logLevel   string
	format     string
	noColor    bool

	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Recorder
}

// NewRootCommand creates and returns the root cobra command for fmatch
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "fmatch",
		Short: "Resolve glob patterns and fingerprint the matched files",
		Long: `fmatch resolves a glob pattern against a root directory and works with
the result: list the matched files and folders, compute a fingerprint of the
matched file list, and detect changes between runs.

Patterns use doublestar syntax ("**/*.md", "src/{a,b}/*.go"). Named targets
with a pattern, a root and exclude rules can be stored in config.yaml.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the error
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Shutdown()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: search ./config.yaml, ~/.config/fmatch, ~/.fmatch)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.StringVarP(&a.format, "format", "o", FormatText, "output format: text, json, yaml")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	// Add subcommands
	cmd.AddCommand(newListCommand(a))
	cmd.AddCommand(newFilesCommand(a))
	cmd.AddCommand(newFoldersCommand(a))
	cmd.AddCommand(newHashCommand(a))
	cmd.AddCommand(newCheckCommand(a))
	cmd.AddCommand(newHistoryCommand(a))
	cmd.AddCommand(newWatchCommand(a))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// setup loads the config and initializes logging before any subcommand runs
func (a *app) setup(cmd *cobra.Command) error {
	switch a.format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unsupported format %q (want text, json or yaml)", a.format)
	}

	// Detect if we're in a terminal (for color output)
	if a.noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	cfg, err := config.Load(a.configPath)
	if errors.Is(err, domain.ErrConfigNotFound) && a.configPath == "" {
		// Patterns work without any config file
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := cfg.Log.LoggerConfig()
	if a.logLevel != "" {
		logCfg.Level = logger.ParseLevel(a.logLevel)
	}
	logCfg.Writer = cmd.ErrOrStderr()

	// A previous invocation in the same process may still own the logger
	if err := logger.Replace(logCfg); err != nil {
		return err
	}
	a.log = logger.Get().With("command", cmd.Name())

	return nil
}

// ExitCode maps a command error to the process exit status.
// A detected change exits with 2 so scripts can tell it apart from failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrChanged):
		return 2
	default:
		return 1
	}
}
