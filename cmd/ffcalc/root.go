package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rpgo/financial-freedom/internal/config"
	"github.com/rpgo/financial-freedom/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root pre-run has loaded it.
type app struct {
	settingsFile string
	logLevel     string

	settings *config.Settings
	log      *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ffcalc",
		Short: "Project when savings reach financial freedom",
		Long: `ffcalc simulates monthly savings and compounding until retirement, reports the
age at which wealth first covers the corpus needed for the desired spending, and can
overlay an uninsured accident loss on the baseline.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	root.PersistentFlags().StringVar(&a.settingsFile, "settings", "", "Path to a settings YAML file (FFCALC_* variables override it)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override: debug, info, warn or error")

	root.AddCommand(
		newProjectCmd(a),
		newShockCmd(a),
		newMonteCarloCmd(a),
		newServeCmd(a),
		newExampleCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	settings, err := config.LoadSettings(a.settingsFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if a.logLevel != "" {
		settings.Log.Level = a.logLevel
		if err := settings.Validate(); err != nil {
			return err
		}
	}

	a.settings = settings
	a.log = logger.NewLoggerTo(cmd.ErrOrStderr(), settings.Log.Level, settings.Log.Format)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ffcalc %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
