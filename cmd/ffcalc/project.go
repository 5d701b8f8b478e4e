package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpgo/financial-freedom/internal/calculation"
	"github.com/rpgo/financial-freedom/internal/config"
	"github.com/rpgo/financial-freedom/internal/logger"
	"github.com/rpgo/financial-freedom/internal/output"
	"github.com/spf13/cobra"
)

// projectOptions are the flags shared by project, shock and montecarlo.
type projectOptions struct {
	configFile  string
	format      string
	outputDir   string
	seed        int64
	simulations int

	accidentAge      int
	accidentLoss     string
	accidentCoverage string
}

func (o *projectOptions) bind(cmd *cobra.Command, defaultFormat string) {
	f := cmd.Flags()
	f.StringVarP(&o.configFile, "config", "c", "", "Scenario YAML file")
	f.StringVarP(&o.format, "format", "f", defaultFormat, "Output format: "+formatHelp())
	f.StringVar(&o.outputDir, "output-dir", "", "Write the report to a timestamped file in this directory instead of stdout")
	f.Int64Var(&o.seed, "seed", 0, "Seed for the stochastic track (0 picks a fresh seed)")
	_ = cmd.MarkFlagRequired("config")
}

func (o *projectOptions) bindAccident(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&o.accidentAge, "accident-age", 0, "Age at which the accident loss hits")
	f.StringVar(&o.accidentLoss, "accident-loss", "", "Accident wealth loss, e.g. \"50,000,000\"")
	f.StringVar(&o.accidentCoverage, "accident-coverage", "0", "Percentage of the loss covered by insurance")
}

func (o *projectOptions) accident() *config.AccidentInput {
	if o.accidentLoss == "" {
		return nil
	}
	return &config.AccidentInput{
		Age:               o.accidentAge,
		WealthLoss:        config.Number(o.accidentLoss),
		InsuranceCoverage: config.Number(o.accidentCoverage),
	}
}

func formatHelp() string {
	return strings.Join(output.AvailableFormatterNames(), ", ")
}

func newProjectCmd(a *app) *cobra.Command {
	o := &projectOptions{}
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project wealth to retirement and find the freedom age",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runProjection(cmd, o)
		},
	}
	o.bind(cmd, "console")
	o.bindAccident(cmd)
	cmd.Flags().IntVar(&o.simulations, "simulations", 0, "Also run this many Monte Carlo paths")
	return cmd
}

func newShockCmd(a *app) *cobra.Command {
	o := &projectOptions{}
	cmd := &cobra.Command{
		Use:   "shock",
		Short: "Compare a baseline projection with one hit by an accident loss",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runProjection(cmd, o)
		},
	}
	o.bind(cmd, "console")
	o.bindAccident(cmd)
	_ = cmd.MarkFlagRequired("accident-age")
	_ = cmd.MarkFlagRequired("accident-loss")
	return cmd
}

func newMonteCarloCmd(a *app) *cobra.Command {
	o := &projectOptions{}
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Summarise many stochastic paths of the scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.simulations == 0 {
				o.simulations = a.settings.Simulation.MonteCarloSimulations
			}
			return a.runProjection(cmd, o)
		},
	}
	o.bind(cmd, "console")
	cmd.Flags().IntVar(&o.simulations, "simulations", 0, "Number of paths (default from settings)")
	return cmd
}

// runProjection loads the scenario, runs the baseline, overlays any accident, optionally
// runs Monte Carlo and renders the report.
func (a *app) runProjection(cmd *cobra.Command, o *projectOptions) error {
	input, err := config.NewInputParser().LoadFromFile(o.configFile)
	if err != nil {
		return err
	}
	if acc := o.accident(); acc != nil {
		input.Accident = acc
	}
	params, err := input.ToParameterSet()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	engineLog := logger.NewEngineLogger(a.log)

	svc := calculation.NewProjectionService()
	svc.Simulator.MaxYears = a.settings.Simulation.MaxYears
	if o.seed != 0 {
		svc.Sources = calculation.SeededSources(o.seed)
	}
	svc.SetLogger(engineLog)

	projection, err := svc.RunBaseline(ctx, params)
	if err != nil {
		return err
	}
	report := &output.Report{Params: params, Projection: projection, GeneratedAt: time.Now()}
	if projection.ShockApplied {
		report.Baseline = svc.Baseline()
	}

	if o.simulations > 0 {
		mcs := calculation.NewMonteCarloSimulator()
		mcs.Simulator.MaxYears = a.settings.Simulation.MaxYears
		mcs.Simulator.Logger = engineLog
		mcs.Logger = engineLog
		report.MonteCarlo, err = mcs.Run(ctx, params, calculation.MonteCarloConfig{
			NumSimulations: o.simulations,
			Seed:           o.seed,
			Concurrency:    a.settings.Simulation.MonteCarloConcurrency,
		})
		if err != nil {
			return err
		}
	}

	if o.outputDir != "" {
		f := output.GetFormatterByName(o.format)
		if f == nil {
			return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, o.format)
		}
		path, err := output.WriteFormatted(f, report, o.outputDir)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	return output.GenerateReport(report, o.format, cmd.OutOrStdout())
}
