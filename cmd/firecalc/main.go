package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cryptofire/fire-calculator/internal/calculation"
	"github.com/cryptofire/fire-calculator/internal/config"
	"github.com/cryptofire/fire-calculator/internal/logging"
	"github.com/cryptofire/fire-calculator/internal/output"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

type globalOptions struct {
	envFile   string
	logLevel  string
	logFormat string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "firecalc",
		Short:         "Project a crypto portfolio toward financial independence",
		Long:          "firecalc projects a crypto portfolio under several growth scenarios, reports the net income it supports at each horizon and searches the year each scenario reaches the FIRE target.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional .env file with FIRE_* overrides")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to FIRE_LOG_LEVEL or warn")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "log format (console or json)")

	root.AddCommand(newCalculateCmd(opts), newValidateCmd(opts), newExampleCmd())
	return root
}

// newParser loads the optional env file into a fresh parser.
func (o *globalOptions) newParser() (*config.InputParser, error) {
	parser := config.NewInputParser()
	if o.envFile == "" {
		return parser, nil
	}
	if err := parser.LoadEnvFile(o.envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return parser, nil
		}
		return nil, err
	}
	return parser, nil
}

func (o *globalOptions) newLogger(parser *config.InputParser, w io.Writer) *logging.Logger {
	level := o.logLevel
	if level == "" {
		level = parser.LogLevel()
	}
	if level == "" {
		level = "warn"
	}
	return logging.New(logging.Options{Level: level, Format: o.logFormat, Writer: w})
}

func newCalculateCmd(opts *globalOptions) *cobra.Command {
	var (
		configPath string
		format     string
		outputDir  string
		concurrent bool
	)
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Run every scenario in a configuration file and print or write the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := opts.newParser()
			if err != nil {
				return err
			}
			logger := opts.newLogger(parser, cmd.ErrOrStderr())

			cfg, err := parser.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			logger.Infof("loaded %d scenarios from %s", len(cfg.Scenarios), configPath)

			engine := calculation.NewCalculationEngine()
			engine.SetLogger(logger)
			engine.Concurrent = concurrent
			report, err := engine.RunScenarios(context.Background(), cfg)
			if err != nil {
				return fmt.Errorf("calculation failed: %w", err)
			}

			if outputDir == "" && output.NormalizeFormatName(format) != "all" {
				f := output.GetFormatterByName(format)
				if f == nil {
					return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
				}
				data, err := f.Format(report)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			paths, err := output.GenerateReport(report, format, outputDir)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (.yaml, .yml or .toml)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format (console, csv, crossings-csv, html, json, all)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write timestamped report files to this directory instead of stdout")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "evaluate scenarios in parallel")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := opts.newParser()
			if err != nil {
				return err
			}
			cfg, err := parser.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %d scenarios, base year %d, target year %d\n",
				len(cfg.Scenarios), cfg.Assumptions.BaseYear, cfg.Profile.TargetYear)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (.yaml, .yml or .toml)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newExampleCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if err := output.SaveConfiguration(cfg, outputPath); err != nil {
				return fmt.Errorf("failed to write example configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", outputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "fire_config.yaml", "file to write (.yaml or .toml)")
	return cmd
}
