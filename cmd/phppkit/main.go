package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChicagoDave/phppkit/internal/config"
	"github.com/ChicagoDave/phppkit/internal/logging"
	"github.com/ChicagoDave/phppkit/internal/metrics"
	"github.com/ChicagoDave/phppkit/internal/server"
)

// app carries what every subcommand shares once the root command has
// loaded configuration.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Collector
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "phppkit",
		Short:        "DHW piping and ventilation takeoff for PHPP workbooks",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(takeoffCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(cellsCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	m, err := metrics.NewCollector(nil)
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.metrics = cfg, logger, m
	return nil
}

func takeoffCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "takeoff [project-path]",
		Short: "Resolve piping and ducts and print quantity totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runTakeoff(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a project and report every finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runValidate(args[0])
		},
	}
}

func cellsCmd(a *app) *cobra.Command {
	var layoutPath string

	cmd := &cobra.Command{
		Use:   "cells [project-path]",
		Short: "Print the workbook cell writes as JSON without touching a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runCells(args[0], layoutPath)
		},
	}

	cmd.Flags().StringVar(&layoutPath, "layout", "", "YAML layout override")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export [project-path]",
		Short: "Write takeoff results into a PHPP workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runExport(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.workbook, "workbook", "w", "", "target .xlsx (default $PHPPKIT_WORKBOOK)")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "YAML layout override")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "collect writes in memory and print them")
	cmd.Flags().BoolVar(&opts.store, "store", false, "save resolved objects to the metadata store")
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local takeoff API server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if port == 0 {
				port = a.cfg.Server.Port
			}
			layout, err := a.layout("")
			if err != nil {
				return err
			}
			store, closeStore := a.store()
			defer func() {
				if err := closeStore(); err != nil {
					a.logger.Warn("closing metadata store", zap.Error(err))
				}
			}()
			srv := server.New(args[0], server.Options{
				Port:        port,
				CORSOrigins: a.cfg.Server.CORSOrigins,
				Layout:      layout,
				Store:       store,
				Metrics:     a.metrics,
				Logger:      a.logger,
			})
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (default $PHPPKIT_PORT or 3000)")
	return cmd
}
