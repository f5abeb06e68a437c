package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yanqian/slidegen/internal/infra/config"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "slidegen",
		Short:         "Presentation generator web service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				return os.Setenv("CONFIG_PATH", configPath)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), config.ModeServe)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the front end, catalogs and the generation API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), config.ModeServe)
			},
		},
		&cobra.Command{
			Use:   "preview",
			Short: "Serve the front end and existing output without generation",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), config.ModePreview)
			},
		},
	)
	return root
}

func run(parent context.Context, mode config.Mode) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := initializeApp(mode)
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("application stopped: %w", err)
	}
	return nil
}
