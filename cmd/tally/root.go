// Package main provides the tally command-line entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	dataDir    string
	debug      bool
	json       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tally",
		Short: "tally tracks time and earnings for piece-rate work",
		Long: `tally is an interactive tracker for work paid per completed unit.
Switch to a task, start the timer and press ENTER for every finished unit.
Run without arguments for the interactive prompt, or use a subcommand for one-shot reports.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.dataDir != "" {
				if err := os.Setenv("TALLY_DATA_DIR", opts.dataDir); err != nil {
					return fmt.Errorf("set data dir: %w", err)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "settings file (.yaml or .toml)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "data directory (default: ~/.tally)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newReportCmd(opts),
		newHistoryCmd(opts),
		newTasksCmd(opts),
		newSetPriceCmd(opts),
		newStatuslineCmd(opts),
	)
	return root
}

// setupLogging configures the global logger. Interactive output goes to
// stdout, so logs are written to stderr.
func setupLogging(level string, debug bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		With().
		Str("run_id", uuid.NewString()).
		Logger()
	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown log level, using warn")
	}
}

func runInteractive(cmd *cobra.Command, opts *options) error {
	a, err := openApp(opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			log.Debug().Str("signal", sig.String()).Msg("Received signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	a.watchDatabase(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "tally %s. Type 'help' for commands.\n", Version)
	if err := a.tracker.Run(ctx, cmd.InOrStdin()); err != nil {
		return fmt.Errorf("record pending time: %w", err)
	}
	return nil
}
