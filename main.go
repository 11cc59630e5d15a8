// satchel plays the inventory arena in the local terminal.
//
//	go build -o satchel .
//	./satchel [--config satchel.yaml] [--items items.yaml] [--debug]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"satchel/assets"
	"satchel/internal/config"
	"satchel/internal/game"
	"satchel/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "satchel",
		Short:         "Collect, stack and use items in a terminal arena",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return play(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "config file (YAML)")
	f.String("items", "", "item catalog YAML (default: built-in items)")
	f.Bool("debug", false, "development logging: inventory contract violations panic")
	f.Int64("seed", 0, "item placement seed (0 picks one)")
	f.String("log-level", "info", "log level: debug, info, warn or error")
	f.String("log-file", "", "log file (default: $XDG_STATE_HOME/satchel/satchel.log)")
	return cmd
}

func play(ctx context.Context, cfg *config.Config) error {
	// The terminal belongs to the game.
	cfg.Log.Stderr = false
	log, closeLog, err := logging.New(cfg.Log, cfg.Debug)
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck

	cat, beh, err := assets.Load(cfg.Items)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	defer func() {
		// Restore the terminal before a debug-mode panic prints.
		if r := recover(); r != nil {
			screen.Fini()
			panic(r)
		}
	}()

	g, err := game.New(screen, cfg.Game(), game.Deps{
		Catalog:    cat,
		Behaviors:  beh,
		Logger:     log,
		SpawnTable: assets.ItemSpawns,
		SessionID:  uuid.NewString(),
		Player:     currentUser(),
	})
	if err != nil {
		return err
	}
	log.Info("starting local game", zap.Bool("debug", cfg.Debug), zap.String("items", cfg.Items))
	return g.Run(ctx)
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
