package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tgrelay/pkg/channel"
	"tgrelay/pkg/channel/telegram"
	"tgrelay/pkg/config"
	"tgrelay/pkg/relay"
	"tgrelay/pkg/sink"
	"tgrelay/pkg/supervisor"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the Telegram bot and the HTTP sink together",
	Long:  "Runs the Telegram bot and the HTTP sink as independent concurrent units under one supervisor and blocks until both have exited.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = args

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		units, err := relayUnits(cfg, log)
		if err != nil {
			return err
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("Relay started", "send_to", cfg.SendTo, "bind", cfg.BindAddr())
		return supervisor.Run(runCtx, log, units...)
	},
}

func init() {
	rootCmd.AddCommand(relayCmd)
}

func relayUnits(cfg config.Config, log *slog.Logger) ([]channel.Unit, error) {
	bot, err := botUnit(cfg, log)
	if err != nil {
		return nil, err
	}

	return []channel.Unit{sink.New(cfg, log), bot}, nil
}

func botUnit(cfg config.Config, log *slog.Logger) (channel.Unit, error) {
	forwarder, err := relay.NewForwarder(cfg.SendTo, log)
	if err != nil {
		return nil, err
	}

	return telegram.NewBot(cfg, forwarder, log)
}
