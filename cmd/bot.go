package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tgrelay/pkg/supervisor"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run only the Telegram bot",
	Long:  "Runs the Telegram bot alone, forwarding normalized messages to the configured sink endpoint.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = args

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		bot, err := botUnit(cfg, log)
		if err != nil {
			return err
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("Bot started", "send_to", cfg.SendTo)
		return supervisor.Run(runCtx, log, bot)
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
