package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tgrelay/pkg/sink"
	"tgrelay/pkg/supervisor"
)

var sinkCmd = &cobra.Command{
	Use:   "sink",
	Short: "Run only the HTTP sink",
	Long:  "Runs the HTTP sink alone, accepting forwarded payloads on POST / and logging them to stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = args

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return supervisor.Run(runCtx, log, sink.New(cfg, log))
	},
}

func init() {
	rootCmd.AddCommand(sinkCmd)
}
