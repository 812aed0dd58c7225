package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tgrelay/pkg/config"
	"tgrelay/pkg/logger"
)

var (
	flagSendTo string
	flagToken  string
	flagHost   string
	flagPort   string
	flagChat   string

	flagLogFormat    string
	flagLogLevel     string
	flagLogAddSource bool
)

var rootCmd = &cobra.Command{
	Use:          "tgrelay",
	Short:        "Relay Telegram messages to an HTTP sink",
	Long:         "Normalizes incoming Telegram messages into flat JSON records and forwards them to an HTTP sink, with an optional built-in sink that logs accepted payloads.",
	SilenceUsage: true,
}

// Execute runs the command tree; any error exits non-zero before a unit
// gets to start.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadDotEnv)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagSendTo, "send-to", "", "HTTP endpoint that receives forwarded messages (default derived from --host/--port)")
	flags.StringVar(&flagToken, "token", "", "Telegram bot API token")
	flags.StringVar(&flagHost, "host", "", "sink bind host (default \"localhost\")")
	flags.StringVar(&flagPort, "port", "", "sink bind port (default 6060)")
	flags.StringVar(&flagChat, "chat", "", "restrict forwarding to one chat id")
	flags.StringVar(&flagLogFormat, "log-format", "", "log output format: text or json")
	flags.StringVar(&flagLogLevel, "log-level", "", "log verbosity: debug, info, warn or error")
	flags.BoolVar(&flagLogAddSource, "log-add-source", false, "annotate log lines with caller location")
}

func loadDotEnv() {
	_ = godotenv.Load()
}

func resolveConfig() (config.Config, error) {
	return config.Resolve(config.Options{
		SendTo:       flagSendTo,
		Token:        flagToken,
		Host:         flagHost,
		Port:         flagPort,
		Chat:         flagChat,
		LogFormat:    flagLogFormat,
		LogLevel:     flagLogLevel,
		LogAddSource: flagLogAddSource,
	})
}

// bootstrap resolves configuration and installs the application logger.
func bootstrap() (config.Config, *slog.Logger, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return config.Config{}, nil, err
	}

	appLogger, err := logger.New(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, err
	}
	slog.SetDefault(appLogger)

	return cfg, appLogger, nil
}
