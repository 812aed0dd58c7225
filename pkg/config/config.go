package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultHost is the sink bind host used when none is configured.
	DefaultHost = "localhost"
	// DefaultPort is the sink bind port, also used as fallback when the
	// configured port does not parse as an integer.
	DefaultPort = 6060

	envSendTo = "RELAY_SEND_TO"
	envToken  = "RELAY_TOKEN"
	envHost   = "RELAY_HOST"
	envPort   = "RELAY_PORT"
	envChat   = "RELAY_CHAT"
)

// Config is the immutable runtime configuration, resolved once at startup
// and passed explicitly to every component that needs it.
type Config struct {
	SendTo string
	Token  string
	Host   string
	Port   int
	ChatID int64

	Logging LoggingConfig
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string
	Level     string
	AddSource bool
}

// Options carries raw command-line values before resolution. Port and Chat
// stay strings so that resolution owns their (deliberately different)
// parsing rules.
type Options struct {
	SendTo string
	Token  string
	Host   string
	Port   string
	Chat   string

	LogFormat    string
	LogLevel     string
	LogAddSource bool

	// LookupEnv supplies environment fallbacks; defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Resolve builds a Config from flag values with environment fallbacks and
// defaults applied. A flag value wins over its environment counterpart.
//
// The port is parsed leniently: anything that is not a valid port number
// falls back to DefaultPort. The chat filter is parsed strictly.
func Resolve(opts Options) (Config, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	host := fallback(opts.Host, envHost, lookup)
	if host == "" {
		host = DefaultHost
	}

	port := parsePort(fallback(opts.Port, envPort, lookup))

	chatID, err := parseChat(fallback(opts.Chat, envChat, lookup))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		SendTo: fallback(opts.SendTo, envSendTo, lookup),
		Token:  fallback(opts.Token, envToken, lookup),
		Host:   host,
		Port:   port,
		ChatID: chatID,
		Logging: LoggingConfig{
			Format:    strings.TrimSpace(opts.LogFormat),
			Level:     strings.TrimSpace(opts.LogLevel),
			AddSource: opts.LogAddSource,
		},
	}

	if cfg.SendTo == "" {
		cfg.SendTo = "http://" + cfg.BindAddr() + "/"
	}

	return cfg, nil
}

// Validate checks the fields the bot side cannot run without. The sink
// needs only bind settings, which always resolve, so it skips this.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("--token is required (or %s)", envToken)
	}

	return nil
}

// BindAddr returns the sink listen address in host:port form.
func (c Config) BindAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func fallback(value string, envKey string, lookup func(string) (string, bool)) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}

	if envValue, ok := lookup(envKey); ok {
		return strings.TrimSpace(envValue)
	}

	return ""
}

func parsePort(value string) int {
	port, err := strconv.Atoi(value)
	if err != nil || port <= 0 || port > 65535 {
		return DefaultPort
	}

	return port
}

func parseChat(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	chatID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse chat id %q: %w", value, err)
	}

	return chatID, nil
}
