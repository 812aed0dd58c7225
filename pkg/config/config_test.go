package config

import (
	"strings"
	"testing"
)

func noEnv(string) (string, bool) { return "", false }

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Options{LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if cfg.Host != DefaultHost {
		t.Fatalf("host = %q, want %q", cfg.Host, DefaultHost)
	}
	if cfg.Port != DefaultPort {
		t.Fatalf("port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.SendTo != "http://localhost:6060/" {
		t.Fatalf("send_to = %q, want derived default", cfg.SendTo)
	}
	if cfg.ChatID != 0 {
		t.Fatalf("chat id = %d, want 0", cfg.ChatID)
	}
}

func TestResolvePortFallback(t *testing.T) {
	t.Parallel()

	for _, port := range []string{"not-a-port", "-1", "0", "70000", ""} {
		cfg, err := Resolve(Options{Port: port, LookupEnv: noEnv})
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", port, err)
		}
		if cfg.Port != DefaultPort {
			t.Fatalf("port %q resolved to %d, want fallback %d", port, cfg.Port, DefaultPort)
		}
	}

	cfg, err := Resolve(Options{Port: "7070", LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.Port != 7070 {
		t.Fatalf("port = %d, want 7070", cfg.Port)
	}
}

func TestResolveSendToKeepsExplicitValue(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Options{SendTo: " http://example.com/ingest ", LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.SendTo != "http://example.com/ingest" {
		t.Fatalf("send_to = %q, want explicit value", cfg.SendTo)
	}
}

func TestResolveEnvFallback(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"RELAY_TOKEN": "env-token",
		"RELAY_HOST":  "0.0.0.0",
		"RELAY_PORT":  "8080",
	}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}

	cfg, err := Resolve(Options{Host: "127.0.0.1", LookupEnv: lookup})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if cfg.Token != "env-token" {
		t.Fatalf("token = %q, want env fallback", cfg.Token)
	}
	if cfg.Host != "127.0.0.1" {
		t.Fatalf("host = %q, want flag value to win over env", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port = %d, want 8080 from env", cfg.Port)
	}
}

func TestResolveChatFilter(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Options{Chat: "-100123", LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.ChatID != -100123 {
		t.Fatalf("chat id = %d, want -100123", cfg.ChatID)
	}

	if _, err := Resolve(Options{Chat: "general", LookupEnv: noEnv}); err == nil {
		t.Fatal("expected error for non-numeric chat id")
	}
}

func TestValidateRequiresToken(t *testing.T) {
	t.Parallel()

	cfg := Config{Token: "  "}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing token")
	}
	if !strings.Contains(err.Error(), "--token") {
		t.Fatalf("error = %q, want mention of --token", err)
	}

	cfg.Token = "12345:abc"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestBindAddr(t *testing.T) {
	t.Parallel()

	cfg := Config{Host: "localhost", Port: 6060}
	if got := cfg.BindAddr(); got != "localhost:6060" {
		t.Fatalf("BindAddr = %q, want %q", got, "localhost:6060")
	}
}
