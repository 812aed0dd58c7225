package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"tgrelay/pkg/config"
)

const unitName = "sink"

// Listener is the HTTP sink: it accepts forwarded payloads on POST / and
// logs them to stdout. It never rejects a well-formed POST; a 200 means
// "accepted for logging", nothing more.
type Listener struct {
	addr string
	log  *slog.Logger
	out  io.Writer
}

// New constructs a sink listener bound to the configured host and port,
// logging payloads to stdout.
func New(cfg config.Config, log *slog.Logger) *Listener {
	return newWithOutput(cfg, log, os.Stdout)
}

func newWithOutput(cfg config.Config, log *slog.Logger, out io.Writer) *Listener {
	if log == nil {
		log = slog.Default()
	}

	return &Listener{
		addr: cfg.BindAddr(),
		log:  log.With("component", "sink"),
		out:  out,
	}
}

// Name returns the unit identifier used by the supervisor and logs.
func (l *Listener) Name() string {
	return unitName
}

// Run serves the sink endpoint until the context is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", l.handleRecord)

	server := &http.Server{
		Addr:              l.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	l.log.Info("Sink started", "address", l.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("run sink server: %w", err)
	}

	return nil
}

func (l *Listener) handleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotAcceptable)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		l.log.Debug("Failed to read request body", "error", err)
	}

	l.logPayload(body)
	w.WriteHeader(http.StatusOK)
}

// logPayload writes the payload to stdout, pretty-printed when it is valid
// JSON and raw otherwise. Logging failures never affect the response.
func (l *Listener) logPayload(body []byte) {
	if gjson.ValidBytes(body) {
		l.writeLine(pretty.Pretty(body))
		return
	}

	l.writeLine(body)
}

func (l *Listener) writeLine(line []byte) {
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	if _, err := l.out.Write(line); err != nil {
		l.log.Debug("Failed to write payload log", "error", err)
	}
}
