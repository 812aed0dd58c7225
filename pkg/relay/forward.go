package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// forwardTimeout bounds the sink POST so an unresponsive sink cannot stall
// event handling indefinitely.
const forwardTimeout = 30 * time.Second

// Outcome reports the result of one forward attempt. Delivered is true only
// for an exact HTTP 200 from the sink; everything else, including transport
// failures, leaves it false.
type Outcome struct {
	Delivered  bool
	StatusCode int
}

// Forwarder delivers normalized records to the configured sink with a
// single best-effort POST per record. Failures are not retried and are not
// surfaced beyond a debug log line.
type Forwarder struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

// NewForwarder validates the sink endpoint and constructs a Forwarder.
func NewForwarder(endpoint string, log *slog.Logger) (*Forwarder, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("forward endpoint is required")
	}

	if log == nil {
		log = slog.Default()
	}

	return &Forwarder{
		endpoint: endpoint,
		client:   &http.Client{Timeout: forwardTimeout},
		log:      log.With("component", "relay.forwarder"),
	}, nil
}

// Forward serializes the record and POSTs it to the sink once.
func (f *Forwarder) Forward(ctx context.Context, record Message) Outcome {
	body, err := json.Marshal(record)
	if err != nil {
		f.log.Debug("Failed to serialize record", "error", err)
		return Outcome{}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		f.log.Debug("Failed to build forward request", "error", err)
		return Outcome{}
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := f.client.Do(request)
	if err != nil {
		f.log.Debug("Forward attempt failed", "endpoint", f.endpoint, "error", err)
		return Outcome{}
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	outcome := Outcome{
		Delivered:  response.StatusCode == http.StatusOK,
		StatusCode: response.StatusCode,
	}
	if !outcome.Delivered {
		f.log.Debug("Sink declined record", "status", response.StatusCode)
	}

	return outcome
}
