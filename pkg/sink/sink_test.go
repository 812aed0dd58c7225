package sink

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tgrelay/pkg/config"
)

func newTestListener(out *bytes.Buffer) *Listener {
	return newWithOutput(config.Config{Host: "127.0.0.1", Port: config.DefaultPort}, nil, out)
}

func TestSinkAcknowledgesEveryPost(t *testing.T) {
	t.Parallel()

	bodies := []string{
		`{"sender_id": 42, "text": "hi"}`,
		"not-json",
		"",
		"\x00\x01\x02",
	}

	for _, body := range bodies {
		var out bytes.Buffer
		listener := newTestListener(&out)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		listener.handleRecord(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code, "body %q", body)
		require.Empty(t, recorder.Body.String(), "body %q", body)
	}
}

func TestSinkRejectsNonPostMethods(t *testing.T) {
	t.Parallel()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodHead} {
		var out bytes.Buffer
		listener := newTestListener(&out)

		recorder := httptest.NewRecorder()
		listener.handleRecord(recorder, httptest.NewRequest(method, "/", nil))

		require.Equal(t, http.StatusNotAcceptable, recorder.Code, "method %s", method)
		require.Empty(t, out.String(), "method %s must not be logged", method)
	}
}

func TestSinkLogsValidJSONPretty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	listener := newTestListener(&out)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sender_id":42,"text":"hi"}`))
	listener.handleRecord(recorder, request)

	logged := out.String()
	require.Contains(t, logged, `"sender_id": 42`)
	require.Contains(t, logged, `"text": "hi"`)
	require.True(t, strings.HasSuffix(logged, "\n"))
}

func TestSinkLogsInvalidJSONRaw(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	listener := newTestListener(&out)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not-json"))
	listener.handleRecord(recorder, request)

	require.Equal(t, "not-json\n", out.String())
}

func TestSinkRunServesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := freeTCPPort(t)
	var out bytes.Buffer
	listener := newWithOutput(config.Config{Host: "127.0.0.1", Port: port}, nil, &out)

	errCh := make(chan error, 1)
	go func() {
		errCh <- listener.Run(ctx)
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/", port)
	require.Equal(t, http.StatusOK, waitPostStatus(t, url, 2*time.Second))
	require.Contains(t, out.String(), "ping")

	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for sink to stop")
	}
}

func waitPostStatus(t *testing.T, url string, timeout time.Duration) int {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		response, err := http.Post(url, "text/plain", strings.NewReader("ping"))
		if err == nil {
			statusCode := response.StatusCode
			require.NoError(t, response.Body.Close())
			return statusCode
		}

		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s: %v", url, err)
		}

		time.Sleep(25 * time.Millisecond)
	}
}

func freeTCPPort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	addr, ok := listener.Addr().(*net.TCPAddr)
	require.True(t, ok)
	return addr.Port
}
