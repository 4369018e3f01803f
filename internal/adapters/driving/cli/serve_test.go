package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

// runUntilReady runs fn in the background, waits for ready, then cancels
// the context and returns fn's error.
func runUntilReady(t *testing.T, fn func(ctx context.Context) error, ready func() bool) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	require.Eventually(t, ready, 5*time.Second, 20*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		return err
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
		return nil
	}
}

func TestServeCmd_Flags(t *testing.T) {
	assert.NotNil(t, serveCmd.Flags().Lookup("host"))
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestServeCmd_ServesAPI(t *testing.T) {
	port := freePort(t)
	settings := domain.DefaultAppSettings()
	query := &MockQueryService{Status: domain.HealthStatus{Status: domain.HealthStatusHealthy, IndexConnected: true}}
	useTestApp(t, &app{Settings: &settings, Query: query})

	serveHost, servePort = "127.0.0.1", port
	defer func() { serveHost, servePort = "", 0 }()

	buf := new(bytes.Buffer)
	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	var body map[string]any

	err := runUntilReady(t,
		func(ctx context.Context) error {
			cmd := &cobra.Command{}
			cmd.SetContext(ctx)
			cmd.SetOut(buf)
			return runServe(cmd, nil)
		},
		func() bool {
			resp, err := http.Get(url)
			if err != nil {
				return false
			}
			defer resp.Body.Close()
			return resp.StatusCode == http.StatusOK && json.NewDecoder(resp.Body).Decode(&body) == nil
		})

	require.NoError(t, err)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, buf.String(), fmt.Sprintf("listening on http://127.0.0.1:%d", port))
}

func TestServeCmd_LoadError(t *testing.T) {
	old := openApp
	openApp = func() (*app, error) { return nil, domain.ErrIndexUnavailable }
	defer func() { openApp = old }()

	_, err := execute(t, "serve")

	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}
