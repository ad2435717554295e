//go:build integration

package integration

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	pizzaz "github.com/wagiedev/pizzaz-mcp-go"
	"github.com/wagiedev/pizzaz-mcp-go/internal/testutil"
)

// assetsDir returns $PIZZAZ_ASSETS_DIR when set, otherwise a temporary
// directory populated with fixture widgets.
func assetsDir(t *testing.T) string {
	t.Helper()

	if dir := os.Getenv("PIZZAZ_ASSETS_DIR"); dir != "" {
		return dir
	}

	dir := t.TempDir()
	for name, file := range testutil.AssetsFS() {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), file.Data, 0o600))
	}

	return dir
}

// startServer serves on a real loopback listener until the test ends.
func startServer(t *testing.T, opts ...pizzaz.Option) (*pizzaz.Server, string) {
	t.Helper()

	srv, err := pizzaz.New(append([]pizzaz.Option{
		pizzaz.WithAssetsDir(assetsDir(t)),
		pizzaz.WithShutdownTimeout(5 * time.Second),
	}, opts...)...)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)

	go func() {
		served <- srv.Serve(ctx, ln)
	}()

	t.Cleanup(func() {
		cancel()

		select {
		case err := <-served:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("server did not stop")
		}
	})

	return srv, "http://" + ln.Addr().String()
}

func connect(ctx context.Context, t *testing.T, baseURL string) *mcp.ClientSession {
	t.Helper()

	client := mcp.NewClient(&mcp.Implementation{Name: "integration", Version: "1.0.0"}, nil)

	cs, err := client.Connect(ctx, &mcp.SSEClientTransport{Endpoint: baseURL + "/mcp"}, nil)
	require.NoError(t, err)

	return cs
}
