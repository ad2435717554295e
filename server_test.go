package pizzaz

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/pizzaz-mcp-go/internal/testutil"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()

	srv, err := New(append([]Option{WithAssetsFS(testutil.AssetsFS())}, opts...)...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(ctx)
		ts.Close()
	})

	return srv, ts
}

func connectClient(t *testing.T, ts *httptest.Server) *mcp.ClientSession {
	t.Helper()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	cs, err := client.Connect(context.Background(), &mcp.SSEClientTransport{Endpoint: ts.URL + "/mcp"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return cs
}

func TestServer_ListTools(t *testing.T) {
	_, ts := newTestServer(t)
	cs := connectClient(t, ts)

	result, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	titles := make(map[string]string, len(result.Tools))
	for _, tool := range result.Tools {
		titles[tool.Name] = tool.Title

		schema, ok := tool.InputSchema.(map[string]any)
		require.True(t, ok, "client decodes the input schema as a JSON object")
		require.Equal(t, []any{"pizzaTopping"}, schema["required"])
		require.Equal(t, false, schema["additionalProperties"])
	}

	require.Equal(t, map[string]string{
		"pizza-map":      "Show Pizza Map",
		"pizza-carousel": "Show Pizza Carousel",
		"pizza-albums":   "Show Pizza Album",
		"pizza-list":     "Show Pizza List",
	}, titles)
}

func TestServer_CallTool(t *testing.T) {
	_, ts := newTestServer(t)
	cs := connectClient(t, ts)

	result, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "pizza-map",
		Arguments: map[string]any{"pizzaTopping": "mushroom"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.Equal(t, "Rendered a pizza map!", text.Text)
	require.Equal(t, map[string]any{"pizzaTopping": "mushroom"}, result.StructuredContent)
	require.Equal(t, "ui://widget/pizza-map.html", result.Meta[MetaOutputTemplate])
	require.Equal(t, "Hand-tossing a map", result.Meta[MetaInvoking])
	require.Equal(t, "Served a fresh map", result.Meta[MetaInvoked])
}

func requireErrorCode(t *testing.T, err error, code int64) {
	t.Helper()

	require.Error(t, err)

	wire, ok := errors.AsType[*jsonrpc.Error](err)
	require.True(t, ok, "no JSON-RPC error in %v", err)
	require.Equal(t, code, wire.Code, wire.Message)
}

func TestServer_CallToolFailuresKeepSessionOpen(t *testing.T) {
	srv, ts := newTestServer(t)
	cs := connectClient(t, ts)
	ctx := context.Background()

	_, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "pizza-map",
		Arguments: map[string]any{},
	})
	requireErrorCode(t, err, CodeInvalidParams)

	_, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "pizza-oven",
		Arguments: map[string]any{"pizzaTopping": "olives"},
	})
	requireErrorCode(t, err, CodeToolNotFound)

	_, err = cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "ui://widget/pizza-oven.html"})
	requireErrorCode(t, err, CodeResourceNotFound)

	require.Equal(t, 1, srv.ActiveSessions())

	_, err = cs.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
}

func TestServer_ReadResource(t *testing.T) {
	_, ts := newTestServer(t)
	cs := connectClient(t, ts)
	ctx := context.Background()

	result, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "ui://widget/pizza-list.html"})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	require.Equal(t, testutil.ListHTML, result.Contents[0].Text)
	require.Equal(t, "text/html+skybridge", result.Contents[0].MIMEType)

	resources, err := cs.ListResources(ctx, &mcp.ListResourcesParams{})
	require.NoError(t, err)
	require.Len(t, resources.Resources, 4)

	for _, r := range resources.Resources {
		read, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: r.URI})
		require.NoError(t, err, r.URI)
		require.NotEmpty(t, read.Contents[0].Text)
	}

	templates, err := cs.ListResourceTemplates(ctx, &mcp.ListResourceTemplatesParams{})
	require.NoError(t, err)
	require.Len(t, templates.ResourceTemplates, 4)
}

func TestServer_SideChannelErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "missing session id", target: "/mcp/messages", wantStatus: http.StatusBadRequest},
		{name: "unknown session", target: "/mcp/messages?sessionId=does-not-exist", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.target, "application/json", strings.NewReader(`{}`))
			require.NoError(t, err)
			require.NoError(t, resp.Body.Close())

			require.Equal(t, tt.wantStatus, resp.StatusCode)
			require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServer_OptionsAndMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/mcp", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))

	resp, err = http.Post(ts.URL+"/mcp", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()

	var name, data string

	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)

		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if name != "" || data != "" {
				return name, data
			}
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
}

func TestServer_RawStream(t *testing.T) {
	srv, ts := newTestServer(t, WithIDGenerator(func() string { return "raw-session" }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/mcp", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	events := bufio.NewReader(resp.Body)

	name, endpoint := readEvent(t, events)
	require.Equal(t, "endpoint", name)
	require.Equal(t, "/mcp/messages?sessionId=raw-session", endpoint)
	require.Equal(t, 1, srv.ActiveSessions())

	initialize := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{` +
		`"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"raw","version":"1"}}}`

	post, err := http.Post(ts.URL+endpoint, "application/json", strings.NewReader(initialize))
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, post.Body)
	require.NoError(t, post.Body.Close())
	require.Equal(t, http.StatusAccepted, post.StatusCode)

	name, data := readEvent(t, events)
	require.Equal(t, "message", name)
	require.Contains(t, data, `"id":1`)
	require.Contains(t, data, `"pizzaz-go"`)

	post, err = http.Post(ts.URL+endpoint, "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	require.NoError(t, post.Body.Close())
	require.Equal(t, http.StatusInternalServerError, post.StatusCode)
	require.Equal(t, 1, srv.ActiveSessions())

	cancel()

	require.Eventually(t, func() bool { return srv.ActiveSessions() == 0 }, 5*time.Second, 10*time.Millisecond)

	post, err = http.Post(ts.URL+endpoint, "application/json", strings.NewReader(initialize))
	require.NoError(t, err)
	require.NoError(t, post.Body.Close())
	require.Equal(t, http.StatusNotFound, post.StatusCode)
}

func TestServer_RawStreamErrorCodes(t *testing.T) {
	_, ts := newTestServer(t, WithIDGenerator(func() string { return "codes" }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/mcp", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	events := bufio.NewReader(resp.Body)
	_, endpoint := readEvent(t, events)

	send := func(body string) string {
		t.Helper()

		post, err := http.Post(ts.URL+endpoint, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, post.Body)
		require.NoError(t, post.Body.Close())
		require.Equal(t, http.StatusAccepted, post.StatusCode)

		name, data := readEvent(t, events)
		require.Equal(t, "message", name)

		return data
	}

	send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{` +
		`"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"raw","version":"1"}}}`)

	tests := []struct {
		name string
		body string
		code int64
	}{
		{
			name: "unknown tool",
			body: `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"pizza-oven","arguments":{"pizzaTopping":"olives"}}}`,
			code: CodeToolNotFound,
		},
		{
			name: "missing topping",
			body: `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"pizza-map","arguments":{}}}`,
			code: CodeInvalidParams,
		},
		{
			name: "unknown resource",
			body: `{"jsonrpc":"2.0","id":4,"method":"resources/read","params":{"uri":"ui://widget/pizza-oven.html"}}`,
			code: CodeResourceNotFound,
		},
	}

	for _, tt := range tests {
		var reply struct {
			Error *jsonrpc.Error `json:"error"`
		}

		require.NoError(t, json.Unmarshal([]byte(send(tt.body)), &reply), tt.name)
		require.NotNil(t, reply.Error, tt.name)
		require.Equal(t, tt.code, reply.Error.Code, tt.name)
	}
}

func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t)
	connectClient(t, ts)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true,"path":"/mcp","sessions":1}`, string(body))
}

func TestNew_MissingAsset(t *testing.T) {
	fsys := testutil.AssetsFS()
	delete(fsys, "pizzaz-list-00000000.html")
	delete(fsys, "pizzaz-list-3f9c2ab1.html")

	_, err := New(WithAssetsFS(fsys))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAssetMissing))

	missing, ok := errors.AsType[*AssetMissingError](err)
	require.True(t, ok)
	require.Equal(t, "pizzaz-list", missing.Name)
}

func TestNew_MissingAssetsDir(t *testing.T) {
	_, err := New(WithAssetsDir(filepath.Join(t.TempDir(), "nope")))
	require.True(t, errors.Is(err, ErrAssetMissing))
}

func TestNew_CatalogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	source := `widgets:
  - id: pizza-list
    title: Show Pizza List
    templateUri: ui://widget/pizza-list.html
    invoking: Hand-tossing a list
    invoked: Served a fresh list
    asset: pizzaz-list
    responseText: Rendered a pizza list!
`
	require.NoError(t, os.WriteFile(path, []byte(source), 0o600))

	srv, err := New(WithAssetsFS(testutil.AssetsFS()), WithCatalogFile(path))
	require.NoError(t, err)

	widgets := srv.Widgets()
	require.Len(t, widgets, 1)
	require.Equal(t, "pizza-list", widgets[0].ID)
	require.Equal(t, testutil.ListHTML, widgets[0].Body)
}

func TestNew_Widgets(t *testing.T) {
	defs := DefaultWidgets()[:2]

	srv, err := New(WithAssetsFS(testutil.AssetsFS()), WithWidgets(defs...))
	require.NoError(t, err)
	require.Len(t, srv.Widgets(), 2)
}

func TestNew_InvalidBasePath(t *testing.T) {
	_, err := New(WithAssetsFS(testutil.AssetsFS()), WithBasePath("/mcp?debug=1"))
	require.Error(t, err)
}

func TestServer_CustomBasePath(t *testing.T) {
	srv, ts := newTestServer(t, WithBasePath("widgets/"))
	require.Equal(t, "/widgets", srv.Options().BasePath)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	cs, err := client.Connect(context.Background(), &mcp.SSEClientTransport{Endpoint: ts.URL + "/widgets"}, nil)
	require.NoError(t, err)
	defer cs.Close()

	tools, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, tools.Tools, 4)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	srv, err := New(WithAssetsFS(testutil.AssetsFS()), WithShutdownTimeout(5*time.Second))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)

	go func() {
		served <- srv.Serve(ctx, ln)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	cs, err := client.Connect(context.Background(), &mcp.SSEClientTransport{Endpoint: "http://" + ln.Addr().String() + "/mcp"}, nil)
	require.NoError(t, err)
	defer cs.Close()

	require.Equal(t, 1, srv.ActiveSessions())

	cancel()

	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	require.Equal(t, 0, srv.ActiveSessions())
}
