package stream

import (
	"context"
	"io"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// orderedTransport admits one call at a time into a protocol session.
// The SDK answers calls concurrently, so without this gate replies could
// leave the stream in a different order than their requests were accepted.
type orderedTransport struct {
	mcp.Transport
}

// Connect implements mcp.Transport.
func (t orderedTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	conn, err := t.Transport.Connect(ctx)
	if err != nil {
		return nil, err
	}

	return newOrderedConn(conn), nil
}

// orderedConn holds back the next call until the reply to the previous one
// has been written. Notifications and responses pass straight through.
type orderedConn struct {
	mcp.Connection

	// Holds a token while a call is in flight.
	inflight chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

func newOrderedConn(conn mcp.Connection) *orderedConn {
	return &orderedConn{
		Connection: conn,
		inflight:   make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// Read implements mcp.Connection.
func (c *orderedConn) Read(ctx context.Context) (jsonrpc.Message, error) {
	msg, err := c.Connection.Read(ctx)
	if err != nil {
		return nil, err
	}

	if req, ok := msg.(*jsonrpc.Request); !ok || !req.IsCall() {
		return msg, nil
	}

	select {
	case c.inflight <- struct{}{}:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, io.EOF
	}
}

// Write implements mcp.Connection. Writing a reply releases the gate even
// when the write fails, since the SDK closes the connection on failure.
func (c *orderedConn) Write(ctx context.Context, msg jsonrpc.Message) error {
	err := c.Connection.Write(ctx, msg)

	if _, ok := msg.(*jsonrpc.Response); ok {
		select {
		case <-c.inflight:
		default:
		}
	}

	return err
}

// Close implements mcp.Connection and unblocks a Read waiting on the gate.
func (c *orderedConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })

	return c.Connection.Close()
}
