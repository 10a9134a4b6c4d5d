// Package gorillaws is the WebSocket engine of the connection layer, built on
// gorilla/websocket and the cbor subprotocol.
package gorillaws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	gorilla "github.com/gorilla/websocket"
	"github.com/tosic/surrealdb-abstractions/pkg/connection"
	"github.com/tosic/surrealdb-abstractions/pkg/constants"
)

// DefaultDialer is the gorilla default dialer with compression enabled and
// the cbor subprotocol requested.
var DefaultDialer = &gorilla.Dialer{
	Proxy:             gorilla.DefaultDialer.Proxy,
	HandshakeTimeout:  gorilla.DefaultDialer.HandshakeTimeout,
	EnableCompression: true,
	Subprotocols:      []string{"cbor"},
}

type Connection struct {
	connection.BaseConnection

	Conn *gorilla.Conn
	// connLock guards writes to Conn and its replacement on Close.
	connLock sync.Mutex

	// Timeout is the time to wait for the response after a request is
	// written. Zero leaves the deadline to the caller's context.
	Timeout time.Duration

	closeOnce      sync.Once
	connCloseCh    chan struct{}
	connCloseError error
}

func New(p *connection.Config) *Connection {
	return &Connection{
		BaseConnection: connection.NewBaseConnection(p),
		Timeout:        p.Timeout,
		connCloseCh:    make(chan struct{}),
	}
}

// Connect dials BaseURL/rpc and starts reading responses in the background.
func (c *Connection) Connect(ctx context.Context) error {
	if err := c.PreConnectionChecks(); err != nil {
		return err
	}

	conn, res, err := DefaultDialer.DialContext(ctx, fmt.Sprintf("%s/rpc", c.BaseURL), nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	c.connLock.Lock()
	c.Conn = conn
	c.connLock.Unlock()

	go c.readLoop(conn)

	return nil
}

// IsClosed reports whether the connection was closed, locally or by the peer.
func (c *Connection) IsClosed() bool {
	select {
	case <-c.connCloseCh:
		return true
	default:
		return false
	}
}

// Close sends a close frame and closes the underlying connection. The
// close frame write gives up when ctx is done; the socket is closed anyway.
func (c *Connection) Close(ctx context.Context) error {
	c.closeWithError(net.ErrClosed)

	c.connLock.Lock()
	defer c.connLock.Unlock()

	conn := c.Conn
	c.Conn = nil
	if conn == nil {
		return nil
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}

	writeErr := make(chan error, 1)
	go func() {
		writeErr <- conn.WriteMessage(gorilla.CloseMessage, gorilla.FormatCloseMessage(connection.CloseMessageCode, ""))
	}()

	select {
	case err := <-writeErr:
		if err != nil {
			c.Logger.Error().Err(err).Msg("failed to write close message")
		}
	case <-ctx.Done():
	}

	return conn.Close()
}

func (c *Connection) Use(ctx context.Context, namespace, database string) error {
	return connection.Send[any](ctx, c, nil, connection.MethodUse, namespace, database)
}

func (c *Connection) Let(ctx context.Context, key string, value any) error {
	return connection.Send[any](ctx, c, nil, connection.MethodLet, key, value)
}

func (c *Connection) Unset(ctx context.Context, key string) error {
	return connection.Send[any](ctx, c, nil, connection.MethodUnset, key)
}

func (c *Connection) SignIn(ctx context.Context, authData any) (string, error) {
	return connection.SignIn(ctx, c, authData)
}

// Send writes the request and waits for the response with the same id.
func (c *Connection) Send(ctx context.Context, method string, params ...any) (*connection.RPCResponse[cbor.RawMessage], error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	select {
	case <-c.connCloseCh:
		return nil, fmt.Errorf("%w: %v", constants.ErrConnectionClosed, c.connCloseError)
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	id, err := connection.NewRequestID()
	if err != nil {
		return nil, err
	}
	request := &connection.RPCRequest{
		ID:     id,
		Method: method,
		Params: params,
	}

	responseChan, err := c.CreateResponseChannel(id)
	if err != nil {
		return nil, err
	}
	defer c.RemoveResponseChannel(id)

	if err := c.write(request); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s: %w", constants.ErrTimeout, method, ctx.Err())
		}
		return nil, ctx.Err()
	case <-c.connCloseCh:
		return nil, fmt.Errorf("%w: %v", constants.ErrConnectionClosed, c.connCloseError)
	case res := <-responseChan:
		if res.Error != nil {
			return nil, res.Error
		}
		return &res, nil
	}
}

func (c *Connection) write(v any) error {
	data, err := c.Marshaler.Marshal(v)
	if err != nil {
		return err
	}

	c.connLock.Lock()
	defer c.connLock.Unlock()

	if c.Conn == nil {
		return constants.ErrConnectionClosed
	}
	return c.Conn.WriteMessage(gorilla.BinaryMessage, data)
}

func (c *Connection) closeWithError(err error) {
	c.closeOnce.Do(func() {
		c.connCloseError = err
		close(c.connCloseCh)
	})
}

func (c *Connection) readLoop(conn *gorilla.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !c.IsClosed() {
				c.Logger.Error().Err(err).Msg("websocket read failed")
			}
			c.closeWithError(err)
			return
		}
		c.handleResponse(data)
	}
}

func (c *Connection) handleResponse(data []byte) {
	var res connection.RPCResponse[cbor.RawMessage]
	if err := c.Unmarshaler.Unmarshal(data, &res); err != nil {
		c.Logger.Error().Err(err).Msg("failed to decode rpc response")
		return
	}

	if res.ID == nil || res.ID == "" {
		// Some errors come back without the request id; nobody can be woken
		// up, the caller times out.
		c.Logger.Error().Interface("error", res.Error).Msg("rpc response without id")
		return
	}

	id := fmt.Sprintf("%v", res.ID)
	responseChan, ok := c.GetResponseChannel(id)
	if !ok {
		c.Logger.Warn().Str("id", id).Msg("no request waiting for response")
		return
	}
	responseChan <- res
}
