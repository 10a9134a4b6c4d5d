// Package http is the HTTP engine of the connection layer. Each RPC call is
// one POST to /rpc with a CBOR body; the namespace, database and token are
// kept client side and sent as headers.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/buger/jsonparser"
	"github.com/fxamacker/cbor/v2"
	"github.com/tosic/surrealdb-abstractions/pkg/connection"
	"github.com/tosic/surrealdb-abstractions/pkg/constants"
)

type Connection struct {
	connection.BaseConnection

	httpClient *http.Client
	variables  sync.Map
}

func New(p *connection.Config) *Connection {
	return &Connection{
		BaseConnection: connection.NewBaseConnection(p),
		httpClient: &http.Client{
			Timeout: p.Timeout,
		},
	}
}

// Connect checks that the server answers on /health.
func (c *Connection) Connect(ctx context.Context) error {
	if err := c.PreConnectionChecks(); err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", http.NoBody)
	if err != nil {
		return err
	}
	_, err = c.MakeRequest(httpReq)
	return err
}

func (c *Connection) Close(_ context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Connection) SetTimeout(timeout time.Duration) *Connection {
	c.httpClient.Timeout = timeout
	return c
}

func (c *Connection) SetHTTPClient(client *http.Client) *Connection {
	c.httpClient = client
	return c
}

func (c *Connection) Send(ctx context.Context, method string, params ...any) (*connection.RPCResponse[cbor.RawMessage], error) {
	if c.BaseURL == "" {
		return nil, constants.ErrNoBaseURL
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
	reqBody, err := c.Marshaler.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/rpc", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/cbor")
	req.Header.Set("Content-Type", "application/cbor")

	// signin is the only call allowed before use.
	namespace, nsOK := c.variables.Load("namespace")
	database, dbOK := c.variables.Load("database")
	if nsOK && dbOK {
		req.Header.Set("Surreal-NS", namespace.(string))
		req.Header.Set("Surreal-DB", database.(string))
	} else if method != string(connection.MethodSignIn) {
		return nil, constants.ErrNoNamespaceOrDB
	}

	if token, ok := c.variables.Load(connection.AuthTokenKey); ok {
		req.Header.Set("Authorization", "Bearer "+token.(string))
	}

	respData, err := c.MakeRequest(req)
	if err != nil {
		return nil, err
	}

	var res connection.RPCResponse[cbor.RawMessage]
	if err := c.Unmarshaler.Unmarshal(respData, &res); err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, res.Error
	}

	return &res, nil
}

// MakeRequest performs req and returns the body of a 2xx response. Other
// responses are turned into an error, decoding the RPC error object when the
// body carries one.
func (c *Connection) MakeRequest(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBytes, nil
	}

	contentType := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	switch contentType {
	case "application/cbor":
		var errorResponse connection.RPCResponse[any]
		if err := c.Unmarshaler.Unmarshal(respBytes, &errorResponse); err == nil && errorResponse.Error != nil {
			return nil, errorResponse.Error
		}
	case "application/json":
		if rpcErr := parseJSONError(respBytes); rpcErr != nil {
			return nil, rpcErr
		}
	}

	return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(respBytes)))
}

// parseJSONError reads the error object out of a JSON error body. Both the
// RPC shape {"error": {...}} and the flat {"code", "details", "information"}
// shape returned by the HTTP endpoints are understood.
func parseJSONError(body []byte) *connection.RPCError {
	if code, err := jsonparser.GetInt(body, "error", "code"); err == nil {
		msg, _ := jsonparser.GetString(body, "error", "message")
		return &connection.RPCError{Code: int(code), Message: msg}
	}

	code, err := jsonparser.GetInt(body, "code")
	if err != nil {
		return nil
	}
	rpcErr := &connection.RPCError{Code: int(code)}
	rpcErr.Message, _ = jsonparser.GetString(body, "details")
	rpcErr.Description, _ = jsonparser.GetString(body, "information")
	return rpcErr
}

func (c *Connection) Use(_ context.Context, namespace, database string) error {
	c.variables.Store("namespace", namespace)
	c.variables.Store("database", database)

	return nil
}

func (c *Connection) Let(_ context.Context, key string, value any) error {
	c.variables.Store(key, value)
	return nil
}

func (c *Connection) Unset(_ context.Context, key string) error {
	c.variables.Delete(key)
	return nil
}

// SignIn signs in and keeps the token for the following requests.
func (c *Connection) SignIn(ctx context.Context, authData any) (string, error) {
	token, err := connection.SignIn(ctx, c, authData)
	if err != nil {
		return "", err
	}

	if err := c.Let(ctx, connection.AuthTokenKey, token); err != nil {
		return "", err
	}

	return token, nil
}
