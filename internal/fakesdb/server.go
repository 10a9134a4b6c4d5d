// Package fakesdb provides a fake SurrealDB WebSocket server for tests.
// It speaks the SurrealDB RPC protocol over WebSocket using CBOR encoding,
// answers configured stub responses and can inject failures.
//
// The WebSocket server is implemented using the `gws` library.
package fakesdb

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"
	"github.com/tosic/surrealdb-abstractions/internal/codec"
	"github.com/tosic/surrealdb-abstractions/pkg/connection"
	"github.com/tosic/surrealdb-abstractions/pkg/models"
)

// FailureType is the kind of failure injected while handling a request.
type FailureType string

const (
	// FailureRequestDelay delays before processing the request
	FailureRequestDelay FailureType = "request_delay"
	// FailureNoResponse swallows the request
	FailureNoResponse FailureType = "no_response"
	// FailureInvalidResponse sends bytes that are not CBOR
	FailureInvalidResponse FailureType = "invalid_response"
	// FailureWebSocketClose sends a close frame with CloseCode and CloseReason
	FailureWebSocketClose FailureType = "websocket_close"
	// FailureDropConnection closes the underlying network connection
	FailureDropConnection FailureType = "drop_connection"
)

// RequestMatcher selects the requests a stub answers.
type RequestMatcher struct {
	Method string
	// Matcher optionally inspects the params. Nil matches every request of Method.
	Matcher func(params []any) bool
}

// StubResponse is a canned answer to matching requests: either Result or Error.
type StubResponse struct {
	Matcher  RequestMatcher
	Result   any
	Error    *connection.RPCError
	Failures []FailureConfig
}

// FailureConfig describes one failure and the probability it is applied.
type FailureConfig struct {
	Type        FailureType
	Probability float64
	Delay       time.Duration
	CloseCode   uint16
	CloseReason string
}

// Session is the state the server keeps per connection.
type Session struct {
	Namespace string
	Database  string
	Username  string
	Token     string
	Vars      map[string]any
}

type Server struct {
	addr     string
	listener net.Listener
	server   *gws.Server
	logger   zerolog.Logger

	// done is closed by Stop; exited is closed once the accept loop returned.
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once

	mu             sync.RWMutex
	stubResponses  []StubResponse
	globalFailures []FailureConfig
	sessions       map[*gws.Conn]*Session
	requests       []connection.RPCRequest

	marshaler   codec.Marshaler
	unmarshaler codec.Unmarshaler

	// TokenSignIn is returned by signin.
	TokenSignIn string
	// RequireAuth rejects queries on connections that did not sign in.
	RequireAuth bool
}

type Handler struct {
	gws.BuiltinEventHandler
	server *Server
}

// NewServer creates a server that will listen on addr, e.g. "127.0.0.1:0".
func NewServer(addr string) *Server {
	s := &Server{
		addr:        addr,
		logger:      zerolog.New(os.Stderr).With().Str("component", "fakesdb").Logger(),
		sessions:    make(map[*gws.Conn]*Session),
		marshaler:   models.CborMarshaler{},
		unmarshaler: models.CborUnmarshaler{},
		TokenSignIn: "fake_token",
		done:        make(chan struct{}),
		exited:      make(chan struct{}),
	}

	s.server = gws.NewServer(&Handler{server: s}, &gws.ServerOption{})
	s.server.OnError = func(_ net.Conn, err error) {
		select {
		case <-s.done:
			// RunListener retries Accept forever once the listener is
			// closed; leave its loop instead.
			runtime.Goexit()
		default:
		}
		if !isClosedError(err) {
			s.logger.Error().Err(err).Msg("server error")
		}
	}

	return s
}

func (s *Server) AddStubResponse(stub StubResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubResponses = append(s.stubResponses, stub)
}

// SetGlobalFailures applies failures to every request before it is handled.
func (s *Server) SetGlobalFailures(failures []FailureConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalFailures = failures
}

// Requests returns the requests received so far.
func (s *Server) Requests() []connection.RPCRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]connection.RPCRequest(nil), s.requests...)
}

// RequestsFor returns the received requests of one method.
func (s *Server) RequestsFor(method string) []connection.RPCRequest {
	var out []connection.RPCRequest
	for _, req := range s.Requests() {
		if req.Method == method {
			out = append(out, req)
		}
	}
	return out
}

func (s *Server) Start() error {
	var lc net.ListenConfig
	listener, err := lc.Listen(context.Background(), "tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener

	go func() {
		defer close(s.exited)
		if err := s.server.RunListener(listener); err != nil && !isClosedError(err) {
			s.logger.Error().Err(err).Msg("server stopped")
		}
	}()

	return nil
}

// Stop closes the listener and waits for the accept loop to end. Open
// connections are left to the clients. Stop may be called more than once.
func (s *Server) Stop() error {
	if s.listener == nil {
		return nil
	}

	var err error
	s.stopOnce.Do(func() {
		close(s.done)
		err = s.listener.Close()
		<-s.exited
	})
	return err
}

func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// URL returns the ws:// endpoint of the running server.
func (s *Server) URL() string {
	return "ws://" + s.Address()
}

func (h *Handler) OnClose(socket *gws.Conn, _ error) {
	h.server.mu.Lock()
	delete(h.server.sessions, socket)
	h.server.mu.Unlock()
}

func (h *Handler) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.WritePong(payload)
}

func (h *Handler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	var req connection.RPCRequest
	if err := h.server.unmarshaler.Unmarshal(message.Bytes(), &req); err != nil {
		h.sendError(socket, nil, -32700, "Parse error")
		return
	}

	h.server.mu.Lock()
	h.server.requests = append(h.server.requests, req)
	failures := append([]FailureConfig(nil), h.server.globalFailures...)
	stub := h.server.matchStub(&req)
	h.server.mu.Unlock()

	if stub != nil {
		failures = append(failures, stub.Failures...)
	}
	for _, failure := range failures {
		if shouldTriggerFailure(failure.Probability) && h.applyFailure(socket, failure) {
			return
		}
	}

	switch req.Method {
	case "use":
		h.handleUse(socket, &req)
		return
	case "signin":
		h.handleSignIn(socket, &req)
		return
	case "let":
		h.handleLet(socket, &req)
		return
	case "unset":
		h.handleUnset(socket, &req)
		return
	case "ping":
		h.sendResponse(socket, req.ID, nil)
		return
	}

	h.server.mu.RLock()
	session := h.server.sessions[socket]
	h.server.mu.RUnlock()

	if session == nil || session.Namespace == "" || session.Database == "" {
		h.sendError(socket, req.ID, -32000,
			"There was a problem with the database: Specify a namespace and database to use")
		return
	}
	if h.server.RequireAuth && session.Username == "" {
		h.sendError(socket, req.ID, -32000,
			"There was a problem with the database: There was a problem with authentication: Not signed in")
		return
	}

	if stub != nil {
		if stub.Error != nil {
			h.sendError(socket, req.ID, stub.Error.Code, stub.Error.Message)
		} else {
			h.sendResponse(socket, req.ID, stub.Result)
		}
		return
	}

	if req.Method == "query" {
		h.sendResponse(socket, req.ID, QueryResponse(OKResult([]any{})))
		return
	}

	h.sendError(socket, req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method))
}

// matchStub must be called with mu held.
func (s *Server) matchStub(req *connection.RPCRequest) *StubResponse {
	for i := range s.stubResponses {
		stub := &s.stubResponses[i]
		if stub.Matcher.Method != req.Method {
			continue
		}
		if stub.Matcher.Matcher == nil || stub.Matcher.Matcher(req.Params) {
			return stub
		}
	}
	return nil
}

// applyFailure injects the failure and reports whether handling must stop.
func (h *Handler) applyFailure(socket *gws.Conn, failure FailureConfig) bool {
	switch failure.Type {
	case FailureRequestDelay:
		time.Sleep(failure.Delay)
		return false

	case FailureNoResponse:
		return true

	case FailureInvalidResponse:
		if err := socket.WriteMessage(gws.OpcodeBinary, []byte{0xff, 0xff, 0xff}); err != nil {
			h.server.logger.Error().Err(err).Msg("writing invalid response")
		}
		return true

	case FailureWebSocketClose:
		code := failure.CloseCode
		if code == 0 {
			code = 1001
		}
		reason := failure.CloseReason
		if reason == "" {
			reason = "failure injection"
		}
		socket.WriteClose(code, []byte(reason))
		return true

	case FailureDropConnection:
		_ = socket.NetConn().Close()
		return true
	}

	return false
}

func (h *Handler) handleUse(socket *gws.Conn, req *connection.RPCRequest) {
	if len(req.Params) < 2 {
		h.sendError(socket, req.ID, -32602, "Invalid params: use requires namespace and database")
		return
	}

	namespace, nsOK := req.Params[0].(string)
	database, dbOK := req.Params[1].(string)
	if !nsOK || !dbOK {
		h.sendError(socket, req.ID, -32602, "Invalid params: namespace and database must be strings")
		return
	}

	session := h.server.session(socket)
	h.server.mu.Lock()
	session.Namespace = namespace
	session.Database = database
	h.server.mu.Unlock()

	h.sendResponse(socket, req.ID, nil)
}

func (h *Handler) handleSignIn(socket *gws.Conn, req *connection.RPCRequest) {
	var username string
	if len(req.Params) > 0 {
		if authData, ok := req.Params[0].(map[string]any); ok {
			username, _ = authData["user"].(string)
		}
	}
	if username == "" {
		h.sendError(socket, req.ID, -32602, "Invalid params: signin requires a user")
		return
	}

	session := h.server.session(socket)
	h.server.mu.Lock()
	session.Username = username
	session.Token = h.server.TokenSignIn
	h.server.mu.Unlock()

	h.sendResponse(socket, req.ID, h.server.TokenSignIn)
}

func (h *Handler) handleLet(socket *gws.Conn, req *connection.RPCRequest) {
	if len(req.Params) < 2 {
		h.sendError(socket, req.ID, -32602, "Invalid params: let requires a key and a value")
		return
	}
	key, ok := req.Params[0].(string)
	if !ok {
		h.sendError(socket, req.ID, -32602, "Invalid params: key must be a string")
		return
	}

	session := h.server.session(socket)
	h.server.mu.Lock()
	session.Vars[key] = req.Params[1]
	h.server.mu.Unlock()

	h.sendResponse(socket, req.ID, nil)
}

func (h *Handler) handleUnset(socket *gws.Conn, req *connection.RPCRequest) {
	if len(req.Params) < 1 {
		h.sendError(socket, req.ID, -32602, "Invalid params: unset requires a key")
		return
	}
	key, _ := req.Params[0].(string)

	session := h.server.session(socket)
	h.server.mu.Lock()
	delete(session.Vars, key)
	h.server.mu.Unlock()

	h.sendResponse(socket, req.ID, nil)
}

// Session returns a copy of the state of the connection that signed in as
// username, if any.
func (s *Server) Session(username string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if session.Username == username {
			return *session, true
		}
	}
	return Session{}, false
}

func (s *Server) session(socket *gws.Conn) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[socket]
	if !ok {
		session = &Session{Vars: make(map[string]any)}
		s.sessions[socket] = session
	}
	return session
}

func (h *Handler) sendResponse(socket *gws.Conn, id, result any) {
	var resp connection.RPCResponse[any]
	resp.ID = id
	resp.Result = &result

	data, err := h.server.marshaler.Marshal(resp)
	if err != nil {
		h.sendError(socket, id, -32603, fmt.Sprintf("sendResponse: %v", err))
		return
	}

	if err := socket.WriteMessage(gws.OpcodeBinary, data); err != nil {
		h.server.logger.Error().Err(err).Msg("writing response")
	}
}

func (h *Handler) sendError(socket *gws.Conn, id any, code int, message string) {
	var resp connection.RPCResponse[any]
	resp.ID = id
	resp.Error = &connection.RPCError{
		Code:    code,
		Message: message,
	}

	data, err := h.server.marshaler.Marshal(resp)
	if err != nil {
		h.server.logger.Error().Err(err).Msg("marshaling error response")
		return
	}

	if err := socket.WriteMessage(gws.OpcodeBinary, data); err != nil {
		h.server.logger.Error().Err(err).Msg("writing error response")
	}
}

func shouldTriggerFailure(probability float64) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 1 {
		return true
	}
	return rand.Float64() < probability //nolint:gosec // no security required
}

func isClosedError(err error) bool {
	return errors.Is(err, net.ErrClosed) || strings.Contains(err.Error(), "use of closed network connection")
}
