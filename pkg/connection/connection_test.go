package connection

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tosic/surrealdb-abstractions/internal/codec"
	"github.com/tosic/surrealdb-abstractions/pkg/constants"
	"github.com/tosic/surrealdb-abstractions/pkg/models"
)

// stubConnection answers every Send with a canned result.
type stubConnection struct {
	BaseConnection
	result any
	err    error
	method string
	params []any
}

func (s *stubConnection) Connect(context.Context) error                     { return nil }
func (s *stubConnection) Close(context.Context) error                       { return nil }
func (s *stubConnection) Use(context.Context, string, string) error         { return nil }
func (s *stubConnection) Let(context.Context, string, any) error            { return nil }
func (s *stubConnection) Unset(context.Context, string) error               { return nil }
func (s *stubConnection) SignIn(ctx context.Context, a any) (string, error) { return SignIn(ctx, s, a) }
func (s *stubConnection) GetUnmarshaler() codec.Unmarshaler                 { return models.CborUnmarshaler{} }

func (s *stubConnection) Send(_ context.Context, method string, params ...any) (*RPCResponse[cbor.RawMessage], error) {
	s.method, s.params = method, params
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		return &RPCResponse[cbor.RawMessage]{ID: "1"}, nil
	}
	data, err := models.CborMarshaler{}.Marshal(s.result)
	if err != nil {
		return nil, err
	}
	raw := cbor.RawMessage(data)
	return &RPCResponse[cbor.RawMessage]{ID: "1", Result: &raw}, nil
}

func TestSend_decodesResult(t *testing.T) {
	conn := &stubConnection{result: []string{"a", "b"}}

	var res RPCResponse[[]string]
	require.NoError(t, Send(context.Background(), conn, &res, MethodQuery, "SELECT * FROM user"))

	assert.Equal(t, "query", conn.method)
	assert.Equal(t, []any{"SELECT * FROM user"}, conn.params)
	assert.Equal(t, "1", res.ID)
	require.NotNil(t, res.Result)
	assert.Equal(t, []string{"a", "b"}, *res.Result)
}

func TestSend_nilResult(t *testing.T) {
	var res RPCResponse[string]
	require.NoError(t, Send(context.Background(), &stubConnection{}, &res, MethodPing))
	assert.Nil(t, res.Result)

	require.NoError(t, Send[any](context.Background(), &stubConnection{}, nil, MethodPing))
}

func TestSend_decodeMismatch(t *testing.T) {
	var res RPCResponse[int]
	err := Send(context.Background(), &stubConnection{result: "text"}, &res, MethodQuery)
	assert.ErrorContains(t, err, "error unmarshaling result")
}

func TestSend_transportError(t *testing.T) {
	boom := errors.New("boom")
	err := Send[any](context.Background(), &stubConnection{err: boom}, nil, MethodQuery)
	assert.ErrorIs(t, err, boom)
}

func TestSignIn(t *testing.T) {
	conn := &stubConnection{result: "jwt"}

	token, err := conn.SignIn(context.Background(), map[string]any{"user": "root"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)
	assert.Equal(t, "signin", conn.method)
}

func TestRPCError(t *testing.T) {
	err := error(&RPCError{Code: -32000, Message: "problem"})
	assert.EqualError(t, err, "rpc error -32000: problem")
	assert.ErrorIs(t, err, &RPCError{})

	withDescription := &RPCError{Code: 400, Message: "bad", Description: "details"}
	assert.EqualError(t, withDescription, "rpc error 400: details")

	assert.NotErrorIs(t, errors.New("other"), &RPCError{})
}

func TestResponseChannels(t *testing.T) {
	u, err := url.Parse("ws://localhost:8000")
	require.NoError(t, err)
	bc := NewBaseConnection(NewConfig(u))

	ch, err := bc.CreateResponseChannel("id")
	require.NoError(t, err)

	_, err = bc.CreateResponseChannel("id")
	assert.ErrorIs(t, err, constants.ErrIDInUse)

	got, ok := bc.GetResponseChannel("id")
	require.True(t, ok)
	assert.Equal(t, ch, got)

	bc.RemoveResponseChannel("id")
	_, ok = bc.GetResponseChannel("id")
	assert.False(t, ok)
}

func TestPreConnectionChecks(t *testing.T) {
	assert.ErrorIs(t, (&BaseConnection{}).PreConnectionChecks(), constants.ErrNoBaseURL)
	assert.ErrorIs(t, (&BaseConnection{BaseURL: "ws://x"}).PreConnectionChecks(), constants.ErrNoMarshaler)
	assert.ErrorIs(t, (&BaseConnection{
		BaseURL:   "ws://x",
		Marshaler: models.CborMarshaler{},
	}).PreConnectionChecks(), constants.ErrNoUnmarshaler)

	u, err := url.Parse("http://localhost:8000/rpc")
	require.NoError(t, err)
	cfg := NewConfig(u)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	bc := NewBaseConnection(cfg)
	assert.NoError(t, bc.PreConnectionChecks())
}
