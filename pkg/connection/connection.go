// Package connection speaks the SurrealDB RPC protocol. The engines live in
// the gorillaws (WebSocket) and http subpackages.
package connection

import (
	"context"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/tosic/surrealdb-abstractions/internal/codec"
	"github.com/tosic/surrealdb-abstractions/pkg/constants"
	"github.com/tosic/surrealdb-abstractions/pkg/models"
)

type Connection interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	// Send performs one RPC call. A response carrying an error object is
	// returned as that *RPCError.
	Send(ctx context.Context, method string, params ...any) (*RPCResponse[cbor.RawMessage], error)
	Use(ctx context.Context, namespace string, database string) error
	Let(ctx context.Context, key string, value any) error
	Unset(ctx context.Context, key string) error
	SignIn(ctx context.Context, authData any) (string, error)
	GetUnmarshaler() codec.Unmarshaler
}

// BaseConnection holds what every engine needs: the endpoint, the codec and
// the table of in-flight requests waiting for their response.
type BaseConnection struct {
	BaseURL     string
	Marshaler   codec.Marshaler
	Unmarshaler codec.Unmarshaler
	Logger      zerolog.Logger

	responseChannels     map[string]chan RPCResponse[cbor.RawMessage]
	responseChannelsLock sync.RWMutex
}

func NewBaseConnection(p *Config) BaseConnection {
	return BaseConnection{
		BaseURL:          p.BaseURL,
		Marshaler:        p.Marshaler,
		Unmarshaler:      p.Unmarshaler,
		Logger:           p.Logger,
		responseChannels: make(map[string]chan RPCResponse[cbor.RawMessage]),
	}
}

// NewRequestID returns a fresh id for an RPCRequest.
func NewRequestID() (string, error) {
	id, err := models.NewUUID()
	if err != nil {
		return "", fmt.Errorf("generating request id: %w", err)
	}
	return id.String(), nil
}

func (bc *BaseConnection) CreateResponseChannel(id string) (chan RPCResponse[cbor.RawMessage], error) {
	bc.responseChannelsLock.Lock()
	defer bc.responseChannelsLock.Unlock()

	if _, ok := bc.responseChannels[id]; ok {
		return nil, fmt.Errorf("%w: %v", constants.ErrIDInUse, id)
	}

	// Buffered so the reader never blocks on a request that already gave up.
	ch := make(chan RPCResponse[cbor.RawMessage], 1)
	bc.responseChannels[id] = ch

	return ch, nil
}

func (bc *BaseConnection) RemoveResponseChannel(id string) {
	bc.responseChannelsLock.Lock()
	defer bc.responseChannelsLock.Unlock()
	delete(bc.responseChannels, id)
}

func (bc *BaseConnection) GetResponseChannel(id string) (chan RPCResponse[cbor.RawMessage], bool) {
	bc.responseChannelsLock.RLock()
	defer bc.responseChannelsLock.RUnlock()
	ch, ok := bc.responseChannels[id]
	return ch, ok
}

func (bc *BaseConnection) PreConnectionChecks() error {
	if bc.BaseURL == "" {
		return constants.ErrNoBaseURL
	}

	if bc.Marshaler == nil {
		return constants.ErrNoMarshaler
	}

	if bc.Unmarshaler == nil {
		return constants.ErrNoUnmarshaler
	}

	return nil
}

func (bc *BaseConnection) GetUnmarshaler() codec.Unmarshaler {
	return bc.Unmarshaler
}
