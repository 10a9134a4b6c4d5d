package connection

import "time"

const (
	// CloseMessageCode is the WebSocket close code sent on a normal close.
	CloseMessageCode = 1000
	// DefaultTimeout bounds a single RPC round trip.
	DefaultTimeout = 30 * time.Second
	// AuthTokenKey is the session variable holding the bearer token of HTTP connections.
	AuthTokenKey = "auth_token"
)
