package connection

import "fmt"

// RPCError is the error object of an RPC response.
type RPCError struct {
	Code        int    `json:"code" cbor:"code"`
	Message     string `json:"message,omitempty" cbor:"message,omitempty"`
	Description string `json:"description,omitempty" cbor:"description,omitempty"`
}

func (r *RPCError) Error() string {
	if r.Description != "" {
		return fmt.Sprintf("rpc error %d: %s", r.Code, r.Description)
	}
	return fmt.Sprintf("rpc error %d: %s", r.Code, r.Message)
}

// Is reports whether target is also an *RPCError, so errors.Is(err, &RPCError{})
// tells server-side RPC failures apart from transport failures.
func (r *RPCError) Is(target error) bool {
	_, ok := target.(*RPCError)
	return ok
}

// RPCRequest is a request sent to the /rpc endpoint.
type RPCRequest struct {
	ID     any    `json:"id" cbor:"id"`
	Method string `json:"method,omitempty" cbor:"method,omitempty"`
	Params []any  `json:"params,omitempty" cbor:"params,omitempty"`
}

// RPCResponse is the reply to an RPCRequest carrying the same ID.
type RPCResponse[T any] struct {
	ID     any       `json:"id" cbor:"id"`
	Error  *RPCError `json:"error,omitempty" cbor:"error,omitempty"`
	Result *T        `json:"result,omitempty" cbor:"result,omitempty"`
}

type RPCFunction string

const (
	MethodUse    RPCFunction = "use"
	MethodSignIn RPCFunction = "signin"
	MethodLet    RPCFunction = "let"
	MethodUnset  RPCFunction = "unset"
	MethodQuery  RPCFunction = "query"
	MethodPing   RPCFunction = "ping"
)
