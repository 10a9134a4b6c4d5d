package connection

import (
	"context"
	"fmt"
)

// Send performs one RPC call on c and decodes its result into res.Result.
// res may be nil when the caller is not interested in the result.
func Send[Result any](ctx context.Context, c Connection, res *RPCResponse[Result], method RPCFunction, params ...any) error {
	rawRes, err := c.Send(ctx, string(method), params...)
	if err != nil {
		return err
	}

	if res == nil {
		return nil
	}

	res.ID = rawRes.ID
	res.Error = rawRes.Error

	if rawRes.Result == nil {
		res.Result = nil
		return nil
	}

	var r Result
	if err := c.GetUnmarshaler().Unmarshal(*rawRes.Result, &r); err != nil {
		return fmt.Errorf("send %s: error unmarshaling result: %w", method, err)
	}
	res.Result = &r

	return nil
}

// SignIn signs in with authData and returns the session token.
func SignIn(ctx context.Context, c Connection, authData any) (string, error) {
	var token RPCResponse[string]
	if err := Send(ctx, c, &token, MethodSignIn, authData); err != nil {
		return "", err
	}
	if token.Result == nil {
		return "", nil
	}
	return *token.Result, nil
}
