package abstractions

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/tosic/surrealdb-abstractions/internal/codec"
	"github.com/tosic/surrealdb-abstractions/pkg/constants"
)

// ErrIndexOutOfRange is returned by Response.Take for a statement index the
// response has no result for.
var ErrIndexOutOfRange = errors.New("statement index out of range")

// QueryResult is the outcome of one statement of a query call.
type QueryResult struct {
	Status string          `json:"status" cbor:"status"`
	Time   string          `json:"time" cbor:"time"`
	Result cbor.RawMessage `json:"result" cbor:"result"`
}

// Err returns a *QueryError when the statement failed.
func (r QueryResult) Err(unmarshaler codec.Unmarshaler) error {
	if r.Status != constants.StatusErr {
		return nil
	}
	var message string
	if err := unmarshaler.Unmarshal(r.Result, &message); err != nil {
		message = fmt.Sprintf("statement failed with an undecodable error: %x", []byte(r.Result))
	}
	return &QueryError{Message: message}
}

// Response holds the results of a query call, one per statement.
type Response struct {
	results     []QueryResult
	unmarshaler codec.Unmarshaler
}

func newResponse(results []QueryResult, unmarshaler codec.Unmarshaler) *Response {
	return &Response{results: results, unmarshaler: unmarshaler}
}

func (r *Response) Len() int {
	return len(r.results)
}

func (r *Response) Results() []QueryResult {
	return r.results
}

// Take decodes the result of the statement at index into dest. A failed
// statement is returned as a *QueryError.
func (r *Response) Take(index int, dest any) error {
	if index < 0 || index >= len(r.results) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(r.results))
	}

	res := r.results[index]
	if err := res.Err(r.unmarshaler); err != nil {
		return err
	}

	if err := r.unmarshaler.Unmarshal(res.Result, dest); err != nil {
		return fmt.Errorf("statement %d: %w", index, err)
	}
	return nil
}
