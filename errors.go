package abstractions

import (
	"errors"
	"fmt"

	"github.com/tosic/surrealdb-abstractions/pkg/query"
)

// ErrorKind classifies the failures returned by the runner.
type ErrorKind int

const (
	// KindConstruction means the query could not be rendered.
	KindConstruction ErrorKind = iota + 1
	// KindUnsupported means the statement kind cannot be rendered at all.
	KindUnsupported
	// KindTransaction means the request failed or the server could not
	// execute the statement.
	KindTransaction
	// KindResponse means the server answered but the requested result is
	// missing or does not decode into the requested type.
	KindResponse
)

var (
	ErrConstruction = errors.New("construction error")
	ErrUnsupported  = errors.New("unsupported statement")
	ErrTransaction  = errors.New("transaction error")
	ErrResponse     = errors.New("response error")
)

func (k ErrorKind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindUnsupported:
		return "unsupported"
	case KindTransaction:
		return "transaction"
	case KindResponse:
		return "response"
	}
	return "unknown"
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindConstruction:
		return ErrConstruction
	case KindUnsupported:
		return ErrUnsupported
	case KindTransaction:
		return ErrTransaction
	case KindResponse:
		return ErrResponse
	}
	return nil
}

// Error is returned by Run and RunQuery.
type Error struct {
	Kind ErrorKind
	// Statement is the SurrealQL text, empty when it could not be built.
	Statement string
	Err       error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransaction:
		return fmt.Sprintf("transaction error: %v", e.Err)
	case KindResponse:
		return fmt.Sprintf("response error: %v: possibly the wrong type of response", e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind, so errors.Is(err, ErrResponse)
// holds for every response error.
func (e *Error) Is(target error) bool {
	if s := e.Kind.sentinel(); s != nil && target == s {
		return true
	}
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, statement string, err error) *Error {
	return &Error{Kind: kind, Statement: statement, Err: err}
}

// buildError classifies an error returned by query.Query.Build.
func buildError(err error) *Error {
	if errors.Is(err, query.ErrUnsupportedStatement) {
		return newError(KindUnsupported, "", err)
	}
	return newError(KindConstruction, "", err)
}

// QueryError is the failure of one statement executed by the server.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return e.Message
}

// Is reports whether target is also a *QueryError.
func (e *QueryError) Is(target error) bool {
	_, ok := target.(*QueryError)
	return ok
}
