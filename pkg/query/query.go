package query

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Query is anything that renders to SurrealQL statement text.
type Query interface {
	// Build renders the statement. It does not modify the builder and may be
	// called any number of times.
	Build() (string, error)
}

// Statement is a Query that knows which statement kind it renders.
type Statement interface {
	Query
	Kind() Kind
}

var (
	ErrMissingContent       = errors.New("missing required content")
	ErrMissingRelation      = errors.New("missing relation endpoints")
	ErrUnsupportedStatement = errors.New("unsupported statement kind")
	ErrInvalidTimeout       = errors.New("invalid timeout")
)

// Raw is statement text passed through unchanged.
type Raw string

func (r Raw) Build() (string, error) {
	return string(r), nil
}

func (r Raw) String() string {
	return string(r)
}

var logger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	logger.Store(&nop)
}

// SetLogger sets the logger that receives a debug line for every built
// statement. The default discards everything.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

func logConstructed(kind Kind, sql string) {
	logger.Load().Debug().
		Str("kind", kind.String()).
		Str("statement", sql).
		Msg("constructed query")
}
