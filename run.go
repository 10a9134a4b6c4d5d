package abstractions

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/tosic/surrealdb-abstractions/pkg/query"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/tosic/surrealdb-abstractions"

// Querier sends statement text to the server. *DB implements it.
type Querier interface {
	Query(ctx context.Context, sql string) (*Response, error)
}

// Run builds q, sends it with a single call to db and decodes the result of
// the statement at index into T. Failures are logged to the logger carried
// by ctx, if any (see zerolog.Ctx).
func Run[T any](ctx context.Context, db Querier, q query.Query, index int) (T, error) {
	ctx, span := startSpan(ctx, operation(q), index)
	defer span.End()

	sql, err := q.Build()
	if err != nil {
		return fail[T](ctx, span, buildError(err))
	}
	return execute[T](ctx, span, db, sql, index)
}

// RunQuery sends sql as is and decodes the result of the statement at index
// into T.
func RunQuery[T any](ctx context.Context, db Querier, sql string, index int) (T, error) {
	ctx, span := startSpan(ctx, "QUERY", index)
	defer span.End()

	return execute[T](ctx, span, db, sql, index)
}

func execute[T any](ctx context.Context, span trace.Span, db Querier, sql string, index int) (T, error) {
	span.SetAttributes(attribute.String("db.statement", sql))

	res, err := db.Query(ctx, sql)
	if err != nil {
		return fail[T](ctx, span, newError(KindTransaction, sql, err))
	}

	var out T
	if err := res.Take(index, &out); err != nil {
		var qerr *QueryError
		if errors.As(err, &qerr) {
			return fail[T](ctx, span, newError(KindTransaction, sql, err))
		}
		return fail[T](ctx, span, newError(KindResponse, sql, err))
	}

	span.SetStatus(codes.Ok, "")
	return out, nil
}

func startSpan(ctx context.Context, op string, index int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "surrealdb.run",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "surrealdb"),
			attribute.String("db.operation", op),
			attribute.Int("db.result_index", index),
		))
}

func fail[T any](ctx context.Context, span trace.Span, e *Error) (T, error) {
	span.RecordError(e)
	span.SetStatus(codes.Error, e.Error())

	zerolog.Ctx(ctx).Error().
		Err(e.Err).
		Str("kind", e.Kind.String()).
		Str("statement", e.Statement).
		Msg("running query failed")

	var zero T
	return zero, e
}

func operation(q query.Query) string {
	if s, ok := q.(query.Statement); ok {
		return s.Kind().String()
	}
	return "QUERY"
}
