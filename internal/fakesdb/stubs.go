package fakesdb

import (
	"strings"

	"github.com/tosic/surrealdb-abstractions/pkg/connection"
)

// MatchMethod matches every request of method.
func MatchMethod(method string) RequestMatcher {
	return RequestMatcher{Method: method}
}

// MatchQuery matches query requests whose statement text contains substr.
func MatchQuery(substr string) RequestMatcher {
	return RequestMatcher{
		Method: "query",
		Matcher: func(params []any) bool {
			if len(params) == 0 {
				return false
			}
			sql, ok := params[0].(string)
			return ok && strings.Contains(sql, substr)
		},
	}
}

func SimpleStubResponse(method string, result any) StubResponse {
	return StubResponse{Matcher: MatchMethod(method), Result: result}
}

func ErrorStubResponse(method string, code int, message string) StubResponse {
	return StubResponse{
		Matcher: MatchMethod(method),
		Error:   &connection.RPCError{Code: code, Message: message},
	}
}

// QueryStub answers query requests containing substr with one result per
// statement.
func QueryStub(substr string, statements ...map[string]any) StubResponse {
	return StubResponse{Matcher: MatchQuery(substr), Result: QueryResponse(statements...)}
}

// QueryResponse is the result of a query call: one entry per statement.
func QueryResponse(statements ...map[string]any) []any {
	out := make([]any, len(statements))
	for i, s := range statements {
		out[i] = s
	}
	return out
}

// OKResult is a statement that executed and returned result.
func OKResult(result any) map[string]any {
	return map[string]any{"status": "OK", "time": "12.5µs", "result": result}
}

// ErrResult is a statement the server failed to execute.
func ErrResult(message string) map[string]any {
	return map[string]any{"status": "ERR", "time": "8.1µs", "result": message}
}
