package abstractions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tosic/surrealdb-abstractions/pkg/models"
)

func mustCbor(t *testing.T, v any) []byte {
	t.Helper()

	data, err := models.CborMarshaler{}.Marshal(v)
	require.NoError(t, err)
	return data
}

func testResponse(t *testing.T, results ...QueryResult) *Response {
	t.Helper()
	return newResponse(results, models.CborUnmarshaler{})
}

func TestResponse_Take(t *testing.T) {
	res := testResponse(t,
		QueryResult{Status: "OK", Time: "1ms", Result: mustCbor(t, []map[string]any{{"name": "Tobie"}})},
		QueryResult{Status: "ERR", Time: "1ms", Result: mustCbor(t, "An error occurred: boom")},
	)
	assert.Equal(t, 2, res.Len())
	assert.Len(t, res.Results(), 2)

	var rows []map[string]any
	require.NoError(t, res.Take(0, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Tobie", rows[0]["name"])

	err := res.Take(1, &rows)
	var qerr *QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "An error occurred: boom", qerr.Message)
	assert.ErrorIs(t, err, &QueryError{})
}

func TestResponse_TakeOutOfRange(t *testing.T) {
	res := testResponse(t, QueryResult{Status: "OK", Result: mustCbor(t, 1)})

	var n int
	for _, index := range []int{-1, 1, 5} {
		err := res.Take(index, &n)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", index)
	}
	require.NoError(t, res.Take(0, &n))
	assert.Equal(t, 1, n)
}

func TestResponse_TakeWrongType(t *testing.T) {
	res := testResponse(t, QueryResult{Status: "OK", Result: mustCbor(t, "not a number")})

	var n int
	err := res.Take(0, &n)
	require.Error(t, err)
	assert.NotErrorIs(t, err, &QueryError{})
	assert.Contains(t, err.Error(), "statement 0")
}
