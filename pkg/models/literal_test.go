package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status string

type person struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Comment string `json:"comment,omitempty"`
}

type Audit struct {
	CreatedAt time.Time `json:"created_at"`
}

type account struct {
	Audit
	Owner   RecordID      `json:"owner"`
	TTL     time.Duration `json:"ttl"`
	Secret  string        `json:"-"`
	Balance float64
	note    string
}

type rawJSON struct{}

func (rawJSON) MarshalJSON() ([]byte, error) {
	return []byte(`{"kind":"raw","n":1}`), nil
}

func TestFormatLiteral(t *testing.T) {
	five := 5
	var nilInt *int
	var nilRecord *RecordID

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "NULL"},
		{name: "none", value: None, want: "NONE"},
		{name: "string", value: "John Doe", want: "'John Doe'"},
		{name: "string with single quote", value: "it's", want: `"it's"`},
		{name: "string with backslash", value: `a\b`, want: `'a\\b'`},
		{name: "named string", value: status("active"), want: "'active'"},
		{name: "bool", value: true, want: "true"},
		{name: "int", value: 18, want: "18"},
		{name: "negative int64", value: int64(-3), want: "-3"},
		{name: "uint8", value: uint8(7), want: "7"},
		{name: "float", value: 1.5, want: "1.5f"},
		{name: "whole float", value: float32(2), want: "2f"},
		{name: "time", value: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), want: "d'2024-01-02T03:04:05Z'"},
		{name: "time.Duration", value: 90 * time.Minute, want: "1h30m"},
		{name: "duration", value: Duration(1500 * time.Millisecond), want: "1s500ms"},
		{name: "record id", value: NewRecordID("user", "tobie"), want: "user:tobie"},
		{name: "record id pointer", value: &RecordID{Table: "user", ID: 1}, want: "user:1"},
		{name: "nil record id pointer", value: nilRecord, want: "NULL"},
		{name: "table", value: Table("user"), want: "user"},
		{name: "table needing escape", value: Table("my-table"), want: "`my-table`"},
		{name: "pointer", value: &five, want: "5"},
		{name: "nil pointer", value: nilInt, want: "NULL"},
		{name: "slice", value: []any{1, "a", nil}, want: "[1, 'a', NULL]"},
		{name: "empty slice", value: []string{}, want: "[]"},
		{name: "map sorted by key", value: map[string]any{"b": 2, "a": "x"}, want: "{ a: 'x', b: 2 }"},
		{name: "map with quoted key", value: map[string]int{"first name": 1}, want: "{ 'first name': 1 }"},
		{name: "empty map", value: map[string]any{}, want: "{}"},
		{name: "nested", value: map[string]any{"tags": []string{"x"}}, want: "{ tags: ['x'] }"},
		{name: "struct", value: person{Name: "Ann", Age: 30}, want: "{ age: 30, name: 'Ann' }"},
		{
			name: "struct fields keep their literal form",
			value: account{
				Audit:   Audit{CreatedAt: time.Unix(0, 0)},
				Owner:   NewRecordID("user", "tobie"),
				TTL:     90 * time.Minute,
				Secret:  "hidden",
				Balance: 1.5,
				note:    "private",
			},
			want: "{ Balance: 1.5f, created_at: d'1970-01-01T00:00:00Z', owner: user:tobie, ttl: 1h30m }",
		},
		{name: "json marshaler", value: rawJSON{}, want: "{ kind: 'raw', n: 1 }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatLiteral(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatLiteral_unsupported(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "channel", value: make(chan int)},
		{name: "func", value: func() {}},
		{name: "int keyed map", value: map[int]string{1: "a"}},
		{name: "bytes", value: []byte("raw")},
		{name: "nested channel", value: []any{make(chan int)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatLiteral(tt.value)
			assert.ErrorIs(t, err, ErrUnsupportedValue)
		})
	}
}

func TestFormatLiteral_uuid(t *testing.T) {
	u, err := ParseUUID("0191b6f4-6c83-7ee8-b2a3-0c6e1cb2d0a1")
	require.NoError(t, err)

	got, err := FormatLiteral(u)
	require.NoError(t, err)
	assert.Equal(t, "u'0191b6f4-6c83-7ee8-b2a3-0c6e1cb2d0a1'", got)
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, "'admin'", QuoteString("admin"))
	assert.Equal(t, `"O'Brien"`, QuoteString("O'Brien"))
	assert.Equal(t, `"say \"hi\" it's"`, QuoteString(`say "hi" it's`))
}

func TestEscapeIdent(t *testing.T) {
	assert.Equal(t, "user", EscapeIdent("user"))
	assert.Equal(t, "user_2", EscapeIdent("user_2"))
	assert.Equal(t, "`123`", EscapeIdent("123"))
	assert.Equal(t, "`a-b`", EscapeIdent("a-b"))
	assert.Equal(t, "`a\\`b`", EscapeIdent("a`b"))
}
