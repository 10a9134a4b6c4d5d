package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// RecordID identifies one record: a table name plus an id that is a string,
// an integer, an array or an object.
type RecordID struct {
	Table string
	ID    any
}

func NewRecordID(tableName string, id any) RecordID {
	return RecordID{Table: tableName, ID: id}
}

// ParseRecordID parses the `table:id` form produced by String.
// Ids wrapped in ⟨⟩ are unescaped and kept as strings, bare integer ids become int64.
func ParseRecordID(idStr string) (RecordID, error) {
	table, id, found := strings.Cut(idStr, ":")
	if !found || table == "" || id == "" {
		return RecordID{}, fmt.Errorf("%w: expected format is 'table:identifier', got %q", ErrInvalidRecordID, idStr)
	}

	if strings.HasPrefix(id, "⟨") && strings.HasSuffix(id, "⟩") {
		inner := strings.TrimSuffix(strings.TrimPrefix(id, "⟨"), "⟩")
		return RecordID{Table: table, ID: unescapeString(inner)}, nil
	}

	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return RecordID{Table: table, ID: n}, nil
	}

	return RecordID{Table: table, ID: id}, nil
}

func unescapeString(s string) string {
	var b strings.Builder
	escaped := false
	for _, ch := range s {
		if ch == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(ch)
	}
	return b.String()
}

func (r RecordID) MarshalCBOR() ([]byte, error) {
	return getCborEncoder().Marshal(cbor.Tag{
		Number:  uint64(RecordIDTag),
		Content: []any{r.Table, r.ID},
	})
}

func (r *RecordID) UnmarshalCBOR(data []byte) error {
	var tag cbor.RawTag
	if err := getCborDecoder().Unmarshal(data, &tag); err != nil {
		return err
	}
	if tag.Number != uint64(RecordIDTag) {
		return fmt.Errorf("unexpected tag number for record id: got %d, want %d", tag.Number, RecordIDTag)
	}

	var temp []any
	if err := getCborDecoder().Unmarshal(tag.Content, &temp); err != nil {
		return err
	}
	if len(temp) != 2 {
		return fmt.Errorf("%w: expected 2 elements, got %d", ErrInvalidRecordID, len(temp))
	}

	table, ok := temp[0].(string)
	if !ok {
		return fmt.Errorf("%w: table must be a string, got %T", ErrInvalidRecordID, temp[0])
	}

	r.Table = table
	r.ID = temp[1]

	return nil
}

// String returns the record id with the id part escaped the way SurrealDB
// prints it, using angle brackets ⟨⟩ for ids that are not plain identifiers.
func (r RecordID) String() string {
	switch id := r.ID.(type) {
	case string:
		if needsEscaping(id) {
			return fmt.Sprintf("%s:⟨%s⟩", EscapeIdent(r.Table), escapeString(id, '⟩'))
		}
		return fmt.Sprintf("%s:%s", EscapeIdent(r.Table), id)
	default:
		lit, err := FormatLiteral(id)
		if err != nil {
			lit = fmt.Sprintf("%v", id)
		}
		return fmt.Sprintf("%s:%s", EscapeIdent(r.Table), lit)
	}
}

func (r RecordID) SurrealQL() string {
	return r.String()
}
