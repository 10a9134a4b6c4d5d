package models

// Table is a table name. It is sent over CBOR as tag 7 so the server does not
// mistake it for a plain string.
type Table string

func (t Table) String() string {
	return string(t)
}

// SurrealQL renders the table as an identifier.
func (t Table) SurrealQL() string {
	return EscapeIdent(string(t))
}
