package query

import "fmt"

// InsertQuery reserves the INSERT statement kind. It has no clauses and
// Build always fails with ErrUnsupportedStatement.
type InsertQuery struct {
	table string
}

func Insert(table string) *InsertQuery {
	return &InsertQuery{table: table}
}

func (q *InsertQuery) Kind() Kind {
	return KindInsert
}

func (q *InsertQuery) Build() (string, error) {
	return "", fmt.Errorf("insert into %s: %w", q.table, ErrUnsupportedStatement)
}

func (q *InsertQuery) String() string {
	return mustString(q)
}
