package query

import "fmt"

// CreateQuery builds `CREATE [ONLY] table [CONTENT {...}] [TIMEOUT] [PARALLEL]`.
type CreateQuery struct {
	c clauses

	withOnly[CreateQuery]
	withContent[CreateQuery]
	withTimeout[CreateQuery]
	withParallel[CreateQuery]
}

// Create starts a CREATE statement. table may also be a record id such as
// `person:tobie`.
func Create(table string) *CreateQuery {
	q := &CreateQuery{c: clauses{table: table}}
	b := binding[CreateQuery]{self: q, c: &q.c}
	q.withOnly = withOnly[CreateQuery]{b}
	q.withContent = withContent[CreateQuery]{b}
	q.withTimeout = withTimeout[CreateQuery]{b}
	q.withParallel = withParallel[CreateQuery]{b}
	return q
}

// Clone returns an independent copy of the builder. Builders must not be
// copied by value: the copy would keep updating the original.
func (q *CreateQuery) Clone() *CreateQuery {
	out := Create(q.c.table)
	out.c = q.c.clone()
	return out
}

func (q *CreateQuery) Kind() Kind {
	return KindCreate
}

func (q *CreateQuery) Build() (string, error) {
	parts := append([]string{"CREATE"}, q.c.onlyTable()...)

	parts, err := q.c.appendContent(parts)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", q.c.table, err)
	}
	parts, err = q.c.appendTimeout(parts)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", q.c.table, err)
	}
	parts = q.c.appendParallel(parts)

	return finish(KindCreate, parts)
}

// String returns the statement, or the empty string if it cannot be built.
func (q *CreateQuery) String() string {
	return mustString(q)
}
