package query

import "fmt"

// DeleteQuery builds `DELETE [ONLY] table [WHERE ...] [RETURN $before] [PARALLEL]`.
// With Only, the deleted record is returned.
type DeleteQuery struct {
	c clauses

	withOnly[DeleteQuery]
	withFilter[DeleteQuery]
	withParallel[DeleteQuery]
}

func Delete(table string) *DeleteQuery {
	q := &DeleteQuery{c: clauses{table: table}}
	b := binding[DeleteQuery]{self: q, c: &q.c}
	q.withOnly = withOnly[DeleteQuery]{b}
	q.withFilter = withFilter[DeleteQuery]{b}
	q.withParallel = withParallel[DeleteQuery]{b}
	return q
}

// Clone returns an independent copy of the builder. Builders must not be
// copied by value: the copy would keep updating the original.
func (q *DeleteQuery) Clone() *DeleteQuery {
	out := Delete(q.c.table)
	out.c = q.c.clone()
	return out
}

func (q *DeleteQuery) Kind() Kind {
	return KindDelete
}

func (q *DeleteQuery) Build() (string, error) {
	parts := append([]string{"DELETE"}, q.c.onlyTable()...)

	parts, err := q.c.appendWhere(parts)
	if err != nil {
		return "", fmt.Errorf("delete %s: %w", q.c.table, err)
	}

	// DELETE returns nothing by default, which ONLY cannot unwrap.
	if q.c.only {
		parts = append(parts, "RETURN $before")
	}

	parts = q.c.appendParallel(parts)

	return finish(KindDelete, parts)
}

func (q *DeleteQuery) String() string {
	return mustString(q)
}
