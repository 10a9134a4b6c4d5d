package query

import "fmt"

// RelateQuery builds
// `RELATE [ONLY] from->edge->to [CONTENT {...}] [TIMEOUT] [PARALLEL]`.
// The endpoints are required.
type RelateQuery struct {
	c clauses

	withOnly[RelateQuery]
	withRelation[RelateQuery]
	withContent[RelateQuery]
	withTimeout[RelateQuery]
	withParallel[RelateQuery]
}

// Relate starts a RELATE statement creating edges in the edge table.
func Relate(edge string) *RelateQuery {
	q := &RelateQuery{c: clauses{table: edge}}
	b := binding[RelateQuery]{self: q, c: &q.c}
	q.withOnly = withOnly[RelateQuery]{b}
	q.withRelation = withRelation[RelateQuery]{b}
	q.withContent = withContent[RelateQuery]{b}
	q.withTimeout = withTimeout[RelateQuery]{b}
	q.withParallel = withParallel[RelateQuery]{b}
	return q
}

// Clone returns an independent copy of the builder. Builders must not be
// copied by value: the copy would keep updating the original.
func (q *RelateQuery) Clone() *RelateQuery {
	out := Relate(q.c.table)
	out.c = q.c.clone()
	return out
}

func (q *RelateQuery) Kind() Kind {
	return KindRelate
}

func (q *RelateQuery) Build() (string, error) {
	rel := q.c.relation
	if rel == nil {
		return "", fmt.Errorf("relate %s: %w", q.c.table, ErrMissingRelation)
	}

	parts := []string{"RELATE"}
	if q.c.only {
		parts = append(parts, "ONLY")
	}
	parts = append(parts, rel.from.String()+"->"+q.c.table+"->"+rel.to.String())

	parts, err := q.c.appendContent(parts)
	if err != nil {
		return "", fmt.Errorf("relate %s: %w", q.c.table, err)
	}
	parts, err = q.c.appendTimeout(parts)
	if err != nil {
		return "", fmt.Errorf("relate %s: %w", q.c.table, err)
	}
	parts = q.c.appendParallel(parts)

	return finish(KindRelate, parts)
}

func (q *RelateQuery) String() string {
	return mustString(q)
}
