package query

import (
	"fmt"
	"strings"
)

// UpdateQuery builds
// `UPDATE [ONLY] table CONTENT|MERGE {...} [WHERE ...] [TIMEOUT] [PARALLEL]`.
// Content is required.
type UpdateQuery struct {
	c clauses

	withOnly[UpdateQuery]
	withContent[UpdateQuery]
	withMerge[UpdateQuery]
	withFilter[UpdateQuery]
	withTimeout[UpdateQuery]
	withParallel[UpdateQuery]
}

// Update starts an UPDATE statement on a table or a record id.
func Update(table string) *UpdateQuery {
	q := &UpdateQuery{c: clauses{table: table}}
	b := binding[UpdateQuery]{self: q, c: &q.c}
	q.withOnly = withOnly[UpdateQuery]{b}
	q.withContent = withContent[UpdateQuery]{b}
	q.withMerge = withMerge[UpdateQuery]{b}
	q.withFilter = withFilter[UpdateQuery]{b}
	q.withTimeout = withTimeout[UpdateQuery]{b}
	q.withParallel = withParallel[UpdateQuery]{b}
	return q
}

// Clone returns an independent copy of the builder. Builders must not be
// copied by value: the copy would keep updating the original.
func (q *UpdateQuery) Clone() *UpdateQuery {
	out := Update(q.c.table)
	out.c = q.c.clone()
	return out
}

func (q *UpdateQuery) Kind() Kind {
	return KindUpdate
}

func (q *UpdateQuery) Build() (string, error) {
	return buildModify(KindUpdate, &q.c)
}

// String returns the statement, or the empty string if it cannot be built.
func (q *UpdateQuery) String() string {
	return mustString(q)
}

// buildModify renders UPDATE and UPSERT, which share one grammar.
func buildModify(kind Kind, c *clauses) (string, error) {
	verb := strings.ToLower(kind.String())
	if c.content == nil {
		return "", fmt.Errorf("%s %s: %w", verb, c.table, ErrMissingContent)
	}

	parts := append([]string{kind.String()}, c.onlyTable()...)

	parts, err := c.appendContent(parts)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", verb, c.table, err)
	}
	parts, err = c.appendWhere(parts)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", verb, c.table, err)
	}
	parts, err = c.appendTimeout(parts)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", verb, c.table, err)
	}
	parts = c.appendParallel(parts)

	return finish(kind, parts)
}
