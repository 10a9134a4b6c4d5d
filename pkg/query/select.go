package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SelectQuery builds
//
//	SELECT fields [OMIT ...] FROM [ONLY] table [WHERE ...] [GROUP ...]
//	    [ORDER BY ...] [LIMIT n] [START n] [FETCH ...] [PARALLEL]
type SelectQuery struct {
	c clauses

	withOnly[SelectQuery]
	withFilter[SelectQuery]
	withParallel[SelectQuery]
}

// Select starts a SELECT statement reading from table.
func Select(table string) *SelectQuery {
	q := &SelectQuery{c: clauses{table: table}}
	b := binding[SelectQuery]{self: q, c: &q.c}
	q.withOnly = withOnly[SelectQuery]{b}
	q.withFilter = withFilter[SelectQuery]{b}
	q.withParallel = withParallel[SelectQuery]{b}
	return q
}

// Clone returns an independent copy of the builder. Builders must not be
// copied by value: the copy would keep updating the original.
func (q *SelectQuery) Clone() *SelectQuery {
	out := Select(q.c.table)
	out.c = q.c.clone()
	return out
}

func (q *SelectQuery) Kind() Kind {
	return KindSelect
}

// Field selects a field without an alias.
func (q *SelectQuery) Field(field string) *SelectQuery {
	return q.FieldAs(field, "")
}

// FieldAs selects field as `field AS alias`. An empty alias selects the
// field as is.
func (q *SelectQuery) FieldAs(field, alias string) *SelectQuery {
	if q.c.fields == nil {
		q.c.fields = make(map[string]string)
	}
	q.c.fields[field] = alias
	return q
}

// Fields selects every field of the map, keyed by field with its alias as
// value.
func (q *SelectQuery) Fields(fields map[string]string) *SelectQuery {
	for field, alias := range fields {
		q.FieldAs(field, alias)
	}
	return q
}

// Omit excludes fields from the result.
func (q *SelectQuery) Omit(fields ...string) *SelectQuery {
	q.c.omit = append(q.c.omit, fields...)
	return q
}

func (q *SelectQuery) OmitField(field string) *SelectQuery {
	return q.Omit(field)
}

// OrderBy appends ordering expressions such as `age DESC`.
func (q *SelectQuery) OrderBy(exprs ...string) *SelectQuery {
	q.c.orderBy = append(q.c.orderBy, exprs...)
	return q
}

// GroupBy appends grouping fields. GroupAll takes precedence when both are set.
func (q *SelectQuery) GroupBy(fields ...string) *SelectQuery {
	q.c.groupBy = append(q.c.groupBy, fields...)
	return q
}

// GroupAll groups every record into a single result.
func (q *SelectQuery) GroupAll() *SelectQuery {
	q.c.groupAll = true
	return q
}

func (q *SelectQuery) Limit(n uint64) *SelectQuery {
	q.c.limit = &n
	return q
}

// Start skips the first n records.
func (q *SelectQuery) Start(n uint64) *SelectQuery {
	q.c.start = &n
	return q
}

// Fetch replaces record links in the given fields with the linked records.
func (q *SelectQuery) Fetch(fields ...string) *SelectQuery {
	q.c.fetch = append(q.c.fetch, fields...)
	return q
}

func (q *SelectQuery) FetchField(field string) *SelectQuery {
	return q.Fetch(field)
}

func (q *SelectQuery) buildFields() string {
	if len(q.c.fields) == 0 {
		return "*"
	}

	names := make([]string, 0, len(q.c.fields))
	for field := range q.c.fields {
		names = append(names, field)
	}
	sort.Strings(names)

	fields := make([]string, len(names))
	for i, field := range names {
		if alias := q.c.fields[field]; alias != "" {
			fields[i] = field + " AS " + alias
		} else {
			fields[i] = field
		}
	}
	return strings.Join(fields, ", ")
}

func (q *SelectQuery) buildGroup() string {
	switch {
	case q.c.groupAll:
		return "GROUP ALL"
	case len(q.c.groupBy) > 0:
		return "GROUP BY " + strings.Join(q.c.groupBy, ", ")
	}
	return ""
}

func (q *SelectQuery) Build() (string, error) {
	parts := []string{"SELECT", q.buildFields()}

	if len(q.c.omit) > 0 {
		parts = append(parts, "OMIT "+strings.Join(q.c.omit, ", "))
	}

	parts = append(parts, "FROM")
	parts = append(parts, q.c.onlyTable()...)

	parts, err := q.c.appendWhere(parts)
	if err != nil {
		return "", fmt.Errorf("select from %s: %w", q.c.table, err)
	}

	if group := q.buildGroup(); group != "" {
		parts = append(parts, group)
	}

	if len(q.c.orderBy) > 0 {
		parts = append(parts, "ORDER BY "+strings.Join(q.c.orderBy, ", "))
	}

	if q.c.limit != nil {
		parts = append(parts, "LIMIT "+strconv.FormatUint(*q.c.limit, 10))
	}

	if q.c.start != nil {
		parts = append(parts, "START "+strconv.FormatUint(*q.c.start, 10))
	}

	if len(q.c.fetch) > 0 {
		parts = append(parts, "FETCH "+strings.Join(q.c.fetch, ", "))
	}

	parts = q.c.appendParallel(parts)

	return finish(KindSelect, parts)
}

// String returns the statement, or the empty string if it cannot be built.
func (q *SelectQuery) String() string {
	return mustString(q)
}
