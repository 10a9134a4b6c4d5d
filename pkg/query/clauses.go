package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tosic/surrealdb-abstractions/pkg/models"
)

type contentMode int

const (
	contentReplace contentMode = iota
	contentMerge
)

func (m contentMode) keyword() string {
	if m == contentMerge {
		return "MERGE"
	}
	return "CONTENT"
}

type relation struct {
	from models.RecordID
	to   models.RecordID
}

type timeout struct {
	magnitude uint64
	unit      string
	duration  *models.Duration
}

// clauses holds every clause any statement kind can carry. Each builder
// renders the subset its grammar accepts.
type clauses struct {
	table string

	fields map[string]string
	omit   []string
	only   bool

	content     map[string]any
	contentMode contentMode

	relation *relation
	filter   Filter

	orderBy  []string
	groupBy  []string
	groupAll bool

	limit *uint64
	start *uint64
	fetch []string

	timeout  *timeout
	parallel bool
}

// binding ties a clause mixin to the builder it returns from its setters.
// It points into the builder, so a copied builder value still updates the
// original; builders are copied with Clone.
type binding[Q any] struct {
	self *Q
	c    *clauses
}

type withOnly[Q any] struct{ b binding[Q] }

// Only expects the statement to affect or return exactly one record.
func (w withOnly[Q]) Only() *Q {
	w.b.c.only = true
	return w.b.self
}

type withParallel[Q any] struct{ b binding[Q] }

// Parallel lets the server process the statement in parallel.
func (w withParallel[Q]) Parallel() *Q {
	w.b.c.parallel = true
	return w.b.self
}

type withTimeout[Q any] struct{ b binding[Q] }

// Timeout sets `TIMEOUT <magnitude><unit>`. The unit is a SurrealQL duration
// unit such as ms, s or m; an unknown unit fails Build with ErrInvalidTimeout.
func (w withTimeout[Q]) Timeout(magnitude uint64, unit string) *Q {
	w.b.c.timeout = &timeout{magnitude: magnitude, unit: unit}
	return w.b.self
}

// TimeoutDuration sets the timeout from a time.Duration. A negative d fails
// Build with ErrInvalidTimeout.
func (w withTimeout[Q]) TimeoutDuration(d time.Duration) *Q {
	md := models.Duration(d)
	w.b.c.timeout = &timeout{duration: &md}
	return w.b.self
}

type withContent[Q any] struct{ b binding[Q] }

// Content replaces the content block with a copy of fields.
func (w withContent[Q]) Content(fields map[string]any) *Q {
	content := make(map[string]any, len(fields))
	for k, v := range fields {
		content[k] = v
	}
	w.b.c.content = content
	return w.b.self
}

// ContentField sets one field of the content block.
func (w withContent[Q]) ContentField(field string, value any) *Q {
	if w.b.c.content == nil {
		w.b.c.content = make(map[string]any)
	}
	w.b.c.content[field] = value
	return w.b.self
}

type withMerge[Q any] struct{ b binding[Q] }

// Merge renders the content block as MERGE, updating only the given fields
// instead of replacing the whole record.
func (w withMerge[Q]) Merge() *Q {
	w.b.c.contentMode = contentMerge
	return w.b.self
}

type withFilter[Q any] struct{ b binding[Q] }

// Where replaces the filter.
func (w withFilter[Q]) Where(f Filter) *Q {
	w.b.c.filter = f
	return w.b.self
}

// AddCondition adds one condition to the filter. See Filter.AddCondition.
func (w withFilter[Q]) AddCondition(field, operator string, value any) *Q {
	w.b.c.filter = w.b.c.filter.AddCondition(field, operator, value)
	return w.b.self
}

type withRelation[Q any] struct{ b binding[Q] }

// Relation sets the records linked by the edge.
func (w withRelation[Q]) Relation(from, to models.RecordID) *Q {
	w.b.c.relation = &relation{from: from, to: to}
	return w.b.self
}

// clone deep-copies the clause state. Filter is immutable and shared.
func (c *clauses) clone() clauses {
	out := *c
	if c.fields != nil {
		out.fields = make(map[string]string, len(c.fields))
		for k, v := range c.fields {
			out.fields[k] = v
		}
	}
	if c.content != nil {
		out.content = make(map[string]any, len(c.content))
		for k, v := range c.content {
			out.content[k] = v
		}
	}
	out.omit = append([]string(nil), c.omit...)
	out.orderBy = append([]string(nil), c.orderBy...)
	out.groupBy = append([]string(nil), c.groupBy...)
	out.fetch = append([]string(nil), c.fetch...)
	if c.relation != nil {
		rel := *c.relation
		out.relation = &rel
	}
	if c.limit != nil {
		limit := *c.limit
		out.limit = &limit
	}
	if c.start != nil {
		start := *c.start
		out.start = &start
	}
	if c.timeout != nil {
		t := *c.timeout
		out.timeout = &t
	}
	return out
}

func (c *clauses) onlyTable() []string {
	if c.only {
		return []string{"ONLY", c.table}
	}
	return []string{c.table}
}

// buildContent renders the content block as `CONTENT { a: 1,  b: 2}`.
// Every field carries a leading space and fields are joined with ", ".
func (c *clauses) buildContent() (string, error) {
	keys := make([]string, 0, len(c.content))
	for k := range c.content {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, len(keys))
	for i, k := range keys {
		lit, err := models.FormatLiteral(c.content[k])
		if err != nil {
			return "", fmt.Errorf("content field %s: %w", k, err)
		}
		fields[i] = " " + k + ": " + lit
	}

	return c.contentMode.keyword() + " {" + strings.Join(fields, ", ") + "}", nil
}

func (c *clauses) buildTimeout() (string, error) {
	t := c.timeout
	if t.duration != nil {
		if *t.duration < 0 {
			return "", fmt.Errorf("%w: negative duration", ErrInvalidTimeout)
		}
		return "TIMEOUT " + t.duration.String(), nil
	}
	if !models.IsDurationUnit(t.unit) {
		return "", fmt.Errorf("%w: unknown unit %q", ErrInvalidTimeout, t.unit)
	}
	return "TIMEOUT " + strconv.FormatUint(t.magnitude, 10) + t.unit, nil
}

func (c *clauses) appendContent(parts []string) ([]string, error) {
	if c.content == nil {
		return parts, nil
	}
	content, err := c.buildContent()
	if err != nil {
		return nil, err
	}
	return append(parts, content), nil
}

func (c *clauses) appendWhere(parts []string) ([]string, error) {
	where, err := c.filter.Build()
	if err != nil {
		return nil, err
	}
	if where == "" {
		return parts, nil
	}
	return append(parts, where), nil
}

func (c *clauses) appendTimeout(parts []string) ([]string, error) {
	if c.timeout == nil {
		return parts, nil
	}
	t, err := c.buildTimeout()
	if err != nil {
		return nil, err
	}
	return append(parts, t), nil
}

func (c *clauses) appendParallel(parts []string) []string {
	if c.parallel {
		return append(parts, "PARALLEL")
	}
	return parts
}

// finish joins the rendered parts and logs the statement.
func finish(kind Kind, parts []string) (string, error) {
	sql := strings.Join(parts, " ")
	logConstructed(kind, sql)
	return sql, nil
}

func mustString(q Query) string {
	s, err := q.Build()
	if err != nil {
		return ""
	}
	return s
}
