package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tosic/surrealdb-abstractions/pkg/models"
)

// DefaultOperator is used when a condition is added without an operator.
const DefaultOperator = "="

// Condition is one `field operator value` comparison of a WHERE clause.
type Condition struct {
	Field    string
	Operator string
	Value    any
}

type conditionKey struct {
	field    string
	operator string
}

// Filter is a set of conditions joined with AND.
//
// A condition is keyed by its field and operator: adding the same pair twice
// keeps the last value. Conditions render sorted by field, then operator, so
// the same set of conditions always produces the same text.
//
// The zero value is an empty filter. Filter is immutable; AddCondition
// returns a new Filter.
type Filter struct {
	conditions map[conditionKey]any
}

// NewFilter returns an empty filter.
func NewFilter() Filter {
	return Filter{}
}

// AddCondition returns a copy of f with `field operator value` set.
// An empty operator means DefaultOperator.
func (f Filter) AddCondition(field, operator string, value any) Filter {
	if operator == "" {
		operator = DefaultOperator
	}

	conditions := make(map[conditionKey]any, len(f.conditions)+1)
	for k, v := range f.conditions {
		conditions[k] = v
	}
	conditions[conditionKey{field: field, operator: operator}] = value

	return Filter{conditions: conditions}
}

// Len returns the number of conditions.
func (f Filter) Len() int {
	return len(f.conditions)
}

func (f Filter) IsEmpty() bool {
	return len(f.conditions) == 0
}

// Conditions returns the conditions in render order.
func (f Filter) Conditions() []Condition {
	keys := make([]conditionKey, 0, len(f.conditions))
	for k := range f.conditions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].field != keys[j].field {
			return keys[i].field < keys[j].field
		}
		return keys[i].operator < keys[j].operator
	})

	conditions := make([]Condition, len(keys))
	for i, k := range keys {
		conditions[i] = Condition{Field: k.field, Operator: k.operator, Value: f.conditions[k]}
	}
	return conditions
}

// Build renders `WHERE a AND b ...`, or the empty string when f has no
// conditions.
func (f Filter) Build() (string, error) {
	if f.IsEmpty() {
		return "", nil
	}

	conditions := f.Conditions()
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		lit, err := models.FormatLiteral(c.Value)
		if err != nil {
			return "", fmt.Errorf("condition on %s: %w", c.Field, err)
		}
		parts[i] = c.Field + " " + c.Operator + " " + lit
	}

	return "WHERE " + strings.Join(parts, " AND "), nil
}

// String renders f, returning the empty string if a value cannot be rendered.
func (f Filter) String() string {
	s, err := f.Build()
	if err != nil {
		return ""
	}
	return s
}
