package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	abstractions "github.com/tosic/surrealdb-abstractions"
	"github.com/tosic/surrealdb-abstractions/pkg/query"
)

type selectFlags struct {
	fields  []string
	where   []string
	orderBy []string
	fetch   []string
	limit   uint64
	start   uint64
	only    bool
	run     bool
}

func newSelectCmd(conn *connFlags) *cobra.Command {
	var flags selectFlags

	cmd := &cobra.Command{
		Use:   "select TABLE",
		Short: "Render a SELECT statement, or run it with --run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.build(args[0])
			if err != nil {
				return err
			}

			if !flags.run {
				sql, err := q.Build()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), sql)
				return err
			}

			db, ctx, err := conn.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			result, err := abstractions.Run[any](ctx, db, q, conn.index)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&flags.fields, "field", nil, "field to select, as name or name:alias (repeatable)")
	f.StringArrayVar(&flags.where, "where", nil, `condition as "field operator value" (repeatable)`)
	f.StringArrayVar(&flags.orderBy, "order", nil, `order expression such as "age DESC" (repeatable)`)
	f.StringArrayVar(&flags.fetch, "fetch", nil, "record link to fetch (repeatable)")
	f.Uint64Var(&flags.limit, "limit", 0, "maximum number of records, 0 for no limit")
	f.Uint64Var(&flags.start, "start", 0, "number of records to skip")
	f.BoolVar(&flags.only, "only", false, "select a single record")
	f.BoolVar(&flags.run, "run", false, "run the statement and print the result as JSON")

	return cmd
}

func (f *selectFlags) build(table string) (*query.SelectQuery, error) {
	q := query.Select(table)

	for _, field := range f.fields {
		name, alias, _ := strings.Cut(field, ":")
		q.FieldAs(name, alias)
	}

	filter := query.NewFilter()
	for _, cond := range f.where {
		parts := strings.Fields(cond)
		if len(parts) < 3 {
			return nil, fmt.Errorf("invalid condition %q: want \"field operator value\"", cond)
		}
		value := strings.Join(parts[2:], " ")
		filter = filter.AddCondition(parts[0], parts[1], parseValue(value))
	}
	q.Where(filter)

	if len(f.orderBy) > 0 {
		q.OrderBy(f.orderBy...)
	}
	if len(f.fetch) > 0 {
		q.Fetch(f.fetch...)
	}
	if f.limit > 0 {
		q.Limit(f.limit)
	}
	if f.start > 0 {
		q.Start(f.start)
	}
	if f.only {
		q.Only()
	}
	return q, nil
}

// parseValue reads a condition value as a number, bool or NULL, falling back
// to a string. Quotes around a string are removed.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if strings.EqualFold(s, "null") {
		return nil
	}
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
