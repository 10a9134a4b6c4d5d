package main

import (
	"github.com/spf13/cobra"
	abstractions "github.com/tosic/surrealdb-abstractions"
)

func newQueryCmd(conn *connFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query SURREALQL",
		Short: "Run SurrealQL and print the result of one statement as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, ctx, err := conn.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			result, err := abstractions.RunQuery[any](ctx, db, args[0], conn.index)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}
