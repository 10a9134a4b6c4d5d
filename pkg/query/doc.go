// Package query assembles SurrealQL statements with a fluent, typed builder.
//
// Each statement kind has its own builder type (CreateQuery, SelectQuery,
// UpdateQuery, UpsertQuery, DeleteQuery, RelateQuery) exposing only the
// clauses its grammar accepts, so setting an illegal clause does not compile:
//
//	sql, err := query.Select("user").
//		FieldAs("name", "username").
//		AddCondition("age", ">", 18).
//		Limit(1).
//		Build()
//
// Values in filters and content blocks are rendered as SurrealQL literals
// through models.FormatLiteral and interpolated into the statement text.
// Field names, table names and ordering expressions are written verbatim.
package query
