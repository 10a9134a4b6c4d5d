// Command surrealq renders SurrealQL from flags and runs it against a
// SurrealDB server.
//
//	surrealq select user --field name --field "email:contact" --where "age > 18" --limit 10
//	surrealq select user --where "active = true" --run --url ws://localhost:8000
//	surrealq query "INFO FOR DB" --config surrealdb.yaml
//
// Connection settings come from --config, SURREALDB_* environment variables
// and the --url, --ns and --db flags, in increasing precedence.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
