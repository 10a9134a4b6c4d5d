package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	abstractions "github.com/tosic/surrealdb-abstractions"
	"github.com/tosic/surrealdb-abstractions/pkg/config"
	"github.com/tosic/surrealdb-abstractions/pkg/query"
)

type connFlags struct {
	configPath string
	url        string
	namespace  string
	database   string
	index      int
}

func newRootCmd() *cobra.Command {
	var flags connFlags

	rootCmd := &cobra.Command{
		Use:           "surrealq",
		Short:         "Build and run SurrealQL statements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (yaml, toml or json)")
	pf.StringVar(&flags.url, "url", "", "endpoint url, overrides SURREALDB_URL")
	pf.StringVar(&flags.namespace, "ns", "", "namespace, overrides SURREALDB_NAMESPACE")
	pf.StringVar(&flags.database, "db", "", "database, overrides SURREALDB_DATABASE")
	pf.IntVar(&flags.index, "index", 0, "index of the statement whose result is printed")

	rootCmd.AddCommand(newSelectCmd(&flags), newQueryCmd(&flags))
	return rootCmd
}

// open connects and returns ctx carrying the configured logger, which also
// receives the statements built by the query package.
func (f *connFlags) open(ctx context.Context) (*abstractions.DB, context.Context, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, ctx, err
	}
	if f.url != "" {
		cfg.URL = f.url
	}
	if f.namespace != "" {
		cfg.Namespace = f.namespace
	}
	if f.database != "" {
		cfg.Database = f.database
	}

	db, err := abstractions.Open(ctx, cfg)
	if err != nil {
		return nil, ctx, err
	}
	query.SetLogger(db.Logger())
	return db, db.Logger().WithContext(ctx), nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
