package abstractions

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/rs/zerolog"
	"github.com/tosic/surrealdb-abstractions/pkg/config"
	"github.com/tosic/surrealdb-abstractions/pkg/connection"
	"github.com/tosic/surrealdb-abstractions/pkg/connection/gorillaws"
	"github.com/tosic/surrealdb-abstractions/pkg/connection/http"
	"github.com/tosic/surrealdb-abstractions/pkg/constants"
	"github.com/tosic/surrealdb-abstractions/pkg/logger"
)

// DB is a client for one SurrealDB endpoint. It is safe for concurrent use
// as long as the underlying connection is.
type DB struct {
	conn connection.Connection

	logger zerolog.Logger
	// logs is the logger built by Open; its file is closed with the DB.
	logs *logger.LogData
}

// FromEndpointURLString connects to the endpoint, such as
// "ws://localhost:8000" or "https://db.example.com", and returns the handle.
func FromEndpointURLString(ctx context.Context, connectionURL string) (*DB, error) {
	u, err := url.ParseRequestURI(connectionURL)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint url: %w", err)
	}

	return fromConfig(ctx, connection.NewConfig(u))
}

// FromConnection connects conn and returns the handle.
func FromConnection(ctx context.Context, conn connection.Connection) (*DB, error) {
	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}
	return &DB{conn: conn, logger: zerolog.Nop()}, nil
}

// Open connects as described by cfg, signs in when credentials are set and
// selects the namespace and database. The logger built from cfg is used by the
// connection and returned by DB.Logger; it is not installed globally.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	u, err := url.ParseRequestURI(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint url: %w", err)
	}

	build := logger.New().Level(cfg.LogLevel).FromBuffer(os.Stderr)
	if cfg.LogPath != "" {
		build = build.FromPath(cfg.LogPath)
	}
	logData, err := build.Make()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	conf := connection.NewConfig(u)
	conf.Timeout = cfg.Timeout
	conf.Logger = logData.Logger

	db, err := fromConfig(ctx, conf)
	if err != nil {
		_ = logData.Close()
		return nil, err
	}
	db.logger = logData.Logger
	db.logs = logData

	if cfg.HasCredentials() {
		if _, err := db.SignIn(ctx, &Auth{Username: cfg.Username, Password: cfg.Password}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("signing in as %s: %w", cfg.Username, err)
		}
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("using %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}
	return db, nil
}

func fromConfig(ctx context.Context, conf *connection.Config) (*DB, error) {
	var conn connection.Connection
	switch conf.URL.Scheme {
	case constants.WebsocketScheme, constants.WebsocketSecureScheme:
		conn = gorillaws.New(conf)
	case constants.HTTPScheme, constants.HTTPSecureScheme:
		conn = http.New(conf)
	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrUnsupportedScheme, conf.URL.Scheme)
	}

	return FromConnection(ctx, conn)
}

// Connection returns the underlying connection.
func (db *DB) Connection() connection.Connection {
	return db.conn
}

// Logger returns the logger configured by Open, or a disabled logger.
// Pass it to Run through ctx with Logger().WithContext(ctx).
func (db *DB) Logger() zerolog.Logger {
	return db.logger
}

// Close closes the connection and the log file opened by Open, if any.
func (db *DB) Close(ctx context.Context) error {
	err := db.conn.Close(ctx)
	if db.logs != nil {
		if cerr := db.logs.Close(); err == nil {
			err = cerr
		}
		db.logs = nil
	}
	return err
}

// Use selects the namespace and database for subsequent queries.
func (db *DB) Use(ctx context.Context, ns, database string) error {
	return db.conn.Use(ctx, ns, database)
}

// SignIn signs in and returns the session token.
func (db *DB) SignIn(ctx context.Context, authData *Auth) (string, error) {
	return connection.SignIn(ctx, db.conn, authData)
}

// Let defines a parameter usable as $key in later queries.
func (db *DB) Let(ctx context.Context, key string, val any) error {
	return db.conn.Let(ctx, key, val)
}

func (db *DB) Unset(ctx context.Context, key string) error {
	return db.conn.Unset(ctx, key)
}

// Query sends sql as a single query call. The error is non-nil only when the
// call itself failed; failed statements are reported by Response.Take.
func (db *DB) Query(ctx context.Context, sql string) (*Response, error) {
	var res connection.RPCResponse[[]QueryResult]
	if err := connection.Send(ctx, db.conn, &res, connection.MethodQuery, sql); err != nil {
		return nil, err
	}
	if res.Result == nil {
		return nil, constants.InvalidResponse
	}
	return newResponse(*res.Result, db.conn.GetUnmarshaler()), nil
}
