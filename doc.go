// Package abstractions runs SurrealQL built with the [query] package against
// a SurrealDB server.
//
// A [DB] owns one connection to the server. It is opened from an endpoint URL,
// from a prepared [connection.Connection], or from a [config.Config]:
//
//	db, err := abstractions.FromEndpointURLString(ctx, "ws://localhost:8000")
//	if err != nil {
//		return err
//	}
//	defer db.Close(ctx)
//
// # Connection Engines
//
// The scheme of the endpoint picks the engine. ws and wss use the WebSocket
// engine in [gorillaws]; http and https use the HTTP engine in package
// [github.com/tosic/surrealdb-abstractions/pkg/connection/http].
//
// # Running Queries
//
// [Run] builds a query, sends it and decodes the result of one statement:
//
//	users, err := abstractions.Run[[]User](ctx, db,
//		query.Select("user").Where(query.NewFilter().AddCondition("age", ">", 18)), 0)
//
// Every failure is returned as an *[Error]. Its Kind tells construction
// problems, server-side execution failures and undecodable responses apart;
// errors.Is works against [ErrConstruction], [ErrUnsupported],
// [ErrTransaction] and [ErrResponse].
//
// [query]: https://pkg.go.dev/github.com/tosic/surrealdb-abstractions/pkg/query
// [gorillaws]: https://pkg.go.dev/github.com/tosic/surrealdb-abstractions/pkg/connection/gorillaws
package abstractions
