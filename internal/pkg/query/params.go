package query

import (
	"database/sql"
	"sort"

	"cloud.google.com/go/spanner"
)

// NamedArgs converts a built statement's parameters into database/sql named
// arguments, in a stable order.
func NamedArgs(stmt spanner.Statement) []any {
	names := make([]string, 0, len(stmt.Params))
	for name := range stmt.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]any, len(names))
	for i, name := range names {
		args[i] = sql.Named(name, stmt.Params[name])
	}
	return args
}
