// Package migrations embeds the SQL schema migrations applied by goose when
// the postgres storage backend is selected.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
