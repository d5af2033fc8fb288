// Package migrations embeds the SQL migrations for the Postgres cache backend.
package migrations

import "embed"

// FS contains the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
