// Package migrations embeds the SQL migrations that create and seed the
// weekly garbage schedule.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
