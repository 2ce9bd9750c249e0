// Package migrations embeds the goose SQL migrations. Table names carry the
// environment prefix through ${TABLE_PREFIX} substitution.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
