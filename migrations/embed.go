// Package migrations embeds the PostgreSQL schema migrations so that the
// server and the migrate CLI do not depend on the working directory.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files of this directory
//
//go:embed *.sql
var FS embed.FS
