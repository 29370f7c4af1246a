// Package migrations embeds the SQL schema applied by halocarectl migrate.
package migrations

import "embed"

// FS holds the *.sql migrations.
//
//go:embed *.sql
var FS embed.FS
