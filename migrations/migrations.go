// Package migrations embeds the SQL schema migrations so binaries can apply
// them at startup without a filesystem dependency.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
