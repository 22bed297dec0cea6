// Package migrations embeds the SQL schema migrations so the binaries can
// apply them without a checkout of this directory.
package migrations

import "embed"

// FS holds every *.sql migration in golang-migrate naming
// (<version>_<name>.<up|down>.sql).
//
//go:embed *.sql
var FS embed.FS
