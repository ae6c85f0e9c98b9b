// Package migrations embeds the SQL schema of the record store, one
// directory per dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// For returns the migrations of the named dialect.
func For(dialect string) (fs.FS, error) {
	return fs.Sub(files, dialect)
}
