// Package migrations embeds the staffgate SQL schema into the binary.
//
// Importing this package (usually for side effects) registers the files
// with the database package.
package migrations

import (
	"embed"

	"github.com/nerrad567/staffgate/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
