// Package migrations embeds the goose SQL migrations for both portal
// databases. Each binary passes FS plus its own directory ("doctor" or
// "patient") to db.NewMigrator.
package migrations

import "embed"

//go:embed doctor/*.sql patient/*.sql
var FS embed.FS
