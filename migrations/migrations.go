// Package migrations holds the schema history. Go migrations register
// themselves from init; SQL files created by `migrate create` are picked up
// from this directory.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
