package fixturemigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	// Each registered migration takes its id from the caller's file name.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
