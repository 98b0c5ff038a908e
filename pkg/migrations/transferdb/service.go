// Package transferdb holds all the migrations for the transfer watcher database
package transferdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the transfer watcher database
var Migrations = migrate.NewMigrations()
