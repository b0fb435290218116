// Package db embeds the schema migrations.
package db

import "embed"

// MigrationsDir is the directory of Migrations holding the goose files.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
