package postgresadapter

import "embed"

// Migrations holds the goose migrations for the payout structure tables.
//
//go:embed migrations/*.sql
var Migrations embed.FS
