// Package linkvault holds assets shared by the commands, such as the embedded
// database migrations.
package linkvault

import "embed"

// Migrations contains the goose SQL migrations for the application tables.
//
//go:embed migrations/*.sql
var Migrations embed.FS
