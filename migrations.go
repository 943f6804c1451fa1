package liftlog

import "embed"

// MigrationsFS holds the SQL schema migrations applied at startup.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
