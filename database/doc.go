// Package database owns the Bun connection to the member/team store:
// configuration, dialect and driver selection, health checks, query hooks,
// the model registry, schema migrations, and SQL error classification.
package database
