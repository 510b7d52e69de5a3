// Package persistence selects a member-table mirror backend at runtime.
package persistence

import (
	"fmt"
	"os"

	"catalogcore/internal/persistence/memory"
	"catalogcore/internal/persistence/postgres"
	"catalogcore/internal/persistence/sqlite"
	"catalogcore/pkg/domain"
)

// Driver identifies a concrete mirror implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory only (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

// Open selects a mirror backend using environment variables. Defaults to
// sqlite when unset.
//
//	CATALOGCORE_MIRROR_DRIVER: memory|sqlite|postgres (default sqlite)
//	CATALOGCORE_SQLITE_PATH: path to sqlite file (default ./catalogcore.db)
//	CATALOGCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func Open() (domain.Mirror, error) {
	driver := os.Getenv("CATALOGCORE_MIRROR_DRIVER")
	if driver == "" {
		driver = string(DriverSQLite)
	}
	switch Driver(driver) {
	case DriverMemory:
		return memory.New(), nil
	case DriverSQLite:
		return sqlite.New(os.Getenv("CATALOGCORE_SQLITE_PATH"))
	case DriverPostgres:
		return postgres.New(os.Getenv("CATALOGCORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown mirror driver %s", driver)
	}
}
