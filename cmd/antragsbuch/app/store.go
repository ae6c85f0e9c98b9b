package app

import (
	"context"
	"strings"

	"github.com/piratetools42/antragsbuch/pkg/constants"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/store"
	"github.com/piratetools42/antragsbuch/pkg/store/memory"
	"github.com/piratetools42/antragsbuch/pkg/store/postgres"
	"github.com/piratetools42/antragsbuch/pkg/store/sqlite"
)

// Store drivers selectable with --db-driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// openStore opens the store selected by the configuration.
func openStore(ctx context.Context, config *Config) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreOpenTimeout)
	defer cancel()

	switch strings.ToLower(config.DBDriver) {
	case "", DriverSQLite, "sqlite3":
		return sqlite.Open(ctx, config.DBDSN)
	case DriverPostgres, "postgresql", "pgx":
		return postgres.Open(ctx, config.DBDSN)
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, errors.NewConfigError("db.driver",
			"unknown driver "+config.DBDriver+" (sqlite, postgres, memory)", nil)
	}
}
