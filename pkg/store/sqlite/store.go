// Package sqlite opens the record store in a SQLite database file using the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/piratetools42/antragsbuch/pkg/constants"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/store/sqlstore"
)

// DefaultPath returns ~/.antragsbuch/wikiarguments.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, constants.ConfigDirName, constants.DefaultDatabaseFile), nil
}

// Open opens or creates the database at path and migrates it.
// An empty path selects DefaultPath.
func Open(ctx context.Context, path string) (*sqlstore.Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", filepath.Dir(path), err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", path, constants.SQLiteBusyTimeout)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapResource("open", "store", path, err)
	}

	s, err := sqlstore.New(ctx, db, sqlstore.SQLite)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
