package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/store"
	"github.com/piratetools42/antragsbuch/pkg/store/storetest"
)

func TestOpenReportsDriverErrors(t *testing.T) {
	original := sqlOpen
	t.Cleanup(func() { sqlOpen = original })

	var gotDriver, gotDSN string
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driver, dsn
		return nil, errors.New("boom")
	}

	_, err := Open(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, DefaultDSN, gotDSN)

	var resErr *errors.ResourceError
	assert.ErrorAs(t, err, &resErr)
}

// TestStore runs against a real database when ANTRAGSBUCH_TEST_POSTGRES_DSN is set.
func TestStore(t *testing.T) {
	dsn := os.Getenv("ANTRAGSBUCH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ANTRAGSBUCH_TEST_POSTGRES_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(context.Background(), dsn)
		require.NoError(t, err)
		require.NoError(t, s.Purge(context.Background()))
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
