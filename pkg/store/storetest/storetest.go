// Package storetest holds behavior tests shared by all Store implementations.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/store"
)

// NewQuestion returns a question as the importer would create it.
func NewQuestion(url, details string) *store.Question {
	return &store.Question{
		URL:            url,
		Title:          url + ": Titel",
		Details:        details,
		DateAdded:      time.Unix(1403863200, 0).UTC(),
		UserID:         2,
		AdditionalData: `{"tags":["` + url + `"]}`,
	}
}

// Run exercises a Store. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("find missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Find(context.Background(), "WP038")
		assert.True(t, errors.IsNotFound(err), "got %v", err)
	})

	t.Run("insert and find", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		q := NewQuestion("WP038", "<h2>Wiki</h2>")
		require.NoError(t, s.Insert(ctx, q, []string{"WP038", "Umwelt", "TO1"}))
		assert.NotZero(t, q.ID)

		got, err := s.Find(ctx, "WP038")
		require.NoError(t, err)
		assert.Equal(t, q.ID, got.ID)
		assert.Equal(t, "WP038: Titel", got.Title)
		assert.Equal(t, "<h2>Wiki</h2>", got.Details)
		assert.Equal(t, 2, got.UserID)
		assert.True(t, q.DateAdded.Equal(got.DateAdded))
		assert.Equal(t, q.AdditionalData, got.AdditionalData)

		tags, err := s.Tags(ctx, "WP038")
		require.NoError(t, err)
		assert.Equal(t, []string{"WP038", "Umwelt", "TO1"}, tags)
	})

	t.Run("duplicate insert fails", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.Insert(ctx, NewQuestion("PA001", "a"), []string{"PA001"}))
		err := s.Insert(ctx, NewQuestion("PA001", "b"), []string{"PA001"})
		require.Error(t, err)
		assert.True(t, errors.IsStoreError(err), "got %v", err)

		got, err := s.Find(ctx, "PA001")
		require.NoError(t, err)
		assert.Equal(t, "a", got.Details)

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("update details", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.Insert(ctx, NewQuestion("GP005", "old"), nil))
		require.NoError(t, s.UpdateDetails(ctx, "GP005", "new"))

		got, err := s.Find(ctx, "GP005")
		require.NoError(t, err)
		assert.Equal(t, "new", got.Details)
		assert.Equal(t, "GP005: Titel", got.Title)

		err = s.UpdateDetails(ctx, "GP006", "x")
		assert.True(t, errors.IsNotFound(err), "got %v", err)
	})

	t.Run("list and count", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		for _, url := range []string{"WP038", "PA001", "SÄA013"} {
			require.NoError(t, s.Insert(ctx, NewQuestion(url, "d"), []string{url}))
		}

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "PA001", list[0].URL)
		assert.Equal(t, "SÄA013", list[1].URL)
		assert.Equal(t, "WP038", list[2].URL)

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("purge", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.Insert(ctx, NewQuestion("WP038", "d"), []string{"WP038", "TO1"}))
		require.NoError(t, s.Purge(ctx))

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		_, err = s.Tags(ctx, "WP038")
		assert.True(t, errors.IsNotFound(err), "got %v", err)

		require.NoError(t, s.Insert(ctx, NewQuestion("WP038", "d"), []string{"WP038"}))
		tags, err := s.Tags(ctx, "WP038")
		require.NoError(t, err)
		assert.Equal(t, []string{"WP038"}, tags)
	})
}
