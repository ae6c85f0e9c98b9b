package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piratetools42/antragsbuch/pkg/store"
)

func TestAdditionalData(t *testing.T) {
	data, err := store.AdditionalData([]string{"WP038", "TO1"})
	require.NoError(t, err)
	assert.Equal(t, `{"tags":["WP038","TO1"]}`, data)

	tags, err := store.DecodeAdditionalData(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"WP038", "TO1"}, tags)

	empty, err := store.AdditionalData(nil)
	require.NoError(t, err)
	assert.Equal(t, `{"tags":[]}`, empty)

	tags, err = store.DecodeAdditionalData("")
	require.NoError(t, err)
	assert.Nil(t, tags)

	_, err = store.DecodeAdditionalData("{")
	assert.Error(t, err)
}
