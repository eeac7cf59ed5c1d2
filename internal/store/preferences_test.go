package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceStore_GetSet(t *testing.T) {
	prefs, err := OpenPreferences(":memory:")
	require.NoError(t, err)
	defer prefs.Close()

	ctx := context.Background()

	_, ok, err := prefs.Get(ctx, "temperatureUnit")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, prefs.Set(ctx, "temperatureUnit", "K"))
	v, ok, err := prefs.Get(ctx, "temperatureUnit")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "K", v)

	require.NoError(t, prefs.Set(ctx, "temperatureUnit", "C"))
	v, _, err = prefs.Get(ctx, "temperatureUnit")
	require.NoError(t, err)
	assert.Equal(t, "C", v)
}

func TestPreferenceStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	prefs, err := OpenPreferences(path)
	require.NoError(t, err)
	require.NoError(t, prefs.Set(ctx, "temperatureUnit", "K"))
	require.NoError(t, prefs.Close())

	reopened, err := OpenPreferences(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "temperatureUnit")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "K", v)
}
