package identity_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"clambake/internal/identity"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.json")

	want := identity.Identity{InstanceID: "a1b2c3d4e5f6", Project: "webapp"}
	require.NoError(t, identity.Save(path, want))

	got, err := identity.Load(path)
	require.NoError(t, err)
	require.Equal(t, want, *got)
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "instance.json")
	require.NoError(t, identity.Save(path, identity.Identity{InstanceID: "x", Project: "p"}))

	_, err := identity.Load(path)
	require.NoError(t, err)
}

func TestLoadAbsentIsNotRegistered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.json")

	_, err := identity.Load(path)
	require.ErrorIs(t, err, identity.ErrNotRegistered)
}

func TestLoadEmptyIDIsNotRegistered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"instance_id":"","project":"p"}`), 0o600))

	_, err := identity.Load(path)
	require.ErrorIs(t, err, identity.ErrNotRegistered)
}

func TestLoadMalformedIsDistinctError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := identity.Load(path)
	require.Error(t, err)
	require.NotErrorIs(t, err, identity.ErrNotRegistered)
}

func TestClearIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.json")
	require.NoError(t, identity.Save(path, identity.Identity{InstanceID: "x", Project: "p"}))

	require.NoError(t, identity.Clear(path))
	_, err := identity.Load(path)
	require.ErrorIs(t, err, identity.ErrNotRegistered)

	// Clearing again is harmless.
	require.NoError(t, identity.Clear(path))
}
