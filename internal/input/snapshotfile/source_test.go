package snapshotfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRereadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	s, err := NewSource(path)
	require.NoError(t, err)

	payload, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, payload)

	require.NoError(t, os.WriteFile(path, []byte(`{"total_attacks": 1}`), 0o644))
	payload, err = s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"total_attacks": 1}`, string(payload))

	require.NoError(t, os.WriteFile(path, []byte(`{"total_attacks": 2}`), 0o644))
	payload, err = s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"total_attacks": 2}`, string(payload))
}

func TestFetchHonoursCancellation(t *testing.T) {
	s, err := NewSource(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSourceRequiresPath(t *testing.T) {
	_, err := NewSource("")
	assert.Error(t, err)
}
