package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourceValidatesConfig(t *testing.T) {
	_, err := NewSource(Config{})
	assert.Error(t, err)

	_, err = NewSource(Config{Key: "snap", Mode: "stream"})
	assert.Error(t, err)

	s, err := NewSource(Config{Key: "snap"})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, ModeKey, s.mode)
	assert.Equal(t, 5*time.Second, s.blockTimeout)
}

func TestFetchReportsUnreachableServer(t *testing.T) {
	s, err := NewSource(Config{Addr: "127.0.0.1:1", Key: "snap", Mode: ModeList, BlockTimeout: 50 * time.Millisecond})
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	payload, err := s.Fetch(ctx)
	assert.Error(t, err)
	assert.Nil(t, payload)
}
