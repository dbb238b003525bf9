package redis_client

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	server := miniredis.RunT(t)

	t.Setenv("TRAVIGO_REDIS_ADDRESS", server.Addr())
	t.Setenv("TRAVIGO_REDIS_PASSWORD", "")
	t.Setenv("TRAVIGO_REDIS_DATABASE", "")

	require.NoError(t, Connect())
	t.Cleanup(func() { Close() })

	require.NotNil(t, Client)
	require.NotNil(t, QueueConnection)
	assert.NoError(t, Client.Ping(context.Background()).Err())

	queue, err := QueueConnection.OpenQueue("proximity-sessions")
	require.NoError(t, err)
	require.NoError(t, queue.Publish("hello"))

	purged, err := queue.PurgeReady()
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestConnectInvalidDatabase(t *testing.T) {
	t.Setenv("TRAVIGO_REDIS_DATABASE", "first")

	assert.Error(t, Connect())
}

func TestConnectUnreachable(t *testing.T) {
	server := miniredis.RunT(t)
	address := server.Addr()
	server.Close()

	t.Setenv("TRAVIGO_REDIS_ADDRESS", address)
	t.Setenv("TRAVIGO_REDIS_DATABASE", "")

	assert.Error(t, Connect())
}
