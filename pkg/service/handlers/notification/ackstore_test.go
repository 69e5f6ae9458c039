// Copyright 2025 The CityPages Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notification

import (
	"context"
	"testing"

	"github.com/citypages/citypages/pkg/utils/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisAckStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	cli, err := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	return NewRedisAckStore(cli), mr
}

func TestRedisAckStore(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	acked, err := store.Acked(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, acked)

	require.NoError(t, store.Ack(ctx, 7, "app-1", "cr-2"))
	require.NoError(t, store.Ack(ctx, 7, "app-1")) // idempotent

	acked, err = store.Acked(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, acked, 2)
	assert.Contains(t, acked, "app-1")
	assert.Contains(t, acked, "cr-2")

	// acks are per user
	acked, err = store.Acked(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, acked)

	// stored under the expected key
	members, err := mr.SMembers("notifybell:acked:7")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app-1", "cr-2"}, members)
}

func TestRedisAckStoreEmptyAckIsNoop(t *testing.T) {
	store, _ := newTestRedisStore(t)
	assert.NoError(t, store.Ack(context.Background(), 7))
}

func TestMemoryAckStore(t *testing.T) {
	store := NewMemoryAckStore()
	ctx := context.Background()

	require.NoError(t, store.Ack(ctx, 1, "app-1"))
	require.NoError(t, store.Ack(ctx, 2, "cr-9"))

	acked, err := store.Acked(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"app-1": {}}, acked)

	acked, err = store.Acked(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"cr-9": {}}, acked)
}

func TestFallbackAckStoreDegradesWhenRedisDown(t *testing.T) {
	redisStore, mr := newTestRedisStore(t)
	store := NewFallbackAckStore(redisStore)
	ctx := context.Background()

	require.NoError(t, store.Ack(ctx, 3, "app-5"))

	// redis goes away, acks keep working in memory
	mr.Close()
	require.NoError(t, store.Ack(ctx, 3, "cr-6"))

	acked, err := store.Acked(ctx, 3)
	require.NoError(t, err)
	assert.Contains(t, acked, "cr-6")
}

func TestFallbackAckStoreWithoutPrimary(t *testing.T) {
	store := &FallbackAckStore{fallback: NewMemoryAckStore()}
	ctx := context.Background()

	require.NoError(t, store.Ack(ctx, 4, "app-1"))
	acked, err := store.Acked(ctx, 4)
	require.NoError(t, err)
	assert.Contains(t, acked, "app-1")
}
