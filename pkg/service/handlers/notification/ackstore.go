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
	"fmt"
	"sync"

	"github.com/citypages/citypages/pkg/log"
	"github.com/citypages/citypages/pkg/utils/redis"
	"github.com/citypages/citypages/pkg/utils/set"
)

// AckStoreKeyPrefix is the fixed key the acknowledged id set lives under,
// one set per user.
const AckStoreKeyPrefix = "notifybell:acked:"

// AckStore persists which inferred notification ids a user has already
// been shown.
type AckStore interface {
	Acked(ctx context.Context, userID uint) (map[string]struct{}, error)
	Ack(ctx context.Context, userID uint, ids ...string) error
}

type RedisAckStore struct {
	cli *redis.Client
}

func NewRedisAckStore(cli *redis.Client) *RedisAckStore {
	return &RedisAckStore{cli: cli}
}

func ackKey(userID uint) string {
	return fmt.Sprintf("%s%d", AckStoreKeyPrefix, userID)
}

func (s *RedisAckStore) Acked(ctx context.Context, userID uint) (map[string]struct{}, error) {
	members, err := s.cli.SMembers(ctx, ackKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	acked := make(map[string]struct{}, len(members))
	for _, m := range members {
		acked[m] = struct{}{}
	}
	return acked, nil
}

func (s *RedisAckStore) Ack(ctx context.Context, userID uint, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, len(ids))
	for i := range ids {
		members[i] = ids[i]
	}
	return s.cli.SAdd(ctx, ackKey(userID), members...).Err()
}

// MemoryAckStore is the session-scoped fallback used when redis is not
// configured or unreachable. Acks reset on restart.
type MemoryAckStore struct {
	mu    sync.Mutex
	acked map[uint]*set.Set[string]
}

func NewMemoryAckStore() *MemoryAckStore {
	return &MemoryAckStore{acked: map[uint]*set.Set[string]{}}
}

func (s *MemoryAckStore) Acked(_ context.Context, userID uint) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acked := map[string]struct{}{}
	if ids, ok := s.acked[userID]; ok {
		for _, id := range ids.Slice() {
			acked[id] = struct{}{}
		}
	}
	return acked, nil
}

func (s *MemoryAckStore) Ack(_ context.Context, userID uint, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	userSet, ok := s.acked[userID]
	if !ok {
		userSet = set.NewSet[string]()
		s.acked[userID] = userSet
	}
	userSet.Append(ids...)
	return nil
}

// FallbackAckStore degrades to the in-memory store when the persistent
// one errors, logging instead of failing the feed.
type FallbackAckStore struct {
	primary  AckStore
	fallback AckStore
}

func NewFallbackAckStore(primary AckStore) *FallbackAckStore {
	return &FallbackAckStore{primary: primary, fallback: NewMemoryAckStore()}
}

func (s *FallbackAckStore) Acked(ctx context.Context, userID uint) (map[string]struct{}, error) {
	if s.primary != nil {
		acked, err := s.primary.Acked(ctx, userID)
		if err == nil {
			return acked, nil
		}
		log.Error(err, "ack store read, degrading to session acks", "user", userID)
	}
	return s.fallback.Acked(ctx, userID)
}

func (s *FallbackAckStore) Ack(ctx context.Context, userID uint, ids ...string) error {
	if s.primary != nil {
		if err := s.primary.Ack(ctx, userID, ids...); err == nil {
			return nil
		} else {
			log.Error(err, "ack store write, degrading to session acks", "user", userID)
		}
	}
	return s.fallback.Ack(ctx, userID, ids...)
}
