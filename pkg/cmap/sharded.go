// Package cmap provides a concurrent sharded set for string-like keys.
package cmap

import (
	"hash/maphash"
	"sort"
	"sync"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Set is a concurrent-safe sharded set.
type Set[K ~string] struct {
	shards    []*shard[K]
	shardMask uint64
	seed      maphash.Seed
}

type shard[K ~string] struct {
	mu    sync.RWMutex
	items map[K]struct{}
}

// NewSet creates a set with the default shard count.
func NewSet[K ~string]() *Set[K] {
	return NewSetWithShards[K](DefaultShardCount)
}

// NewSetWithShards creates a set with shardCount shards.
// shardCount must be a power of 2; other values fall back to the default.
func NewSetWithShards[K ~string](shardCount int) *Set[K] {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	s := &Set[K]{
		shards:    make([]*shard[K], shardCount),
		shardMask: uint64(shardCount - 1),
		seed:      maphash.MakeSeed(),
	}
	for i := range s.shards {
		s.shards[i] = &shard[K]{items: make(map[K]struct{})}
	}
	return s
}

func (s *Set[K]) shardFor(key K) *shard[K] {
	return s.shards[maphash.String(s.seed, string(key))&s.shardMask]
}

// Has reports whether key is in the set.
func (s *Set[K]) Has(key K) bool {
	sh := s.shardFor(key)
	sh.mu.RLock()
	_, ok := sh.items[key]
	sh.mu.RUnlock()
	return ok
}

// Add inserts key and reports whether it was newly added.
func (s *Set[K]) Add(key K) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.items[key]; ok {
		return false
	}
	sh.items[key] = struct{}{}
	return true
}

// Remove deletes key and reports whether it was present.
func (s *Set[K]) Remove(key K) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.items[key]; !ok {
		return false
	}
	delete(sh.items, key)
	return true
}

// Len returns the number of keys.
func (s *Set[K]) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.items)
		sh.mu.RUnlock()
	}
	return n
}

// Range calls fn for each key until fn returns false.
// fn must not modify the set.
func (s *Set[K]) Range(fn func(key K) bool) {
	for _, sh := range s.shards {
		sh.mu.RLock()
		for k := range sh.items {
			if !fn(k) {
				sh.mu.RUnlock()
				return
			}
		}
		sh.mu.RUnlock()
	}
}

// Keys returns all keys in ascending order.
func (s *Set[K]) Keys() []K {
	keys := make([]K, 0, s.Len())
	s.Range(func(k K) bool {
		keys = append(keys, k)
		return true
	})
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Reset replaces the contents of the set with keys.
func (s *Set[K]) Reset(keys []K) {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.items = make(map[K]struct{})
		sh.mu.Unlock()
	}
	for _, k := range keys {
		s.Add(k)
	}
}
