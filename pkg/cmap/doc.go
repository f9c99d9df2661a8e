// Package cmap provides a concurrent sharded set for string-like keys.
//
// Membership is spread over a power-of-two number of shards, each guarded
// by its own RWMutex, so readers only contend with writers touching the
// same shard:
//
//	s := cmap.NewSet[domain.Token]()
//	s.Add("a@b.com")
//	ok := s.Has("a@b.com")
//
// All operations are safe for concurrent use. Range and Keys observe each
// shard consistently but not the set as a whole.
package cmap
