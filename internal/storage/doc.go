// Package storage provides the claim store for tokclaim.
//
// The store owns two token sets, the allow-list and the claimed set, and
// keeps them in sharded in-memory sets backed by a durable Backend.
//
// Architecture:
//
//   - Memory: two cmap.Set values answer Contains and List without
//     touching the mutation lock
//   - Backend: "file" (line-per-token text files) or "badger" (embedded KV)
//   - Mutation lock: Add, Remove and TryClaim run check, persist and
//     publish under one lock
//
// A mutation is written to the backend first and published to memory only
// after the backend acknowledges it. A failed write leaves both sets
// unchanged and surfaces domain.ErrPersistenceFailure.
package storage
