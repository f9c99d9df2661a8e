// Package benchmark provides performance benchmarks for the claim store
// and its supporting services.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Compare backends only:
//
//	go test -bench='TryClaim|Add' -benchmem -benchtime=5s ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
