// Package memory implements the learned selector store: per (page
// fingerprint, logical role) statistics about which concrete selectors have
// historically succeeded or failed.
//
// Ranking is a pure function of the recorded statistics, recomputed on every
// read so it can never go stale. Records are never evicted automatically;
// persistence happens at the run boundary through SQLiteStore.
//
// The store is shared by all concurrently running workers. Updates to
// different (fingerprint, role) keys never block each other; updates to the
// same key are serialized by a per-record lock.
package memory
