// Package storage defines the repository interfaces for vitae.
//
// Repositories decouple business logic from the BadgerDB implementation in
// storage/badger. Public constructors return interfaces; internal constructors
// may return concrete types.
//
// # Repositories
//
//   - CVRepository: the per-user root of the ownership chain
//   - CategoryRepository: named groups within a CV
//   - EntryRepository: canonical entries, with a title-key guard
//   - PendingRepository: staged entries awaiting review
//   - ProfileRepository: person-identity fields
//   - TaskRepository: durable background ingestion tasks
//   - CreditRepository: balances and the debit log
//
// Use in tests with in-memory storage:
//
//	repos, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repos.Close()
//
// # Ownership
//
// Lookups that cross users fail closed: a record owned by another user is
// reported as ErrNotFound, never as a distinct authorization error.
//
// All repository implementations are safe for concurrent use.
package storage
