package inventory

import (
	"context"

	"github.com/saebakery/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the batch ledger.
// Every consume/restore/replenish call runs its read-decide-decrement sequence
// inside one Execute call: either all batch mutations commit together, or
// none do, and concurrent consumers of the same product queue on the row
// locks taken inside the scope instead of racing.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repository access scoped to one transaction
type TransactionalRepositories interface {
	// Batches returns the batch repository scoped to the current transaction
	Batches() inventory.BatchRepository
}

// NoOpTransactionScope runs functions without a real transaction.
// Useful for tests and for callers that manage their own transaction.
type NoOpTransactionScope struct {
	batchRepo inventory.BatchRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repository
func NewNoOpTransactionScope(batchRepo inventory.BatchRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{batchRepo: batchRepo}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Batches returns the batch repository
func (s *NoOpTransactionScope) Batches() inventory.BatchRepository {
	return s.batchRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
