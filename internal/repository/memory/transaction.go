package memory

import (
	"context"

	"reportdesk/internal/domain/repositories"
)

// TransactionManager runs fn directly; the in-memory stores lock per call
type TransactionManager struct{}

// NewTransactionManager creates a pass-through transaction manager
func NewTransactionManager() repositories.TransactionManager {
	return TransactionManager{}
}

// ExecTx executes fn without a transaction
func (TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
