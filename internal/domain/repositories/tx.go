// Package repositories holds the persistence contracts shared by every
// store: transactions and the executor repositories run their SQL on.
package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TxFn is the unit of work run by a TransactionManager
type TxFn func(ctx context.Context) error

// TransactionManager runs fn atomically. Repositories called with the ctx
// handed to fn join the transaction; in-memory stores simply run fn.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

type txKey struct{}

// SetTx returns a copy of ctx carrying tx
func SetTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTx returns the transaction carried by ctx, or nil
func GetTx(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}
