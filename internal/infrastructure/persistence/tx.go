package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager runs functions inside a database transaction. The transaction
// handle travels through the context, so repositories created against the
// base connection automatically join an open transaction.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new TxManager
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx executes fn inside a transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := txFromContext(ctx); tx != nil {
		// already inside a transaction, join it
		return fn(ctx)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext resolves the active transaction from the context, falling
// back to the given base connection.
func dbFromContext(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return base
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}
