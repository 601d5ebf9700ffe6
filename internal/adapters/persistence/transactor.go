package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// GormTransactor implements common.Transactor over a gorm connection.
//
// The open transaction travels in the context; repositories pick it up via
// dbFrom, so application services stay ignorant of gorm. Nested WithinTx
// calls join the enclosing transaction instead of opening a second one.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a transactor bound to the given connection
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTx runs fn inside a database transaction
func (t *GormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx
}

// dbFrom returns the transaction bound to the context, or the repository's
// own connection when the caller runs outside a transaction
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}
