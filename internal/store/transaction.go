package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type txKey struct{}

var errTxDone = errors.New("transaction already committed or rolled back")

// Tx is a database transaction carried in a context. The stores pick it up
// through FromContext so a service can span several writes with one commit.
type Tx struct {
	id      int64
	db      *gorm.DB
	started time.Time
}

func Commit(ctx context.Context) (context.Context, error) {
	return finish(ctx, "commit", func(db *gorm.DB) *gorm.DB { return db.Commit() })
}

func Rollback(ctx context.Context) (context.Context, error) {
	return finish(ctx, "rollback", func(db *gorm.DB) *gorm.DB { return db.Rollback() })
}

// FromContext returns the open transaction of ctx, or nil.
func FromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*Tx); ok && tx.db != nil {
		return tx.db
	}
	return nil
}

// newTransactionContext opens a transaction unless ctx already carries one, in which
// case the caller joins it and the outermost owner commits.
func newTransactionContext(ctx context.Context, db *gorm.DB) (context.Context, error) {
	if _, found := ctx.Value(txKey{}).(*Tx); found {
		return ctx, nil
	}

	begun := db.Session(&gorm.Session{Context: ctx}).Begin()
	if begun.Error != nil {
		return ctx, begun.Error
	}

	tx := &Tx{db: begun, started: time.Now()}
	// txid_current only exists on postgres; sqlite transactions keep id 0.
	if begun.Dialector.Name() == "postgres" {
		var row struct{ ID int64 }
		begun.Raw("select txid_current() as id").Scan(&row)
		tx.id = row.ID
	}

	return context.WithValue(ctx, txKey{}, tx), nil
}

func finish(ctx context.Context, action string, end func(*gorm.DB) *gorm.DB) (context.Context, error) {
	tx, ok := ctx.Value(txKey{}).(*Tx)
	if !ok {
		return ctx, nil
	}
	newCtx := context.WithValue(ctx, txKey{}, nil)

	if tx.db == nil {
		return newCtx, errTxDone
	}

	logger := zap.L().Named("transaction").With(
		zap.String("action", action),
		zap.Int64("tx_id", tx.id),
		zap.Duration("open_for", time.Since(tx.started)),
	)
	if err := end(tx.db).Error; err != nil {
		logger.Error("transaction failed", zap.Error(err))
		return newCtx, err
	}
	tx.db = nil
	logger.Debug("transaction closed")
	return newCtx, nil
}
