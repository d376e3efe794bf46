package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// TxManager выполняет замыкание в одной транзакции read-committed
// с собственным таймаутом. Все проверки легальности и записи,
// которые должны быть атомарными, живут внутри одного вызова.
type TxManager struct {
	pool      *pgxpool.Pool
	txTimeout time.Duration
}

func NewTxManager(pool *pgxpool.Pool, txTimeout time.Duration) TxManagerInterface {
	return &TxManager{pool: pool, txTimeout: txTimeout}
}

func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	txCtx := ctx
	if m.txTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, m.txTimeout)
		defer cancel()
	}

	tx, err := m.pool.BeginTx(txCtx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(txCtx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(txCtx)
		} else {
			err = tx.Commit(txCtx)
			if err != nil {
				err = fmt.Errorf("ошибка при коммите транзакции: %w", err)
			}
		}
	}()

	err = fn(txCtx, tx)
	return err
}
