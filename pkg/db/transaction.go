package db

import (
	"context"
	"database/sql"
	"errors"
)

// WithTx runs fn inside a transaction on the connection. The transaction
// is committed when fn returns nil and rolled back otherwise; a panic in fn
// rolls back and is re-raised.
func (c *Connection) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return c.withTx(ctx, nil, fn)
}

// WithReadTx is WithTx with a read-only transaction.
func (c *Connection) WithReadTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return c.withTx(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (c *Connection) withTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, opts)
	if err != nil {
		return errors.Join(ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			return errors.Join(err, rerr)
		}
		return err
	}
	return tx.Commit()
}
