// Package dbx содержит помощник для выполнения функций внутри транзакции sqlx.
package dbx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// WithTx открывает транзакцию, вызывает fn и фиксирует её при успехе.
// При ошибке или панике транзакция откатывается, паника пробрасывается дальше.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sqlx.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
