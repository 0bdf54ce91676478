package pkg

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// InTx runs fn in a transaction bound to ctx. The transaction commits when fn
// returns nil and rolls back on an error or a panic; a panic is re-raised
// after the rollback. A db that is already a transaction is reused, so
// repository helpers compose inside a caller's transaction.
func InTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	db = db.WithContext(ctx)
	if _, inTx := db.Statement.ConnPool.(gorm.TxCommitter); inTx {
		return fn(db)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}
	done := false
	defer func() {
		if !done {
			tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	done = true
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
