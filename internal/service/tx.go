package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with in-memory repositories).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// AnexoStore is the blob-store boundary for receipt and closing-slip photos:
// content in, opaque reference out, retrievable URL from a reference.
type AnexoStore interface {
	Salvar(categoria string, conteudoBase64 string) (string, error)
	URL(ref string) string
	// Remover discards a stored attachment; callers use it to undo a save
	// whose surrounding transaction rolled back.
	Remover(ref string)
}
