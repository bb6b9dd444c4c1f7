package infra

import (
	"fmt"

	"github.com/DonboyBR/sigam-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches for DDL that
// GORM cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// TranslateError maps driver unique-violation errors to
		// gorm.ErrDuplicatedKey so services can turn them into 409s.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Produto{},
		&model.Caixa{},
		&model.Venda{},
		&model.ItemVenda{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one ABERTO caixa per responsável. The service layer checks
		// before inserting, but only this index closes the race between two
		// concurrent opens.
		{"partial unique index on open caixas", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_caixas_responsavel_aberto') THEN
    CREATE UNIQUE INDEX uni_caixas_responsavel_aberto
        ON caixas (responsavel_id)
        WHERE status = 'ABERTO';
  END IF;
END $$`},
		// Stock can never be negative even if a code path bypasses the
		// conditional decrement.
		{"non-negative stock check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_produtos_estoque_nao_negativo') THEN
    ALTER TABLE produtos
      ADD CONSTRAINT chk_produtos_estoque_nao_negativo CHECK (estoque >= 0);
  END IF;
END $$`},
		// History and dashboard queries filter by day.
		{"index on vendas created_at", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_vendas_created_at') THEN
    CREATE INDEX idx_vendas_created_at ON vendas (created_at);
  END IF;
END $$`},
		{"index on caixas data_fechamento", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_caixas_data_fechamento') THEN
    CREATE INDEX idx_caixas_data_fechamento ON caixas (data_fechamento) WHERE data_fechamento IS NOT NULL;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
