package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción REPEATABLE READ, ejecuta fn con repos atados a
// la tx y hace Commit o Rollback. Los fallos de serialización y deadlocks se
// traducen a domain.ErrConflict para que el motor pueda reintentar la
// transacción completa.
//
// El nivel REPEATABLE READ importa para el primer movimiento de un par
// (producto, sucursal): la fila de stock aún no existe, así que SELECT FOR
// UPDATE no tiene nada que bloquear y dos transacciones concurrentes parten
// ambas de cantidad cero. Bajo REPEATABLE READ el upsert de la segunda choca
// con la fila recién confirmada por la primera (40001) en lugar de
// sobreescribirla, y el reintento del motor relee el valor ya confirmado.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockLevelRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	stockRepo := NewStockLevelRepository(tx)

	if err := fn(movRepo, stockRepo); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
