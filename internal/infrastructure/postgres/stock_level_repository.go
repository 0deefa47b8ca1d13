package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL
// (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = `product_id, branch_id, company_id, quantity, min_stock, max_stock, cost_price, last_movement_at, updated_at`

func scanStockLevel(row pgx.Row) (*entity.StockLevel, error) {
	var s entity.StockLevel
	err := row.Scan(
		&s.ProductID, &s.BranchID, &s.CompanyID, &s.Quantity,
		&s.MinStock, &s.MaxStock, &s.CostPrice, &s.LastMovementAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene el stock actual de un producto en una sucursal. Si no hay fila
// devuelve un StockLevel en cero (la fila se crea perezosamente con el primer
// movimiento).
func (r *StockLevelRepo) Get(ctx context.Context, productID, branchID string) (*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE product_id = $1 AND branch_id = $2`
	s, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroStockLevel(productID, branchID), nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE). Debe
// llamarse dentro de una transacción; el lock se mantiene hasta el commit.
// Si la fila no existe todavía no hay nada que bloquear: dos primeros
// movimientos concurrentes del mismo par se serializan por el nivel de
// aislamiento REPEATABLE READ del TxRunner, no por este lock.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, productID, branchID string) (*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE`
	s, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroStockLevel(productID, branchID), nil
		}
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return s, nil
}

// Upsert inserta o actualiza quantity, cost_price y last_movement_at por
// (producto, sucursal). Se ejecuta en la misma transacción que el movimiento.
func (r *StockLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (product_id, branch_id, company_id, quantity, min_stock, max_stock, cost_price, last_movement_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (product_id, branch_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              cost_price = EXCLUDED.cost_price,
		              last_movement_at = EXCLUDED.last_movement_at,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		level.ProductID, level.BranchID, level.CompanyID, level.Quantity,
		level.MinStock, level.MaxStock, level.CostPrice, level.LastMovementAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// UpdateThresholds ajusta min_stock/max_stock sin tocar quantity ni costo.
func (r *StockLevelRepo) UpdateThresholds(ctx context.Context, level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (product_id, branch_id, company_id, quantity, min_stock, max_stock, cost_price, last_movement_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $5, 0, now(), now())
		ON CONFLICT (product_id, branch_id)
		DO UPDATE SET min_stock = EXCLUDED.min_stock,
		              max_stock = EXCLUDED.max_stock,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		level.ProductID, level.BranchID, level.CompanyID, level.MinStock, level.MaxStock,
	)
	if err != nil {
		return fmt.Errorf("update stock thresholds: %w", err)
	}
	return nil
}

// AnyNonZeroByProduct indica si el producto tiene stock distinto de cero en
// alguna sucursal.
func (r *StockLevelRepo) AnyNonZeroByProduct(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM stock_levels WHERE product_id = $1 AND quantity <> 0)`,
		productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check nonzero stock: %w", err)
	}
	return exists, nil
}

// ListPairs devuelve todos los pares (producto, sucursal) con fila de stock.
// companyID vacío = todas las empresas.
func (r *StockLevelRepo) ListPairs(ctx context.Context, companyID string) ([]*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + ` FROM stock_levels`
	var args []any
	if companyID != "" {
		query += ` WHERE company_id = $1`
		args = append(args, companyID)
	}
	query += ` ORDER BY product_id, branch_id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock pairs: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.ProductID, &s.BranchID, &s.CompanyID, &s.Quantity,
			&s.MinStock, &s.MaxStock, &s.CostPrice, &s.LastMovementAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func zeroStockLevel(productID, branchID string) *entity.StockLevel {
	return &entity.StockLevel{
		ProductID: productID,
		BranchID:  branchID,
		Quantity:  decimal.Zero,
		CostPrice: decimal.Zero,
	}
}
