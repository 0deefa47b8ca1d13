package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.InventoryQueryRepository = (*InventoryQueryRepo)(nil)

// InventoryQueryRepo consultas de solo lectura para reportes de inventario.
// Lee las filas materializadas de stock_levels, nunca reproduce el libro.
type InventoryQueryRepo struct {
	q Querier
}

// NewInventoryQueryRepository construye el adaptador de reportes.
func NewInventoryQueryRepository(q Querier) *InventoryQueryRepo {
	return &InventoryQueryRepo{q: q}
}

// StockByBranch lista el stock de una sucursal con metadatos del producto,
// ordenado de menor a mayor cantidad (lo crítico primero).
func (r *InventoryQueryRepo) StockByBranch(ctx context.Context, companyID, branchID string) ([]repository.BranchStockItem, error) {
	query := `
		SELECT sl.product_id, sl.branch_id, sl.company_id, sl.quantity, sl.min_stock, sl.max_stock,
		       sl.cost_price, sl.last_movement_at, sl.updated_at,
		       p.sku, p.name, p.unit_measure
		FROM stock_levels sl
		JOIN products p ON p.id = sl.product_id
		WHERE sl.company_id = $1 AND sl.branch_id = $2
		ORDER BY sl.quantity ASC, p.name ASC`
	rows, err := r.q.Query(ctx, query, companyID, branchID)
	if err != nil {
		return nil, fmt.Errorf("stock by branch: %w", err)
	}
	defer rows.Close()
	var list []repository.BranchStockItem
	for rows.Next() {
		var item repository.BranchStockItem
		if err := rows.Scan(
			&item.Level.ProductID, &item.Level.BranchID, &item.Level.CompanyID,
			&item.Level.Quantity, &item.Level.MinStock, &item.Level.MaxStock,
			&item.Level.CostPrice, &item.Level.LastMovementAt, &item.Level.UpdatedAt,
			&item.SKU, &item.ProductName, &item.UnitMeasure,
		); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// LowStock lista los pares en o por debajo de su umbral efectivo. El umbral
// efectivo es min_stock de la fila, o el default de la empresa cuando es NULL.
func (r *InventoryQueryRepo) LowStock(ctx context.Context, companyID string, defaultThreshold decimal.Decimal) ([]repository.LowStockItem, error) {
	query := `
		SELECT sl.product_id, p.sku, p.name, sl.branch_id, b.name,
		       sl.quantity, COALESCE(sl.min_stock, $2) AS effective_min
		FROM stock_levels sl
		JOIN products p ON p.id = sl.product_id
		JOIN branches b ON b.id = sl.branch_id
		WHERE sl.company_id = $1
		  AND p.is_inventory_tracked
		  AND sl.quantity <= COALESCE(sl.min_stock, $2)
		ORDER BY sl.quantity ASC, p.name ASC`
	rows, err := r.q.Query(ctx, query, companyID, defaultThreshold)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockItem
	for rows.Next() {
		var item repository.LowStockItem
		if err := rows.Scan(
			&item.ProductID, &item.SKU, &item.ProductName, &item.BranchID, &item.BranchName,
			&item.CurrentStock, &item.MinStock,
		); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// SummarizeByBranch agrega el stock por sucursal: productos distintos,
// cantidad total y cuántos pares están bajo su umbral efectivo.
func (r *InventoryQueryRepo) SummarizeByBranch(ctx context.Context, companyID string, defaultThreshold decimal.Decimal) ([]repository.BranchSummary, error) {
	query := `
		SELECT b.id, b.name,
		       COUNT(sl.product_id),
		       COALESCE(SUM(sl.quantity), 0),
		       COUNT(sl.product_id) FILTER (WHERE sl.quantity <= COALESCE(sl.min_stock, $2))
		FROM branches b
		LEFT JOIN stock_levels sl ON sl.branch_id = b.id
		WHERE b.company_id = $1
		GROUP BY b.id, b.name
		ORDER BY b.name ASC`
	rows, err := r.q.Query(ctx, query, companyID, defaultThreshold)
	if err != nil {
		return nil, fmt.Errorf("summarize by branch: %w", err)
	}
	defer rows.Close()
	var list []repository.BranchSummary
	for rows.Next() {
		var s repository.BranchSummary
		if err := rows.Scan(&s.BranchID, &s.BranchName, &s.TotalProducts, &s.TotalQuantity, &s.LowStockCount); err != nil {
			return nil, fmt.Errorf("scan branch summary: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
