package repository

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// StockLevelRepository define el puerto para consultar/actualizar el stock
// por (producto, sucursal). Usado dentro de transacciones para garantizar
// consistencia con el libro de movimientos.
type StockLevelRepository interface {
	Get(ctx context.Context, productID, branchID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si la fila no existe
	// devuelve un StockLevel en cero listo para el primer movimiento.
	GetForUpdate(ctx context.Context, productID, branchID string) (*entity.StockLevel, error)
	// Upsert crea o actualiza quantity, cost_price y last_movement_at. Debe
	// ejecutarse en la misma transacción que la inserción del movimiento.
	Upsert(ctx context.Context, level *entity.StockLevel) error
	// UpdateThresholds ajusta min_stock/max_stock sin tocar quantity.
	UpdateThresholds(ctx context.Context, level *entity.StockLevel) error
	// AnyNonZeroByProduct indica si el producto tiene stock distinto de cero
	// en alguna sucursal (regla del toggle de seguimiento).
	AnyNonZeroByProduct(ctx context.Context, productID string) (bool, error)
	// ListPairs devuelve todos los pares con fila de stock, para la
	// reconciliación periódica. companyID vacío = todas las empresas.
	ListPairs(ctx context.Context, companyID string) ([]*entity.StockLevel, error)
}
