package inventory

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la actualización del stock y la
// inserción del movimiento sean inseparables: o se confirman juntas o
// ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockLevelRepository,
	) error) error
}

// SettingsProvider entrega la configuración efectiva de inventario de una
// empresa. Puede servir valores cacheados con TTL corto: la staleness solo
// afecta la validación advisoria, nunca la integridad del libro.
type SettingsProvider interface {
	Effective(ctx context.Context, companyID string) (*entity.InventorySettings, error)
}
