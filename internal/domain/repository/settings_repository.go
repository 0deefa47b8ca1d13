package repository

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// SettingsRepository define el puerto para la configuración de inventario
// por empresa (una fila por empresa, last-write-wins).
type SettingsRepository interface {
	// Get devuelve nil sin error cuando la empresa aún no guardó configuración.
	Get(ctx context.Context, companyID string) (*entity.InventorySettings, error)
	Upsert(ctx context.Context, settings *entity.InventorySettings) error
}
