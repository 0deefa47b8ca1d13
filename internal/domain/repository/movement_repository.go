package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de
// movimientos. Solo inserta y lee: las filas nunca se modifican ni borran.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	ListByBranch(ctx context.Context, branchID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	// ChainForPair devuelve la cadena completa del par ordenada por secuencia
	// ascendente (camino de reconciliación, no de consulta en caliente).
	ChainForPair(ctx context.Context, productID, branchID string) ([]*entity.Movement, error)
	// ListByReference devuelve los movimientos de un grupo (compra,
	// transferencia o factura).
	ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.Movement, error)
}
