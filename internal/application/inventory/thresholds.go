package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// ThresholdsUseCase ajusta min_stock/max_stock de un par (producto,
// sucursal). No toca quantity ni costo: los umbrales son metadatos de
// alerta, no parte del libro.
type ThresholdsUseCase struct {
	engine    *MovementEngine
	stockRepo repository.StockLevelRepository
}

// NewThresholdsUseCase construye el caso de uso.
func NewThresholdsUseCase(engine *MovementEngine, stockRepo repository.StockLevelRepository) *ThresholdsUseCase {
	return &ThresholdsUseCase{engine: engine, stockRepo: stockRepo}
}

// SetThresholdsInput umbrales a fijar; nil limpia el umbral (vuelve al
// default de la empresa para min_stock).
type SetThresholdsInput struct {
	CompanyID string
	ProductID string
	BranchID  string
	MinStock  *decimal.Decimal
	MaxStock  *decimal.Decimal
}

func (in SetThresholdsInput) validate() error {
	if in.CompanyID == "" || in.ProductID == "" || in.BranchID == "" {
		return domain.ErrInvalidInput
	}
	if in.MinStock != nil && in.MinStock.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if in.MaxStock != nil && in.MaxStock.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if in.MinStock != nil && in.MaxStock != nil && in.MaxStock.LessThan(*in.MinStock) {
		return domain.ErrInvalidInput
	}
	return nil
}

// SetThresholds valida tenencia de producto y sucursal y guarda los
// umbrales. Crea la fila de stock en cero si el par aún no tiene
// movimientos.
func (uc *ThresholdsUseCase) SetThresholds(ctx context.Context, input SetThresholdsInput) (*entity.StockLevel, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := uc.engine.checkCatalog(ctx, input.CompanyID, input.ProductID, input.BranchID); err != nil {
		return nil, err
	}
	level := &entity.StockLevel{
		ProductID: input.ProductID,
		BranchID:  input.BranchID,
		CompanyID: input.CompanyID,
		MinStock:  input.MinStock,
		MaxStock:  input.MaxStock,
		UpdatedAt: time.Now(),
	}
	if err := uc.stockRepo.UpdateThresholds(ctx, level); err != nil {
		return nil, err
	}
	return uc.stockRepo.Get(ctx, input.ProductID, input.BranchID)
}
