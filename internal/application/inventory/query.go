package inventory

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// QueryUseCase proyecciones de solo lectura sobre las filas de StockLevel.
// No escribe nunca y no reproduce el libro de movimientos: esa es la ruta de
// reconciliación, no la de consulta.
type QueryUseCase struct {
	queryRepo  repository.InventoryQueryRepository
	branchRepo repository.BranchRepository
	settings   SettingsProvider
}

// NewQueryUseCase construye el caso de uso de reportes.
func NewQueryUseCase(
	queryRepo repository.InventoryQueryRepository,
	branchRepo repository.BranchRepository,
	settings SettingsProvider,
) *QueryUseCase {
	return &QueryUseCase{queryRepo: queryRepo, branchRepo: branchRepo, settings: settings}
}

// StockByBranch devuelve el stock de una sucursal con metadatos de producto,
// ordenado por cantidad ascendente (los quiebres de stock primero).
func (uc *QueryUseCase) StockByBranch(ctx context.Context, companyID, branchID string) ([]repository.BranchStockItem, error) {
	if companyID == "" || branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	if branch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.queryRepo.StockByBranch(ctx, companyID, branchID)
}

// LowStock lista los pares (producto, sucursal) cuyo stock está en o por
// debajo del umbral efectivo: min_stock de la fila, o el umbral por defecto
// de la empresa cuando la fila no define uno.
func (uc *QueryUseCase) LowStock(ctx context.Context, companyID string) ([]repository.LowStockItem, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	settings, err := uc.settings.Effective(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.queryRepo.LowStock(ctx, companyID, settings.LowStockThreshold)
}

// SummarizeByBranch agrega los StockLevel de la empresa por sucursal:
// productos distintos, cantidad total y conteo de quiebres.
func (uc *QueryUseCase) SummarizeByBranch(ctx context.Context, companyID string) ([]repository.BranchSummary, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	settings, err := uc.settings.Effective(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.queryRepo.SummarizeByBranch(ctx, companyID, settings.LowStockThreshold)
}
