package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// PurchaseUseCase registra una recepción de mercancía multi-línea como una
// sola unidad atómica: una entrada por línea, todas con reference_type
// compra y un reference_id común. Cualquier línea inválida revierte la
// compra completa.
type PurchaseUseCase struct {
	engine   *MovementEngine
	txRunner TxRunner
	settings SettingsProvider
}

// NewPurchaseUseCase construye el caso de uso de compras.
func NewPurchaseUseCase(engine *MovementEngine, txRunner TxRunner, settings SettingsProvider) *PurchaseUseCase {
	return &PurchaseUseCase{engine: engine, txRunner: txRunner, settings: settings}
}

// PurchaseLine una línea de la compra.
type PurchaseLine struct {
	ProductID string
	Quantity  decimal.Decimal // siempre positiva
	CostPrice decimal.Decimal // >= 0
}

// PurchaseInput entrada para registrar una compra.
type PurchaseInput struct {
	CompanyID string
	UserID    string
	BranchID  string
	Lines     []PurchaseLine
	Notes     string
}

// PurchaseResult resultado de una compra exitosa.
type PurchaseResult struct {
	ReferenceID      string
	MovementsCreated int
	TotalCost        decimal.Decimal
	Movements        []*entity.Movement
}

// RegisterPurchase valida todas las líneas antes de tocar almacenamiento
// (fail-fast) y luego las aplica en una transacción, bloqueando las filas en
// orden determinista por producto para evitar deadlocks contra compras o
// traslados concurrentes.
func (uc *PurchaseUseCase) RegisterPurchase(ctx context.Context, input PurchaseInput) (*PurchaseResult, error) {
	if input.CompanyID == "" || input.BranchID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) || line.CostPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	// Catálogo validado antes de abrir la transacción
	for _, line := range input.Lines {
		if err := uc.engine.checkCatalog(ctx, input.CompanyID, line.ProductID, input.BranchID); err != nil {
			return nil, err
		}
	}
	settings, err := uc.settings.Effective(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}

	// Orden global de bloqueo: por producto ascendente (misma sucursal)
	lines := make([]PurchaseLine, len(input.Lines))
	copy(lines, input.Lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	referenceID := uuid.New().String()
	result := &PurchaseResult{ReferenceID: referenceID, TotalCost: decimal.Zero}

	err = withConflictRetry(ctx, func() error {
		result.Movements = result.Movements[:0]
		result.MovementsCreated = 0
		result.TotalCost = decimal.Zero
		return uc.txRunner.Run(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockLevelRepository,
		) error {
			now := time.Now()
			for _, line := range lines {
				cost := line.CostPrice
				movement, _, err := uc.engine.applyLocked(ctx, movRepo, stockRepo, ApplyMovementInput{
					CompanyID:     input.CompanyID,
					UserID:        input.UserID,
					ProductID:     line.ProductID,
					BranchID:      input.BranchID,
					Type:          entity.MovementEntrada,
					Quantity:      line.Quantity,
					ReferenceType: entity.ReferenceCompra,
					ReferenceID:   referenceID,
					CostPrice:     &cost,
					Notes:         input.Notes,
				}, settings, now)
				if err != nil {
					return err
				}
				result.Movements = append(result.Movements, movement)
				result.MovementsCreated++
				result.TotalCost = result.TotalCost.Add(line.Quantity.Mul(line.CostPrice))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
