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

// TransferUseCase traslada stock entre dos sucursales como una unidad
// atómica: el débito en origen y el crédito en destino se escriben en la
// misma transacción, compartiendo un reference_id de grupo. Para el
// observador el traslado es todo-o-nada: si cualquiera de los dos lados
// falla, la transacción revierte ambos.
type TransferUseCase struct {
	engine   *MovementEngine
	txRunner TxRunner
	settings SettingsProvider
}

// NewTransferUseCase construye el caso de uso de traslados.
func NewTransferUseCase(engine *MovementEngine, txRunner TxRunner, settings SettingsProvider) *TransferUseCase {
	return &TransferUseCase{engine: engine, txRunner: txRunner, settings: settings}
}

// TransferInput entrada para un traslado entre sucursales.
type TransferInput struct {
	CompanyID    string
	UserID       string
	ProductID    string
	FromBranchID string
	ToBranchID   string
	Quantity     decimal.Decimal // siempre positiva
	Notes        string
}

// TransferResult resultado de un traslado exitoso.
type TransferResult struct {
	ReferenceID string
	MovementOut *entity.Movement
	MovementIn  *entity.Movement
	FromLevel   *entity.StockLevel
	ToLevel     *entity.StockLevel
}

// Transfer valida y ejecuta el traslado. Las dos filas de stock se bloquean
// en orden determinista (sucursal con ID menor primero) para evitar
// deadlocks entre traslados concurrentes en sentidos opuestos.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.CompanyID == "" || input.ProductID == "" ||
		input.FromBranchID == "" || input.ToBranchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.FromBranchID == input.ToBranchID || !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	// Producto y ambas sucursales deben existir, estar activos y pertenecer a la empresa
	if err := uc.engine.checkCatalog(ctx, input.CompanyID, input.ProductID, input.FromBranchID); err != nil {
		return nil, err
	}
	if err := uc.engine.checkCatalog(ctx, input.CompanyID, input.ProductID, input.ToBranchID); err != nil {
		return nil, err
	}
	settings, err := uc.settings.Effective(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}

	referenceID := uuid.New().String()

	out := ApplyMovementInput{
		CompanyID:     input.CompanyID,
		UserID:        input.UserID,
		ProductID:     input.ProductID,
		BranchID:      input.FromBranchID,
		Type:          entity.MovementTransferenciaSalida,
		Quantity:      input.Quantity.Neg(),
		ReferenceType: entity.ReferenceTransferencia,
		ReferenceID:   referenceID,
		Notes:         input.Notes,
	}
	in := ApplyMovementInput{
		CompanyID:     input.CompanyID,
		UserID:        input.UserID,
		ProductID:     input.ProductID,
		BranchID:      input.ToBranchID,
		Type:          entity.MovementTransferenciaEntrada,
		Quantity:      input.Quantity,
		ReferenceType: entity.ReferenceTransferencia,
		ReferenceID:   referenceID,
		Notes:         input.Notes,
	}

	// Orden global de bloqueo: por sucursal ascendente (mismo producto)
	ordered := []ApplyMovementInput{out, in}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].BranchID < ordered[j].BranchID })

	result := &TransferResult{ReferenceID: referenceID}
	err = withConflictRetry(ctx, func() error {
		return uc.txRunner.Run(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockLevelRepository,
		) error {
			now := time.Now()
			for _, step := range ordered {
				movement, level, err := uc.engine.applyLocked(ctx, movRepo, stockRepo, step, settings, now)
				if err != nil {
					return err
				}
				if step.BranchID == input.FromBranchID {
					result.MovementOut, result.FromLevel = movement, level
				} else {
					result.MovementIn, result.ToLevel = movement, level
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
