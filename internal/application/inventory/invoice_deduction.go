package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// InvoiceDeductionUseCase es la superficie de integración con la facturación:
// al finalizar una factura descuenta stock (una salida por línea con
// seguimiento) y al anularla emite las entradas compensatorias. Las líneas de
// una misma factura se aplican en una sola transacción.
type InvoiceDeductionUseCase struct {
	engine      *MovementEngine
	txRunner    TxRunner
	productRepo repository.ProductRepository
	settings    SettingsProvider
}

// NewInvoiceDeductionUseCase construye el caso de uso.
func NewInvoiceDeductionUseCase(
	engine *MovementEngine,
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	settings SettingsProvider,
) *InvoiceDeductionUseCase {
	return &InvoiceDeductionUseCase{
		engine:      engine,
		txRunner:    txRunner,
		productRepo: productRepo,
		settings:    settings,
	}
}

// InvoiceLine una línea de factura a descontar.
type InvoiceLine struct {
	ProductID string
	Quantity  decimal.Decimal // siempre positiva
}

// DeductForInvoice aplica una salida por cada línea con producto rastreado,
// todas con reference_type factura y el ID de la factura como grupo. Si
// auto_deduct_on_invoice está apagado no hace nada. Los productos sin
// seguimiento se omiten: la factura puede mezclar bienes y servicios.
func (uc *InvoiceDeductionUseCase) DeductForInvoice(
	ctx context.Context,
	companyID, userID, branchID, invoiceID string,
	lines []InvoiceLine,
) ([]*entity.Movement, error) {
	settings, err := uc.settings.Effective(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !settings.AutoDeductOnInvoice {
		return nil, nil
	}
	return uc.applyInvoiceMovements(ctx, companyID, userID, branchID, invoiceID, lines, settings, false)
}

// CompensateInvoice revierte la deducción de una factura anulada emitiendo
// la entrada equivalente por cada línea, referenciando la misma factura.
// No consulta auto_deduct_on_invoice: ese flag gobierna solo la deducción.
// Si estaba encendido al facturar y se apaga antes de anular, la reversa
// igual debe devolver el stock descontado.
func (uc *InvoiceDeductionUseCase) CompensateInvoice(
	ctx context.Context,
	companyID, userID, branchID, invoiceID string,
	lines []InvoiceLine,
) ([]*entity.Movement, error) {
	settings, err := uc.settings.Effective(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.applyInvoiceMovements(ctx, companyID, userID, branchID, invoiceID, lines, settings, true)
}

func (uc *InvoiceDeductionUseCase) applyInvoiceMovements(
	ctx context.Context,
	companyID, userID, branchID, invoiceID string,
	lines []InvoiceLine,
	settings *entity.InventorySettings,
	reverse bool,
) ([]*entity.Movement, error) {
	if companyID == "" || branchID == "" || invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range lines {
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Solo las líneas con producto rastreado tocan inventario
	var tracked []InvoiceLine
	for _, line := range lines {
		product, err := uc.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		if product.IsInventoryTracked {
			tracked = append(tracked, line)
		}
	}
	if len(tracked) == 0 {
		return nil, nil
	}
	if err := uc.engine.checkBranch(ctx, companyID, branchID); err != nil {
		return nil, err
	}

	sort.Slice(tracked, func(i, j int) bool { return tracked[i].ProductID < tracked[j].ProductID })

	movementType := entity.MovementSalida
	if reverse {
		movementType = entity.MovementEntrada
	}

	var movements []*entity.Movement
	err := withConflictRetry(ctx, func() error {
		movements = movements[:0]
		return uc.txRunner.Run(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockLevelRepository,
		) error {
			now := time.Now()
			for _, line := range tracked {
				quantity := line.Quantity.Neg()
				if reverse {
					quantity = line.Quantity
				}
				movement, _, err := uc.engine.applyLocked(ctx, movRepo, stockRepo, ApplyMovementInput{
					CompanyID:     companyID,
					UserID:        userID,
					ProductID:     line.ProductID,
					BranchID:      branchID,
					Type:          movementType,
					Quantity:      quantity,
					ReferenceType: entity.ReferenceFactura,
					ReferenceID:   invoiceID,
				}, settings, now)
				if err != nil {
					return err
				}
				movements = append(movements, movement)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}
