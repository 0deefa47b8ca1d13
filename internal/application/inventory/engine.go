package inventory

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Bodega-api/internal/domain/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// Reintentos ante conflicto de concurrencia (deadlock/serialización).
// Agotados los intentos, el ErrConflict se propaga al caller.
const (
	maxConflictAttempts = 3
	retryBackoffBase    = 25 * time.Millisecond
)

// MovementEngine aplica un delta con signo sobre un par (producto, sucursal)
// escribiendo el movimiento y la actualización de stock en una sola
// transacción con bloqueo de fila (SELECT FOR UPDATE). Es el único camino de
// escritura del inventario: transferencias, compras y deducción por factura
// se componen sobre él.
type MovementEngine struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
	settings    SettingsProvider
}

// NewMovementEngine construye el motor de movimientos.
func NewMovementEngine(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	settings SettingsProvider,
) *MovementEngine {
	return &MovementEngine{
		txRunner:    txRunner,
		productRepo: productRepo,
		branchRepo:  branchRepo,
		settings:    settings,
	}
}

// ApplyMovementInput entrada para aplicar un movimiento individual.
// Quantity lleva signo según el tipo: entradas positivas, salidas negativas,
// ajustes cualquier signo distinto de cero.
type ApplyMovementInput struct {
	CompanyID     string
	UserID        string
	ProductID     string
	BranchID      string
	Type          string
	Quantity      decimal.Decimal
	ReferenceType string
	ReferenceID   string
	CostPrice     *decimal.Decimal
	Notes         string
}

func (in ApplyMovementInput) validate() error {
	if in.CompanyID == "" || in.ProductID == "" || in.BranchID == "" {
		return domain.ErrInvalidInput
	}
	if !domaininv.ValidType(in.Type) {
		return domain.ErrInvalidMovementType
	}
	if !domaininv.ValidSign(in.Type, in.Quantity) {
		return domain.ErrInvalidInput
	}
	if in.CostPrice != nil && in.CostPrice.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyMovement valida entrada, producto y sucursal, y ejecuta el movimiento
// en una transacción con reintento acotado ante conflictos. Devuelve el
// movimiento creado y el StockLevel resultante.
//
// Solo acepta entrada, salida y ajuste: las patas de transferencia se crean
// en pares por el coordinador de traslados vía applyLocked y registrarlas
// sueltas dejaría media transferencia en el libro.
func (e *MovementEngine) ApplyMovement(ctx context.Context, input ApplyMovementInput) (*entity.Movement, *entity.StockLevel, error) {
	if err := input.validate(); err != nil {
		return nil, nil, err
	}
	if domaininv.IsTransferType(input.Type) {
		return nil, nil, domain.ErrInvalidMovementType
	}
	if err := e.checkCatalog(ctx, input.CompanyID, input.ProductID, input.BranchID); err != nil {
		return nil, nil, err
	}
	settings, err := e.settings.Effective(ctx, input.CompanyID)
	if err != nil {
		return nil, nil, err
	}

	var (
		movement *entity.Movement
		level    *entity.StockLevel
	)
	err = withConflictRetry(ctx, func() error {
		return e.txRunner.Run(ctx, func(
			movRepo repository.MovementRepository,
			stockRepo repository.StockLevelRepository,
		) error {
			m, l, err := e.applyLocked(ctx, movRepo, stockRepo, input, settings, time.Now())
			if err != nil {
				return err
			}
			movement, level = m, l
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return movement, level, nil
}

// checkCatalog valida existencia, tenencia y estado de producto y sucursal.
// Un producto sin seguimiento de inventario es NotFound a efectos de
// movimientos, igual que una sucursal inactiva.
func (e *MovementEngine) checkCatalog(ctx context.Context, companyID, productID, branchID string) error {
	product, err := e.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if !product.IsInventoryTracked {
		return domain.ErrNotFound
	}
	return e.checkBranch(ctx, companyID, branchID)
}

func (e *MovementEngine) checkBranch(ctx context.Context, companyID, branchID string) error {
	branch, err := e.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.ErrNotFound
	}
	if branch.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if !branch.IsActive {
		return domain.ErrNotFound
	}
	return nil
}

// applyLocked ejecuta los pasos del movimiento sobre repositorios ya atados a
// una transacción: bloquea (o crea en cero) la fila de stock, valida la
// política de stock negativo, recalcula el costo promedio en entradas y
// escribe movimiento + stock en lock-step. Los coordinadores multi-fila
// (transferencia, compra, factura) lo invocan varias veces dentro de una
// misma tx, en orden determinista de bloqueo.
func (e *MovementEngine) applyLocked(
	ctx context.Context,
	movRepo repository.MovementRepository,
	stockRepo repository.StockLevelRepository,
	input ApplyMovementInput,
	settings *entity.InventorySettings,
	now time.Time,
) (*entity.Movement, *entity.StockLevel, error) {
	level, err := stockRepo.GetForUpdate(ctx, input.ProductID, input.BranchID)
	if err != nil {
		return nil, nil, err
	}
	if level.CompanyID == "" {
		// Fila creada perezosamente en el primer movimiento del par
		level.CompanyID = input.CompanyID
	}

	newQty := level.Quantity.Add(input.Quantity)

	if settings.InventoryEnabled && settings.RequireStockValidation &&
		domaininv.ReducesStock(input.Type, input.Quantity) && newQty.LessThan(decimal.Zero) {
		return nil, nil, &domain.StockError{
			ProductID: input.ProductID,
			BranchID:  input.BranchID,
			Requested: input.Quantity.Abs(),
			Available: level.Quantity,
		}
	}

	cost := level.CostPrice
	if input.CostPrice != nil && domaininv.IncreasesStock(input.Type, input.Quantity) {
		cost = domaininv.WeightedAverageCost(level.Quantity, level.CostPrice, input.Quantity, *input.CostPrice)
	}

	movement := &entity.Movement{
		ID:               uuid.New().String(),
		CompanyID:        input.CompanyID,
		ProductID:        input.ProductID,
		BranchID:         input.BranchID,
		Type:             input.Type,
		Quantity:         input.Quantity,
		PreviousQuantity: level.Quantity,
		NewQuantity:      newQty,
		ReferenceType:    input.ReferenceType,
		ReferenceID:      input.ReferenceID,
		CostPrice:        input.CostPrice,
		Notes:            input.Notes,
		MovementDate:     now,
		CreatedAt:        now,
		CreatedBy:        input.UserID,
	}

	level.Quantity = newQty
	level.CostPrice = cost
	level.LastMovementAt = now
	level.UpdatedAt = now

	if err := stockRepo.Upsert(ctx, level); err != nil {
		return nil, nil, err
	}
	if err := movRepo.Create(ctx, movement); err != nil {
		return nil, nil, err
	}
	return movement, level, nil
}

// withConflictRetry reintenta fn ante ErrConflict con backoff con jitter,
// hasta maxConflictAttempts. Cualquier otro error corta de inmediato.
func withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxConflictAttempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
		if attempt == maxConflictAttempts {
			break
		}
		backoff := time.Duration(attempt)*retryBackoffBase + rand.N(retryBackoffBase)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}
