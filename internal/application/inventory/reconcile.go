package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	domaininv "github.com/jhoicas/Bodega-api/internal/domain/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	"github.com/jhoicas/Bodega-api/pkg/logger"
)

// ReconcileUseCase es el autochequeo autoritativo del invariante del libro:
// recalcula cada StockLevel.quantity como el fold de su cadena de
// movimientos y verifica la integridad del encadenamiento. Corre fuera del
// camino caliente (ticker periódico o bajo demanda); cualquier divergencia
// es una alarma de integridad de datos, nunca se corrige en silencio.
type ReconcileUseCase struct {
	stockRepo repository.StockLevelRepository
	movRepo   repository.MovementRepository
	log       *logger.Logger
}

// NewReconcileUseCase construye el caso de uso de reconciliación.
func NewReconcileUseCase(
	stockRepo repository.StockLevelRepository,
	movRepo repository.MovementRepository,
	log *logger.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{stockRepo: stockRepo, movRepo: movRepo, log: log}
}

// Divergence una discrepancia detectada entre el stock materializado y el
// libro de movimientos de un par (producto, sucursal).
type Divergence struct {
	ProductID      string          `json:"product_id"`
	BranchID       string          `json:"branch_id"`
	StoredQuantity decimal.Decimal `json:"stored_quantity"`
	LedgerQuantity decimal.Decimal `json:"ledger_quantity"`
	ChainIssues    []string        `json:"chain_issues,omitempty"`
}

// Run reconcilia todos los pares de la empresa (companyID vacío = todas las
// empresas). Devuelve las divergencias encontradas; lista vacía = libro sano.
func (uc *ReconcileUseCase) Run(ctx context.Context, companyID string) ([]Divergence, error) {
	levels, err := uc.stockRepo.ListPairs(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var divergences []Divergence
	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chain, err := uc.movRepo.ChainForPair(ctx, level.ProductID, level.BranchID)
		if err != nil {
			return nil, err
		}

		folded := domaininv.FoldQuantity(chain)
		issues := domaininv.VerifyChain(chain)

		diverged := !folded.Equal(level.Quantity)
		if !diverged && len(chain) > 0 {
			diverged = !chain[len(chain)-1].NewQuantity.Equal(level.Quantity)
		}
		if !diverged && len(issues) == 0 {
			continue
		}

		div := Divergence{
			ProductID:      level.ProductID,
			BranchID:       level.BranchID,
			StoredQuantity: level.Quantity,
			LedgerQuantity: folded,
		}
		for _, issue := range issues {
			div.ChainIssues = append(div.ChainIssues, issue.String())
		}
		divergences = append(divergences, div)

		uc.log.Error().
			Str("product_id", level.ProductID).
			Str("branch_id", level.BranchID).
			Str("stored", level.Quantity.String()).
			Str("ledger", folded.String()).
			Int("chain_issues", len(issues)).
			Msg("divergencia entre stock y libro de movimientos")
	}
	return divergences, nil
}

// RunForPair reconcilia un solo par; útil para verificación puntual tras un
// incidente.
func (uc *ReconcileUseCase) RunForPair(ctx context.Context, productID, branchID string) (*Divergence, error) {
	if productID == "" || branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	level, err := uc.stockRepo.Get(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	chain, err := uc.movRepo.ChainForPair(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	folded := domaininv.FoldQuantity(chain)
	issues := domaininv.VerifyChain(chain)
	if folded.Equal(level.Quantity) && len(issues) == 0 {
		return nil, nil
	}
	div := &Divergence{
		ProductID:      productID,
		BranchID:       branchID,
		StoredQuantity: level.Quantity,
		LedgerQuantity: folded,
	}
	for _, issue := range issues {
		div.ChainIssues = append(div.ChainIssues, issue.String())
	}
	return div, nil
}
