package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// ChainIssue describe una ruptura detectada en la cadena de movimientos
// de un par (producto, sucursal).
type ChainIssue struct {
	ProductID  string
	BranchID   string
	MovementID string
	Detail     string
}

func (i ChainIssue) String() string {
	return fmt.Sprintf("producto %s sucursal %s movimiento %s: %s",
		i.ProductID, i.BranchID, i.MovementID, i.Detail)
}

// VerifyChain valida la integridad del libro para un par (producto, sucursal):
// cada movimiento debe cumplir new = previous + quantity, y el previous de
// cada movimiento debe coincidir con el new del anterior. Los movimientos
// deben venir ordenados por secuencia ascendente.
func VerifyChain(movements []*entity.Movement) []ChainIssue {
	var issues []ChainIssue
	for i, m := range movements {
		if !m.NewQuantity.Equal(m.PreviousQuantity.Add(m.Quantity)) {
			issues = append(issues, ChainIssue{
				ProductID:  m.ProductID,
				BranchID:   m.BranchID,
				MovementID: m.ID,
				Detail: fmt.Sprintf("new_quantity %s != previous %s + delta %s",
					m.NewQuantity, m.PreviousQuantity, m.Quantity),
			})
		}
		if i == 0 {
			continue
		}
		prev := movements[i-1]
		if !m.PreviousQuantity.Equal(prev.NewQuantity) {
			issues = append(issues, ChainIssue{
				ProductID:  m.ProductID,
				BranchID:   m.BranchID,
				MovementID: m.ID,
				Detail: fmt.Sprintf("previous_quantity %s no coincide con new_quantity %s del movimiento %s",
					m.PreviousQuantity, prev.NewQuantity, prev.ID),
			})
		}
	}
	return issues
}

// FoldQuantity suma los deltas de la cadena; es la cantidad que debería
// tener el StockLevel del par si el libro y el stock no han divergido.
func FoldQuantity(movements []*entity.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Quantity)
	}
	return total
}
