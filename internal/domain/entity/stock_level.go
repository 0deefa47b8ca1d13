package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel representa el stock actual de un producto en una sucursal.
// Fila única por (product_id, branch_id), creada de forma perezosa en el
// primer movimiento. Quantity nunca se asigna directamente: siempre se
// deriva de la cadena de movimientos dentro de la misma transacción.
type StockLevel struct {
	ProductID      string
	BranchID       string
	CompanyID      string
	Quantity       decimal.Decimal
	MinStock       *decimal.Decimal // nil = usar umbral por defecto de la empresa
	MaxStock       *decimal.Decimal
	CostPrice      decimal.Decimal // costo promedio ponderado
	LastMovementAt time.Time
	UpdatedAt      time.Time
}
