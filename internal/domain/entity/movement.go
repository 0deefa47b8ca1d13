package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementEntrada              = "entrada"
	MovementSalida               = "salida"
	MovementAjuste               = "ajuste"
	MovementTransferenciaEntrada = "transferencia_entrada"
	MovementTransferenciaSalida  = "transferencia_salida"
)

// Tipos de referencia que agrupan movimientos con su documento origen.
const (
	ReferenceCompra        = "compra"
	ReferenceAjuste        = "ajuste"
	ReferenceTransferencia = "transferencia"
	ReferenceFactura       = "factura"
)

// Movement es un registro inmutable del libro de movimientos (append-only).
// Invariante: NewQuantity = PreviousQuantity + Quantity, y PreviousQuantity
// coincide con el NewQuantity del movimiento inmediatamente anterior para el
// mismo par (producto, sucursal). Las correcciones se hacen con movimientos
// de ajuste compensatorios, nunca editando filas existentes.
type Movement struct {
	ID               string
	CompanyID        string
	ProductID        string
	BranchID         string
	Type             string
	Quantity         decimal.Decimal // con signo: entradas positivas, salidas negativas
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	ReferenceType    string // compra, ajuste, transferencia, factura; vacío = movimiento manual
	ReferenceID      string // agrupa las líneas de una compra/transferencia/factura
	CostPrice        *decimal.Decimal
	Notes            string
	MovementDate     time.Time
	CreatedAt        time.Time
	CreatedBy        string // UserID
}
