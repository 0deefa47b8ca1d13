package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidMovementType = errors.New("tipo de movimiento inválido")
	ErrInventoryDisabled   = errors.New("inventario deshabilitado para la empresa")
)

// StockError detalla un rechazo por stock insuficiente: qué producto, en qué
// sucursal, cuánto se pidió y cuánto hay. Envuelve ErrInsufficientStock para
// que errors.Is siga funcionando en los handlers.
type StockError struct {
	ProductID string
	BranchID  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente: producto %s en sucursal %s (solicitado %s, disponible %s)",
		e.ProductID, e.BranchID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
