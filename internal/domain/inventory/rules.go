package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// ValidType indica si el tipo de movimiento es uno de los cinco soportados.
func ValidType(movementType string) bool {
	switch movementType {
	case entity.MovementEntrada, entity.MovementSalida, entity.MovementAjuste,
		entity.MovementTransferenciaEntrada, entity.MovementTransferenciaSalida:
		return true
	}
	return false
}

// ValidSign verifica la convención de signos del libro:
// entrada/transferencia_entrada positivas, salida/transferencia_salida
// negativas, ajuste cualquier signo distinto de cero.
func ValidSign(movementType string, quantity decimal.Decimal) bool {
	if quantity.IsZero() {
		return false
	}
	switch movementType {
	case entity.MovementEntrada, entity.MovementTransferenciaEntrada:
		return quantity.GreaterThan(decimal.Zero)
	case entity.MovementSalida, entity.MovementTransferenciaSalida:
		return quantity.LessThan(decimal.Zero)
	case entity.MovementAjuste:
		return true
	}
	return false
}

// IsTransferType indica si el tipo es una pata de transferencia. Estas
// siempre nacen en pares atómicos desde el coordinador de traslados, nunca
// como movimientos sueltos.
func IsTransferType(movementType string) bool {
	return movementType == entity.MovementTransferenciaEntrada ||
		movementType == entity.MovementTransferenciaSalida
}

// ReducesStock indica si el movimiento disminuye la cantidad disponible.
// Los ajustes solo reducen cuando su delta es negativo.
func ReducesStock(movementType string, quantity decimal.Decimal) bool {
	switch movementType {
	case entity.MovementSalida, entity.MovementTransferenciaSalida:
		return true
	case entity.MovementAjuste:
		return quantity.LessThan(decimal.Zero)
	}
	return false
}

// IncreasesStock indica si el movimiento aumenta la cantidad disponible
// (relevante para recalcular el costo promedio ponderado).
func IncreasesStock(movementType string, quantity decimal.Decimal) bool {
	switch movementType {
	case entity.MovementEntrada, entity.MovementTransferenciaEntrada:
		return true
	case entity.MovementAjuste:
		return quantity.GreaterThan(decimal.Zero)
	}
	return false
}
