package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySettings configura el módulo de inventario de una empresa.
// Una fila por empresa; escrituras last-write-wins.
type InventorySettings struct {
	CompanyID              string
	InventoryEnabled       bool
	LowStockThreshold      decimal.Decimal // umbral por defecto cuando StockLevel.MinStock es nil
	AutoDeductOnInvoice    bool
	RequireStockValidation bool
	UpdatedAt              time.Time
}

// DefaultInventorySettings devuelve la configuración inicial para una empresa
// que aún no ha guardado ajustes de inventario.
func DefaultInventorySettings(companyID string) *InventorySettings {
	return &InventorySettings{
		CompanyID:              companyID,
		InventoryEnabled:       true,
		LowStockThreshold:      decimal.NewFromInt(5),
		AutoDeductOnInvoice:    true,
		RequireStockValidation: true,
	}
}
