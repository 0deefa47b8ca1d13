package entity

import "time"

// Product representa un producto o SKU del catálogo (multi-sucursal).
// El stock se maneja por sucursal en StockLevel; el costo promedio ponderado
// vive en cada StockLevel y se recalcula desde los movimientos de entrada.
type Product struct {
	ID                 string
	CompanyID          string
	SKU                string // código único por empresa
	Name               string
	Description        string
	IsInventoryTracked bool
	UnitMeasure        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
