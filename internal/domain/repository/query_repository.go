package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// BranchStockItem es una fila de StockLevel enriquecida con metadatos del
// producto para los reportes por sucursal.
type BranchStockItem struct {
	Level       entity.StockLevel
	SKU         string
	ProductName string
	UnitMeasure string
}

// LowStockItem es un par (producto, sucursal) cuyo stock actual está en o
// por debajo de su umbral efectivo.
type LowStockItem struct {
	ProductID    string
	SKU          string
	ProductName  string
	BranchID     string
	BranchName   string
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal // umbral efectivo: min_stock o el default de la empresa
}

// BranchSummary agrega los StockLevel de una sucursal.
type BranchSummary struct {
	BranchID      string
	BranchName    string
	TotalProducts int64
	TotalQuantity decimal.Decimal
	LowStockCount int64
}

// InventoryQueryRepository es el puerto de solo lectura del reporte de
// inventario. Nunca muta: lee las filas materializadas de stock, no
// reproduce el libro.
type InventoryQueryRepository interface {
	StockByBranch(ctx context.Context, companyID, branchID string) ([]BranchStockItem, error)
	LowStock(ctx context.Context, companyID string, defaultThreshold decimal.Decimal) ([]LowStockItem, error)
	SummarizeByBranch(ctx context.Context, companyID string, defaultThreshold decimal.Decimal) ([]BranchSummary, error)
}
