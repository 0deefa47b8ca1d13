package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity lleva signo según el tipo: entradas positivas, salidas negativas,
// ajustes cualquier signo distinto de cero.
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	BranchID  string           `json:"branch_id" validate:"required"`
	Type      string           `json:"type" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	CostPrice *decimal.Decimal `json:"cost_price,omitempty"`
	Notes     string           `json:"notes"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID    string          `json:"product_id" validate:"required"`
	FromBranchID string          `json:"from_branch_id" validate:"required"`
	ToBranchID   string          `json:"to_branch_id" validate:"required,nefield=FromBranchID"`
	Quantity     decimal.Decimal `json:"quantity"`
	Notes        string          `json:"notes"`
}

// PurchaseLineRequest una línea de compra.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

// RegisterPurchaseRequest body para POST /api/inventory/purchases.
type RegisterPurchaseRequest struct {
	BranchID string                `json:"branch_id" validate:"required"`
	Lines    []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
	Notes    string                `json:"notes"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	BranchID         string           `json:"branch_id"`
	Type             string           `json:"type"`
	Quantity         decimal.Decimal  `json:"quantity"`
	PreviousQuantity decimal.Decimal  `json:"previous_quantity"`
	NewQuantity      decimal.Decimal  `json:"new_quantity"`
	ReferenceType    string           `json:"reference_type,omitempty"`
	ReferenceID      string           `json:"reference_id,omitempty"`
	CostPrice        *decimal.Decimal `json:"cost_price,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	MovementDate     time.Time        `json:"movement_date"`
}

// StockLevelResponse salida de una fila de stock con metadatos de producto.
type StockLevelResponse struct {
	ProductID      string           `json:"product_id"`
	SKU            string           `json:"sku,omitempty"`
	ProductName    string           `json:"product_name,omitempty"`
	BranchID       string           `json:"branch_id"`
	Quantity       decimal.Decimal  `json:"quantity"`
	MinStock       *decimal.Decimal `json:"min_stock,omitempty"`
	MaxStock       *decimal.Decimal `json:"max_stock,omitempty"`
	CostPrice      decimal.Decimal  `json:"cost_price"`
	UnitMeasure    string           `json:"unit_measure,omitempty"`
	LastMovementAt time.Time        `json:"last_movement_at"`
}

// TransferResponse salida de un traslado exitoso.
type TransferResponse struct {
	ReferenceID string           `json:"reference_id"`
	MovementOut MovementResponse `json:"movement_out"`
	MovementIn  MovementResponse `json:"movement_in"`
}

// PurchaseResponse salida de una compra registrada.
type PurchaseResponse struct {
	ReferenceID      string          `json:"reference_id"`
	MovementsCreated int             `json:"movements_created"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

// LowStockItemResponse un par (producto, sucursal) en quiebre.
type LowStockItemResponse struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	BranchID     string          `json:"branch_id"`
	BranchName   string          `json:"branch_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
}

// BranchSummaryResponse agregado de inventario por sucursal.
type BranchSummaryResponse struct {
	BranchID      string          `json:"branch_id"`
	BranchName    string          `json:"branch_name"`
	TotalProducts int64           `json:"total_products"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	LowStockCount int64           `json:"low_stock_count"`
}

// UpdateThresholdsRequest body para PUT /api/inventory/stock/thresholds.
// min_stock o max_stock en null limpian el umbral.
type UpdateThresholdsRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	BranchID  string           `json:"branch_id" validate:"required"`
	MinStock  *decimal.Decimal `json:"min_stock"`
	MaxStock  *decimal.Decimal `json:"max_stock"`
}

// UpdateSettingsRequest body para PUT /api/inventory/settings.
type UpdateSettingsRequest struct {
	InventoryEnabled       *bool            `json:"inventory_enabled"`
	LowStockThreshold      *decimal.Decimal `json:"low_stock_threshold"`
	AutoDeductOnInvoice    *bool            `json:"auto_deduct_on_invoice"`
	RequireStockValidation *bool            `json:"require_stock_validation"`
}

// SettingsResponse configuración de inventario de la empresa.
type SettingsResponse struct {
	CompanyID              string          `json:"company_id"`
	InventoryEnabled       bool            `json:"inventory_enabled"`
	LowStockThreshold      decimal.Decimal `json:"low_stock_threshold"`
	AutoDeductOnInvoice    bool            `json:"auto_deduct_on_invoice"`
	RequireStockValidation bool            `json:"require_stock_validation"`
}
