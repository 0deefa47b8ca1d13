package dto

import (
	"time"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU                string `json:"sku" validate:"required,min=1,max=100"`
	Name               string `json:"name" validate:"required,min=1,max=200"`
	Description        string `json:"description"`
	IsInventoryTracked bool   `json:"is_inventory_tracked"`
	UnitMeasure        string `json:"unit_measure" validate:"omitempty,max=20"` // vacío = "und"
}

// UpdateProductRequest entrada para actualizar un producto. El flag de
// seguimiento tiene su propia operación por la regla on->off.
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	UnitMeasure *string `json:"unit_measure" validate:"omitempty,min=1"`
}

// SetTrackedRequest entrada para cambiar el flag de seguimiento de inventario.
type SetTrackedRequest struct {
	Tracked bool `json:"tracked"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                 string    `json:"id"`
	CompanyID          string    `json:"company_id"`
	SKU                string    `json:"sku"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	IsInventoryTracked bool      `json:"is_inventory_tracked"`
	UnitMeasure        string    `json:"unit_measure"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
