package entity

import "time"

// Branch representa una sucursal (bodega) donde se almacena inventario.
// Una sucursal inactiva no admite movimientos nuevos.
type Branch struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
