package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implementación de SettingsRepository sobre PostgreSQL.
// Una fila por empresa, last-write-wins.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador de configuración.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devuelve la configuración de la empresa, o nil si aún no guardó nada
// (el caso de uso aplica los valores por defecto).
func (r *SettingsRepo) Get(ctx context.Context, companyID string) (*entity.InventorySettings, error) {
	query := `
		SELECT company_id, inventory_enabled, low_stock_threshold, auto_deduct_on_invoice, require_stock_validation, updated_at
		FROM inventory_settings WHERE company_id = $1`
	var s entity.InventorySettings
	err := r.q.QueryRow(ctx, query, companyID).Scan(
		&s.CompanyID, &s.InventoryEnabled, &s.LowStockThreshold,
		&s.AutoDeductOnInvoice, &s.RequireStockValidation, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory settings: %w", err)
	}
	return &s, nil
}

// Upsert guarda la configuración completa de la empresa.
func (r *SettingsRepo) Upsert(ctx context.Context, settings *entity.InventorySettings) error {
	query := `
		INSERT INTO inventory_settings (company_id, inventory_enabled, low_stock_threshold, auto_deduct_on_invoice, require_stock_validation, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (company_id)
		DO UPDATE SET inventory_enabled = EXCLUDED.inventory_enabled,
		              low_stock_threshold = EXCLUDED.low_stock_threshold,
		              auto_deduct_on_invoice = EXCLUDED.auto_deduct_on_invoice,
		              require_stock_validation = EXCLUDED.require_stock_validation,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		settings.CompanyID, settings.InventoryEnabled, settings.LowStockThreshold,
		settings.AutoDeductOnInvoice, settings.RequireStockValidation,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory settings: %w", err)
	}
	return nil
}
