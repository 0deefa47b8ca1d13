package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// SettingsUseCase administra la configuración de inventario por empresa.
// Las lecturas pasan por un caché en memoria con TTL corto: la configuración
// es read-mostly y su staleness solo afecta la validación advisoria.
type SettingsUseCase struct {
	repo repository.SettingsRepository
	ttl  time.Duration

	mu    sync.RWMutex
	cache map[string]cachedSettings
}

type cachedSettings struct {
	settings  *entity.InventorySettings
	expiresAt time.Time
}

var _ SettingsProvider = (*SettingsUseCase)(nil)

// NewSettingsUseCase construye el caso de uso. ttl <= 0 desactiva el caché.
func NewSettingsUseCase(repo repository.SettingsRepository, ttl time.Duration) *SettingsUseCase {
	return &SettingsUseCase{
		repo:  repo,
		ttl:   ttl,
		cache: make(map[string]cachedSettings),
	}
}

// Effective devuelve la configuración de la empresa, o la configuración por
// defecto si aún no guardó ninguna.
func (uc *SettingsUseCase) Effective(ctx context.Context, companyID string) (*entity.InventorySettings, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.ttl > 0 {
		uc.mu.RLock()
		entry, ok := uc.cache[companyID]
		uc.mu.RUnlock()
		if ok && time.Now().Before(entry.expiresAt) {
			return entry.settings, nil
		}
	}

	settings, err := uc.repo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = entity.DefaultInventorySettings(companyID)
	}
	uc.store(companyID, settings)
	return settings, nil
}

// UpdateSettingsInput campos modificables; nil = conservar valor actual.
type UpdateSettingsInput struct {
	InventoryEnabled       *bool
	LowStockThreshold      *decimal.Decimal
	AutoDeductOnInvoice    *bool
	RequireStockValidation *bool
}

// Update aplica cambios last-write-wins con chequeo de rango por campo.
func (uc *SettingsUseCase) Update(ctx context.Context, companyID string, in UpdateSettingsInput) (*entity.InventorySettings, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.LowStockThreshold != nil && in.LowStockThreshold.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	settings, err := uc.repo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = entity.DefaultInventorySettings(companyID)
	}
	if in.InventoryEnabled != nil {
		settings.InventoryEnabled = *in.InventoryEnabled
	}
	if in.LowStockThreshold != nil {
		settings.LowStockThreshold = *in.LowStockThreshold
	}
	if in.AutoDeductOnInvoice != nil {
		settings.AutoDeductOnInvoice = *in.AutoDeductOnInvoice
	}
	if in.RequireStockValidation != nil {
		settings.RequireStockValidation = *in.RequireStockValidation
	}
	settings.UpdatedAt = time.Now()

	if err := uc.repo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	uc.store(companyID, settings)
	return settings, nil
}

func (uc *SettingsUseCase) store(companyID string, settings *entity.InventorySettings) {
	if uc.ttl <= 0 {
		return
	}
	uc.mu.Lock()
	uc.cache[companyID] = cachedSettings{settings: settings, expiresAt: time.Now().Add(uc.ttl)}
	uc.mu.Unlock()
}
