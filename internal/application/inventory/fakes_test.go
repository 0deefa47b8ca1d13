package inventory_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso de inventario.
//
// memTxRunner imita la semántica transaccional de PostgreSQL que asumen los
// casos de uso: serializa las transacciones (equivalente grueso del bloqueo
// de fila) y restaura un snapshot ante error, de modo que los tests de
// atomicidad ejercitan rollbacks reales y no un stub permisivo.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	stock     map[string]*entity.StockLevel
	movements []*entity.Movement
	products  map[string]*entity.Product
	branches  map[string]*entity.Branch
	settings  map[string]*entity.InventorySettings

	// inyección de fallos
	conflictsToInject int // ErrConflict antes de abrir la tx
	failCreateAfter   int // n>0: la n-ésima inserción de movimiento falla
	createCount       int
}

func newMemStore() *memStore {
	return &memStore{
		stock:    make(map[string]*entity.StockLevel),
		products: make(map[string]*entity.Product),
		branches: make(map[string]*entity.Branch),
		settings: make(map[string]*entity.InventorySettings),
	}
}

func pairKey(productID, branchID string) string { return productID + "|" + branchID }

func copyLevel(l *entity.StockLevel) *entity.StockLevel {
	c := *l
	if l.MinStock != nil {
		v := *l.MinStock
		c.MinStock = &v
	}
	if l.MaxStock != nil {
		v := *l.MaxStock
		c.MaxStock = &v
	}
	return &c
}

func copyMovement(m *entity.Movement) *entity.Movement {
	c := *m
	if m.CostPrice != nil {
		v := *m.CostPrice
		c.CostPrice = &v
	}
	return &c
}

// snapshot/restore del estado mutable (stock + movimientos)
func (s *memStore) snapshot() (map[string]*entity.StockLevel, []*entity.Movement) {
	stock := make(map[string]*entity.StockLevel, len(s.stock))
	for k, v := range s.stock {
		stock[k] = copyLevel(v)
	}
	movements := make([]*entity.Movement, len(s.movements))
	copy(movements, s.movements)
	return stock, movements
}

type memTxRunner struct {
	store *memStore
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockLevelRepository,
) error) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflictsToInject > 0 {
		s.conflictsToInject--
		return domain.ErrConflict
	}

	stockSnap, movSnap := s.snapshot()
	err := fn(&memMovementRepo{store: s, inTx: true}, &memStockRepo{store: s, inTx: true})
	if err != nil {
		s.stock = stockSnap
		s.movements = movSnap
		return err
	}
	return nil
}

// ─── StockLevelRepository ────────────────────────────────────────────────────

type memStockRepo struct {
	store *memStore
	inTx  bool
}

func (r *memStockRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memStockRepo) Get(ctx context.Context, productID, branchID string) (*entity.StockLevel, error) {
	defer r.lock()()
	if l, ok := r.store.stock[pairKey(productID, branchID)]; ok {
		return copyLevel(l), nil
	}
	return &entity.StockLevel{ProductID: productID, BranchID: branchID, Quantity: decimal.Zero, CostPrice: decimal.Zero}, nil
}

func (r *memStockRepo) GetForUpdate(ctx context.Context, productID, branchID string) (*entity.StockLevel, error) {
	return r.Get(ctx, productID, branchID)
}

func (r *memStockRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	defer r.lock()()
	r.store.stock[pairKey(level.ProductID, level.BranchID)] = copyLevel(level)
	return nil
}

func (r *memStockRepo) UpdateThresholds(ctx context.Context, level *entity.StockLevel) error {
	defer r.lock()()
	existing, ok := r.store.stock[pairKey(level.ProductID, level.BranchID)]
	if !ok {
		return domain.ErrNotFound
	}
	existing.MinStock = level.MinStock
	existing.MaxStock = level.MaxStock
	return nil
}

func (r *memStockRepo) AnyNonZeroByProduct(ctx context.Context, productID string) (bool, error) {
	defer r.lock()()
	for _, l := range r.store.stock {
		if l.ProductID == productID && !l.Quantity.IsZero() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStockRepo) ListPairs(ctx context.Context, companyID string) ([]*entity.StockLevel, error) {
	defer r.lock()()
	var out []*entity.StockLevel
	for _, l := range r.store.stock {
		if companyID == "" || l.CompanyID == companyID {
			out = append(out, copyLevel(l))
		}
	}
	return out, nil
}

// ─── MovementRepository ──────────────────────────────────────────────────────

type memMovementRepo struct {
	store *memStore
	inTx  bool
}

func (r *memMovementRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memMovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	defer r.lock()()
	r.store.createCount++
	if r.store.failCreateAfter > 0 && r.store.createCount >= r.store.failCreateAfter {
		return domain.ErrConflict
	}
	r.store.movements = append(r.store.movements, copyMovement(movement))
	return nil
}

func (r *memMovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	defer r.lock()()
	for _, m := range r.store.movements {
		if m.ID == id {
			return copyMovement(m), nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByBranch(ctx context.Context, branchID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	defer r.lock()()
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if m.BranchID == branchID {
			out = append(out, copyMovement(m))
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	defer r.lock()()
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			out = append(out, copyMovement(m))
		}
	}
	return out, nil
}

func (r *memMovementRepo) ChainForPair(ctx context.Context, productID, branchID string) ([]*entity.Movement, error) {
	defer r.lock()()
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if m.ProductID == productID && m.BranchID == branchID {
			out = append(out, copyMovement(m))
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.Movement, error) {
	defer r.lock()()
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if m.ReferenceType == referenceType && m.ReferenceID == referenceID {
			out = append(out, copyMovement(m))
		}
	}
	return out, nil
}

// ─── ProductRepository ───────────────────────────────────────────────────────

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.products[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *memProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.CompanyID == companyID && strings.EqualFold(p.SKU, sku) {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.Create(ctx, p)
}

func (r *memProductRepo) SetInventoryTracked(ctx context.Context, productID string, tracked bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsInventoryTracked = tracked
	return nil
}

func (r *memProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.CompanyID == companyID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

// ─── BranchRepository ────────────────────────────────────────────────────────

type memBranchRepo struct{ store *memStore }

func (r *memBranchRepo) Create(ctx context.Context, b *entity.Branch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.branches[b.ID] = b
	return nil
}

func (r *memBranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if b, ok := r.store.branches[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, nil
}

func (r *memBranchRepo) Update(ctx context.Context, b *entity.Branch) error {
	return r.Create(ctx, b)
}

func (r *memBranchRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Branch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Branch
	for _, b := range r.store.branches {
		if b.CompanyID == companyID {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

// ─── SettingsRepository ──────────────────────────────────────────────────────

type memSettingsRepo struct{ store *memStore }

func (r *memSettingsRepo) Get(ctx context.Context, companyID string) (*entity.InventorySettings, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if s, ok := r.store.settings[companyID]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *memSettingsRepo) Upsert(ctx context.Context, settings *entity.InventorySettings) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *settings
	r.store.settings[settings.CompanyID] = &c
	return nil
}
