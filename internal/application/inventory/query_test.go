package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// fakeQueryRepo captura los argumentos de la consulta para verificar que el
// caso de uso propaga el umbral efectivo de la empresa.
type fakeQueryRepo struct {
	lastThreshold decimal.Decimal
	stockItems    []repository.BranchStockItem
	lowItems      []repository.LowStockItem
	summaries     []repository.BranchSummary
}

func (f *fakeQueryRepo) StockByBranch(ctx context.Context, companyID, branchID string) ([]repository.BranchStockItem, error) {
	return f.stockItems, nil
}

func (f *fakeQueryRepo) LowStock(ctx context.Context, companyID string, defaultThreshold decimal.Decimal) ([]repository.LowStockItem, error) {
	f.lastThreshold = defaultThreshold
	return f.lowItems, nil
}

func (f *fakeQueryRepo) SummarizeByBranch(ctx context.Context, companyID string, defaultThreshold decimal.Decimal) ([]repository.BranchSummary, error) {
	f.lastThreshold = defaultThreshold
	return f.summaries, nil
}

func newQueryUC(env *testEnv, qr repository.InventoryQueryRepository) *appinv.QueryUseCase {
	return appinv.NewQueryUseCase(qr, &memBranchRepo{store: env.store}, env.settings)
}

func TestStockByBranch_ValidaSucursal(t *testing.T) {
	env := newTestEnv(t)
	uc := newQueryUC(env, &fakeQueryRepo{})

	_, err := uc.StockByBranch(context.Background(), testCompanyID, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.StockByBranch(context.Background(), testCompanyID, "BX")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.StockByBranch(context.Background(), testCompanyID, "B1")
	assert.NoError(t, err)
}

func TestLowStock_PropagaUmbralDeEmpresa(t *testing.T) {
	env := newTestEnv(t)
	threshold := d("15")
	env.updateSettings(t, appinv.UpdateSettingsInput{LowStockThreshold: &threshold})

	qr := &fakeQueryRepo{lowItems: []repository.LowStockItem{{ProductID: "P1", BranchID: "B1"}}}
	uc := newQueryUC(env, qr)

	items, err := uc.LowStock(context.Background(), testCompanyID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.True(t, qr.lastThreshold.Equal(d("15")), "el umbral por defecto debe venir de la configuración")
}

func TestSummarizeByBranch_PropagaUmbral(t *testing.T) {
	env := newTestEnv(t)
	qr := &fakeQueryRepo{summaries: []repository.BranchSummary{{BranchID: "B1", TotalProducts: 3}}}
	uc := newQueryUC(env, qr)

	summaries, err := uc.SummarizeByBranch(context.Background(), testCompanyID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, qr.lastThreshold.Equal(d("5")), "sin configuración guardada aplica el umbral por defecto")
}

func TestQuery_EntradasVacias(t *testing.T) {
	env := newTestEnv(t)
	uc := newQueryUC(env, &fakeQueryRepo{})

	_, err := uc.StockByBranch(context.Background(), "", "B1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.LowStock(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.SummarizeByBranch(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
