package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/Bodega-api/internal/application/inventory"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

func newPurchaseUC(env *testEnv) *appinv.PurchaseUseCase {
	return appinv.NewPurchaseUseCase(env.engine, env.txRunner, env.settings)
}

func TestRegisterPurchase_Exitosa(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "P1", "B1", "10", "2.00")

	result, err := newPurchaseUC(env).RegisterPurchase(context.Background(), appinv.PurchaseInput{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		BranchID:  "B1",
		Lines: []appinv.PurchaseLine{
			{ProductID: "P2", Quantity: d("3"), CostPrice: d("1.50")},
			{ProductID: "P1", Quantity: d("10"), CostPrice: d("4.00")},
		},
		Notes: "recepción proveedor",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.MovementsCreated)
	// Σ qty*cost = 3*1.50 + 10*4.00 = 44.50
	assert.True(t, result.TotalCost.Equal(d("44.50")), "total esperado 44.50, obtenido %s", result.TotalCost)

	// Todas las líneas comparten grupo compra
	for _, m := range result.Movements {
		assert.Equal(t, entity.MovementEntrada, m.Type)
		assert.Equal(t, entity.ReferenceCompra, m.ReferenceType)
		assert.Equal(t, result.ReferenceID, m.ReferenceID)
	}

	// Bloqueo determinista: los movimientos se aplican por producto ascendente
	require.Len(t, result.Movements, 2)
	assert.Equal(t, "P1", result.Movements[0].ProductID)
	assert.Equal(t, "P2", result.Movements[1].ProductID)

	// Costo promedio ponderado de P1: (10*2 + 10*4) / 20 = 3.00
	level := env.store.stock[pairKey("P1", "B1")]
	assert.True(t, level.CostPrice.Equal(d("3.00")))
	assert.True(t, level.Quantity.Equal(d("20")))
}

func TestRegisterPurchase_LineaInvalidaRechazaTodo(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "P1", "B1", "10", "2.00")

	// Una cantidad negativa invalida la compra completa antes de tocar
	// almacenamiento: tampoco se aplica la línea válida de P1.
	_, err := newPurchaseUC(env).RegisterPurchase(context.Background(), appinv.PurchaseInput{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		BranchID:  "B1",
		Lines: []appinv.PurchaseLine{
			{ProductID: "P1", Quantity: d("5"), CostPrice: d("2.00")},
			{ProductID: "P2", Quantity: d("-1"), CostPrice: d("1.00")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.True(t, env.quantity("P1", "B1").Equal(d("10")))
	assert.True(t, env.quantity("P2", "B1").IsZero())
	assert.Len(t, env.store.movements, 1, "solo la entrada del seed")
}

func TestRegisterPurchase_ProductoDesconocidoRevierteLote(t *testing.T) {
	env := newTestEnv(t)

	_, err := newPurchaseUC(env).RegisterPurchase(context.Background(), appinv.PurchaseInput{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		BranchID:  "B1",
		Lines: []appinv.PurchaseLine{
			{ProductID: "P1", Quantity: d("5"), CostPrice: d("2.00")},
			{ProductID: "NOPE", Quantity: d("2"), CostPrice: d("1.00")},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, env.store.movements)
	assert.True(t, env.quantity("P1", "B1").IsZero())
}

func TestRegisterPurchase_Validaciones(t *testing.T) {
	env := newTestEnv(t)
	uc := newPurchaseUC(env)

	cases := []struct {
		name  string
		input appinv.PurchaseInput
	}{
		{"sin sucursal", appinv.PurchaseInput{
			CompanyID: testCompanyID, UserID: testUserID,
			Lines: []appinv.PurchaseLine{{ProductID: "P1", Quantity: d("1"), CostPrice: d("1")}},
		}},
		{"sin líneas", appinv.PurchaseInput{
			CompanyID: testCompanyID, UserID: testUserID, BranchID: "B1",
		}},
		{"costo negativo", appinv.PurchaseInput{
			CompanyID: testCompanyID, UserID: testUserID, BranchID: "B1",
			Lines: []appinv.PurchaseLine{{ProductID: "P1", Quantity: d("1"), CostPrice: d("-0.01")}},
		}},
		{"línea sin producto", appinv.PurchaseInput{
			CompanyID: testCompanyID, UserID: testUserID, BranchID: "B1",
			Lines: []appinv.PurchaseLine{{Quantity: d("1"), CostPrice: d("1")}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterPurchase(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, env.store.movements)
		})
	}
}

func TestRegisterPurchase_CostoCeroPermitido(t *testing.T) {
	env := newTestEnv(t)

	// Muestras gratis o bonificaciones: costo 0 es válido
	result, err := newPurchaseUC(env).RegisterPurchase(context.Background(), appinv.PurchaseInput{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		BranchID:  "B1",
		Lines: []appinv.PurchaseLine{
			{ProductID: "P1", Quantity: d("5"), CostPrice: d("0")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.MovementsCreated)
	assert.True(t, result.TotalCost.IsZero())
}
