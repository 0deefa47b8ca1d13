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

func newTransferUC(env *testEnv) *appinv.TransferUseCase {
	return appinv.NewTransferUseCase(env.engine, env.txRunner, env.settings)
}

func TestTransfer_Exitoso(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "P1", "B1", "10", "2.00")

	result, err := newTransferUC(env).Transfer(context.Background(), appinv.TransferInput{
		CompanyID:    testCompanyID,
		UserID:       testUserID,
		ProductID:    "P1",
		FromBranchID: "B1",
		ToBranchID:   "B2",
		Quantity:     d("4"),
		Notes:        "reposición tienda norte",
	})
	require.NoError(t, err)

	// Origen baja exactamente 4, destino sube exactamente 4
	assert.True(t, env.quantity("P1", "B1").Equal(d("6")))
	assert.True(t, env.quantity("P1", "B2").Equal(d("4")))

	// Dos movimientos enlazados por el mismo grupo de referencia
	require.NotNil(t, result.MovementOut)
	require.NotNil(t, result.MovementIn)
	assert.Equal(t, entity.MovementTransferenciaSalida, result.MovementOut.Type)
	assert.Equal(t, entity.MovementTransferenciaEntrada, result.MovementIn.Type)
	assert.Equal(t, result.ReferenceID, result.MovementOut.ReferenceID)
	assert.Equal(t, result.ReferenceID, result.MovementIn.ReferenceID)
	assert.Equal(t, entity.ReferenceTransferencia, result.MovementOut.ReferenceType)
	assert.True(t, result.MovementOut.Quantity.Equal(d("-4")))
	assert.True(t, result.MovementIn.Quantity.Equal(d("4")))
}

func TestTransfer_StockInsuficienteNoMuta(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "P1", "B1", "3", "2.00")

	_, err := newTransferUC(env).Transfer(context.Background(), appinv.TransferInput{
		CompanyID:    testCompanyID,
		UserID:       testUserID,
		ProductID:    "P1",
		FromBranchID: "B1",
		ToBranchID:   "B2",
		Quantity:     d("5"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Todo-o-nada: ambas sucursales quedan como antes
	assert.True(t, env.quantity("P1", "B1").Equal(d("3")))
	assert.True(t, env.quantity("P1", "B2").IsZero())
	assert.Len(t, env.store.movements, 1, "solo la entrada del seed")
}

func TestTransfer_FalloEnSegundaEscrituraRevierteLaPrimera(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "P1", "B1", "10", "2.00")

	// La segunda inserción de movimiento dentro del traslado falla: el débito
	// ya aplicado debe revertirse con la transacción.
	env.store.failCreateAfter = env.store.createCount + 2

	_, err := newTransferUC(env).Transfer(context.Background(), appinv.TransferInput{
		CompanyID:    testCompanyID,
		UserID:       testUserID,
		ProductID:    "P1",
		FromBranchID: "B1",
		ToBranchID:   "B2",
		Quantity:     d("4"),
	})
	require.Error(t, err)

	assert.True(t, env.quantity("P1", "B1").Equal(d("10")), "el débito colgante debe revertirse")
	assert.True(t, env.quantity("P1", "B2").IsZero())
	assert.Len(t, env.store.movements, 1)
}

func TestTransfer_EntradasInvalidas(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "P1", "B1", "10", "2.00")
	uc := newTransferUC(env)

	cases := []struct {
		name   string
		mutate func(*appinv.TransferInput)
	}{
		{"misma sucursal", func(in *appinv.TransferInput) { in.ToBranchID = in.FromBranchID }},
		{"cantidad cero", func(in *appinv.TransferInput) { in.Quantity = d("0") }},
		{"cantidad negativa", func(in *appinv.TransferInput) { in.Quantity = d("-4") }},
		{"sin producto", func(in *appinv.TransferInput) { in.ProductID = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := appinv.TransferInput{
				CompanyID:    testCompanyID,
				UserID:       testUserID,
				ProductID:    "P1",
				FromBranchID: "B1",
				ToBranchID:   "B2",
				Quantity:     d("4"),
			}
			tc.mutate(&in)
			_, err := uc.Transfer(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestTransfer_DestinoInactivoRechazadoAntesDeMutar(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "P1", "B1", "10", "2.00")

	_, err := newTransferUC(env).Transfer(context.Background(), appinv.TransferInput{
		CompanyID:    testCompanyID,
		UserID:       testUserID,
		ProductID:    "P1",
		FromBranchID: "B1",
		ToBranchID:   "B9",
		Quantity:     d("4"),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, env.quantity("P1", "B1").Equal(d("10")))
}

// Traslados cruzados concurrentes (B1→B2 y B2→B1) no deben interbloquearse:
// el orden de bloqueo es determinista por sucursal.
func TestTransfer_CruzadosConcurrentes(t *testing.T) {
	env := newTestEnv(t)
	env.seedStock(t, "P1", "B1", "10", "2.00")
	env.seedStock(t, "P1", "B2", "10", "2.00")
	uc := newTransferUC(env)

	done := make(chan error, 2)
	go func() {
		_, err := uc.Transfer(context.Background(), appinv.TransferInput{
			CompanyID: testCompanyID, UserID: testUserID, ProductID: "P1",
			FromBranchID: "B1", ToBranchID: "B2", Quantity: d("3"),
		})
		done <- err
	}()
	go func() {
		_, err := uc.Transfer(context.Background(), appinv.TransferInput{
			CompanyID: testCompanyID, UserID: testUserID, ProductID: "P1",
			FromBranchID: "B2", ToBranchID: "B1", Quantity: d("5"),
		})
		done <- err
	}()
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	// 10 - 3 + 5 = 12 y 10 + 3 - 5 = 8
	assert.True(t, env.quantity("P1", "B1").Equal(d("12")))
	assert.True(t, env.quantity("P1", "B2").Equal(d("8")))
}
