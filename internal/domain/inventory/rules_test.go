package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/inventory"
)

func TestValidSign(t *testing.T) {
	cases := []struct {
		name     string
		tipo     string
		quantity string
		want     bool
	}{
		{"entrada positiva", entity.MovementEntrada, "5", true},
		{"entrada negativa", entity.MovementEntrada, "-5", false},
		{"salida negativa", entity.MovementSalida, "-3", true},
		{"salida positiva", entity.MovementSalida, "3", false},
		{"transferencia entrada positiva", entity.MovementTransferenciaEntrada, "4", true},
		{"transferencia salida negativa", entity.MovementTransferenciaSalida, "-4", true},
		{"ajuste positivo", entity.MovementAjuste, "2", true},
		{"ajuste negativo", entity.MovementAjuste, "-2", true},
		{"ajuste cero", entity.MovementAjuste, "0", false},
		{"tipo desconocido", "reconteo", "1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.ValidSign(tc.tipo, d(tc.quantity)))
		})
	}
}

func TestReducesStock(t *testing.T) {
	assert.True(t, inventory.ReducesStock(entity.MovementSalida, d("-1")))
	assert.True(t, inventory.ReducesStock(entity.MovementTransferenciaSalida, d("-1")))
	assert.True(t, inventory.ReducesStock(entity.MovementAjuste, d("-1")))
	assert.False(t, inventory.ReducesStock(entity.MovementAjuste, d("1")))
	assert.False(t, inventory.ReducesStock(entity.MovementEntrada, d("1")))
}

func TestValidType(t *testing.T) {
	assert.True(t, inventory.ValidType(entity.MovementEntrada))
	assert.True(t, inventory.ValidType(entity.MovementTransferenciaSalida))
	assert.False(t, inventory.ValidType(""))
	assert.False(t, inventory.ValidType("ENTRADA"))
}
