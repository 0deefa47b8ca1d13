package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/inventory"
)

func mov(id, prev, qty, next string) *entity.Movement {
	return &entity.Movement{
		ID:               id,
		ProductID:        "P1",
		BranchID:         "B1",
		PreviousQuantity: d(prev),
		Quantity:         d(qty),
		NewQuantity:      d(next),
	}
}

func TestVerifyChain_Integra(t *testing.T) {
	chain := []*entity.Movement{
		mov("m1", "0", "10", "10"),
		mov("m2", "10", "-3", "7"),
		mov("m3", "7", "5", "12"),
	}
	issues := inventory.VerifyChain(chain)
	assert.Empty(t, issues)
	assert.True(t, inventory.FoldQuantity(chain).Equal(d("12")))
}

func TestVerifyChain_AritmeticaRota(t *testing.T) {
	chain := []*entity.Movement{
		mov("m1", "0", "10", "10"),
		mov("m2", "10", "-3", "8"), // 10-3 != 8
	}
	issues := inventory.VerifyChain(chain)
	require.Len(t, issues, 1)
	assert.Equal(t, "m2", issues[0].MovementID)
}

func TestVerifyChain_EslabonPerdido(t *testing.T) {
	// m2 no encadena con el new_quantity de m1: hay un hueco en el libro
	chain := []*entity.Movement{
		mov("m1", "0", "10", "10"),
		mov("m2", "12", "-3", "9"),
	}
	issues := inventory.VerifyChain(chain)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Detail, "no coincide")
}

func TestVerifyChain_Vacia(t *testing.T) {
	assert.Empty(t, inventory.VerifyChain(nil))
	assert.True(t, inventory.FoldQuantity(nil).IsZero())
}
