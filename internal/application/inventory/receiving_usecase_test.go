package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/inventory-core/internal/domain"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
)

func TestReceivePurchase_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   ReceivingInput
	}{
		{"sin ubicación", ReceivingInput{Lines: []ReceivingLineInput{{VariantID: "var-1", Quantity: 1}}}},
		{"sin líneas", ReceivingInput{LocationID: "loc-1"}},
		{"flete negativo", ReceivingInput{
			LocationID:   "loc-1",
			Lines:        []ReceivingLineInput{{VariantID: "var-1", Quantity: 1}},
			TotalFreight: decimal.NewFromInt(-1),
		}},
		{"línea sin variante", ReceivingInput{
			LocationID: "loc-1",
			Lines:      []ReceivingLineInput{{Quantity: 1}},
		}},
		{"línea con cantidad cero", ReceivingInput{
			LocationID: "loc-1",
			Lines:      []ReceivingLineInput{{VariantID: "var-1", Quantity: 0}},
		}},
		{"línea con costo negativo", ReceivingInput{
			LocationID: "loc-1",
			Lines:      []ReceivingLineInput{{VariantID: "var-1", Quantity: 1, UnitCost: decimal.NewFromInt(-10)}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.receiving.ReceivePurchase(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, f.db.entryCount())
}

// Recibir 10 unidades a costo 100 con flete 50 deja cantidad 10 y costo promedio
// 105: (10*100 + 50) / 10.
func TestReceivePurchase_PrimeraRecepcion(t *testing.T) {
	f := newFixture()

	res, err := f.receiving.ReceivePurchase(context.Background(), ReceivingInput{
		LocationID: "loc-1",
		Lines: []ReceivingLineInput{
			{VariantID: "var-1", Quantity: 10, UnitCost: decimal.NewFromInt(100)},
		},
		TotalFreight: decimal.NewFromInt(50),
		ActorID:      "actor-1",
		Note:         "OC-001",
	})
	require.NoError(t, err)
	require.Len(t, res.StockRecords, 1)
	require.Len(t, res.LedgerEntries, 1)
	assert.NotEmpty(t, res.ReceivingID)

	rec := f.db.record("var-1", "loc-1")
	assert.Equal(t, int64(10), rec.Quantity)
	assert.Equal(t, int64(10), rec.CumulativeReceivedQty)
	assert.True(t, rec.CumulativeCostAmount.Equal(decimal.NewFromInt(1050)),
		"costo acumulado: %s", rec.CumulativeCostAmount)
	assert.True(t, rec.AverageCost.Equal(decimal.NewFromInt(105)),
		"costo promedio: %s", rec.AverageCost)

	entry := res.LedgerEntries[0]
	assert.Equal(t, entity.EntryTypeReceipt, entry.Type)
	assert.Equal(t, int64(10), entry.Delta)
	require.NotNil(t, entry.RelatedReceivingID)
	assert.Equal(t, res.ReceivingID, *entry.RelatedReceivingID)
}

// Una segunda recepción a otro costo mueve el promedio ponderado:
// (1050 + 550) / 15 ≈ 106.67.
func TestReceivePurchase_PromedioPonderado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.receiving.ReceivePurchase(ctx, ReceivingInput{
		LocationID:   "loc-1",
		Lines:        []ReceivingLineInput{{VariantID: "var-1", Quantity: 10, UnitCost: decimal.NewFromInt(100)}},
		TotalFreight: decimal.NewFromInt(50),
		ActorID:      "actor-1",
	})
	require.NoError(t, err)

	_, err = f.receiving.ReceivePurchase(ctx, ReceivingInput{
		LocationID:   "loc-1",
		Lines:        []ReceivingLineInput{{VariantID: "var-1", Quantity: 5, UnitCost: decimal.NewFromInt(110)}},
		TotalFreight: decimal.Zero,
		ActorID:      "actor-1",
	})
	require.NoError(t, err)

	rec := f.db.record("var-1", "loc-1")
	assert.Equal(t, int64(15), rec.Quantity)
	assert.Equal(t, int64(15), rec.CumulativeReceivedQty)
	assert.True(t, rec.CumulativeCostAmount.Equal(decimal.NewFromInt(1600)))
	assert.True(t, rec.AverageCost.Round(2).Equal(decimal.RequireFromString("106.67")),
		"costo promedio: %s", rec.AverageCost)

	// Invariante de acumulados: promedio * cantidad recibida ≈ costo acumulado
	diff := rec.AverageCost.Mul(decimal.NewFromInt(rec.CumulativeReceivedQty)).
		Sub(rec.CumulativeCostAmount).Abs()
	assert.True(t, diff.LessThan(decimal.RequireFromString("0.0001")),
		"desviación de acumulados: %s", diff)
}

func TestReceivePurchase_VariasLineasRepartenFlete(t *testing.T) {
	f := newFixture()

	res, err := f.receiving.ReceivePurchase(context.Background(), ReceivingInput{
		LocationID: "loc-1",
		Lines: []ReceivingLineInput{
			{VariantID: "var-1", Quantity: 3, UnitCost: decimal.NewFromInt(10)},
			{VariantID: "var-2", Quantity: 1, UnitCost: decimal.NewFromInt(40)},
		},
		TotalFreight: decimal.NewFromInt(8),
		ActorID:      "actor-1",
	})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)

	// 3/4 y 1/4 del flete
	assert.True(t, res.Lines[0].AllocatedFreight.Equal(decimal.NewFromInt(6)))
	assert.True(t, res.Lines[1].AllocatedFreight.Equal(decimal.NewFromInt(2)))
	assert.True(t, res.Lines[0].TotalLandedCost.Equal(decimal.NewFromInt(36)))
	assert.True(t, res.Lines[1].TotalLandedCost.Equal(decimal.NewFromInt(42)))

	// Cada línea acreditó su propia pareja
	assert.Equal(t, int64(3), f.db.record("var-1", "loc-1").Quantity)
	assert.Equal(t, int64(1), f.db.record("var-2", "loc-1").Quantity)
	assert.Equal(t, 2, f.db.entryCount())

	// Ambos asientos comparten el ID de recepción
	for _, e := range res.LedgerEntries {
		require.NotNil(t, e.RelatedReceivingID)
		assert.Equal(t, res.ReceivingID, *e.RelatedReceivingID)
	}
}

// Si una línea posterior falla, la recepción completa se revierte: las líneas
// anteriores no quedan acreditadas a medias.
func TestReceivePurchase_EventoAtomico(t *testing.T) {
	f := newFixture()
	f.db.failUpsert("var-2", "loc-1")

	_, err := f.receiving.ReceivePurchase(context.Background(), ReceivingInput{
		LocationID: "loc-1",
		Lines: []ReceivingLineInput{
			{VariantID: "var-1", Quantity: 3, UnitCost: decimal.NewFromInt(10)},
			{VariantID: "var-2", Quantity: 1, UnitCost: decimal.NewFromInt(40)},
		},
		TotalFreight: decimal.Zero,
		ActorID:      "actor-1",
	})
	require.Error(t, err)

	assert.Equal(t, int64(0), f.db.record("var-1", "loc-1").Quantity)
	assert.Equal(t, int64(0), f.db.record("var-2", "loc-1").Quantity)
	assert.Equal(t, 0, f.db.entryCount())
}

func TestReceivePurchase_MercanciaGratuita(t *testing.T) {
	f := newFixture()

	// Muestras o bonificaciones: cantidad recibida crece con costo cero, así que
	// el promedio de un registro nuevo queda en cero.
	_, err := f.receiving.ReceivePurchase(context.Background(), ReceivingInput{
		LocationID:   "loc-1",
		Lines:        []ReceivingLineInput{{VariantID: "var-1", Quantity: 10, UnitCost: decimal.Zero}},
		TotalFreight: decimal.Zero,
		ActorID:      "actor-1",
	})
	require.NoError(t, err)

	rec := f.db.record("var-1", "loc-1")
	assert.Equal(t, int64(10), rec.CumulativeReceivedQty)
	assert.True(t, rec.AverageCost.IsZero())
}
