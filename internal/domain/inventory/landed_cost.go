package inventory

import "github.com/shopspring/decimal"

// CurrencyPrecision decimales de la moneda para el redondeo de fletes asignados.
const CurrencyPrecision = 2

// ReceivingLine línea de una recepción de compra. No se persiste como entidad
// propia: es el insumo del motor de costos.
type ReceivingLine struct {
	VariantID        string
	Quantity         int64
	UnitCost         decimal.Decimal
	AllocatedFreight decimal.Decimal
	TotalLandedCost  decimal.Decimal // UnitCost*Quantity + AllocatedFreight
}

// AllocateFreight reparte el flete total del evento de recepción entre las líneas,
// proporcional a la cantidad de cada una, redondeando a precisión de moneda
// (half-up). El residuo de redondeo se pliega en la última línea para que la suma
// de fletes asignados sea exactamente igual a totalFreight.
// NuevaLínea.TotalLandedCost = UnitCost*Quantity + AllocatedFreight.
func AllocateFreight(lines []ReceivingLine, totalFreight decimal.Decimal) []ReceivingLine {
	if len(lines) == 0 {
		return lines
	}
	var totalQty int64
	for _, ln := range lines {
		totalQty += ln.Quantity
	}

	out := make([]ReceivingLine, len(lines))
	copy(out, lines)

	allocated := decimal.Zero
	for i := range out {
		var share decimal.Decimal
		switch {
		case i == len(out)-1:
			// Última línea: absorbe el residuo de redondeo
			share = totalFreight.Sub(allocated)
		case totalQty > 0:
			share = totalFreight.
				Mul(decimal.NewFromInt(out[i].Quantity)).
				Div(decimal.NewFromInt(totalQty)).
				Round(CurrencyPrecision)
		default:
			share = decimal.Zero
		}
		allocated = allocated.Add(share)
		out[i].AllocatedFreight = share
		out[i].TotalLandedCost = out[i].UnitCost.
			Mul(decimal.NewFromInt(out[i].Quantity)).
			Add(share)
	}
	return out
}

// LandedCostPerUnit costo aterrizado unitario de una línea ya asignada.
func LandedCostPerUnit(line ReceivingLine) decimal.Decimal {
	if line.Quantity <= 0 {
		return decimal.Zero
	}
	return line.TotalLandedCost.Div(decimal.NewFromInt(line.Quantity))
}

// WeightedAverageCost costo promedio ponderado: acumulado de costo sobre acumulado
// de cantidad recibida. Cero si aún no hay recepciones.
func WeightedAverageCost(cumulativeCostAmount decimal.Decimal, cumulativeReceivedQty int64) decimal.Decimal {
	if cumulativeReceivedQty <= 0 {
		return decimal.Zero
	}
	return cumulativeCostAmount.Div(decimal.NewFromInt(cumulativeReceivedQty))
}
