package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa el estado actual de una variante en una ubicación
// (cantidad disponible y acumulados de costo para promedio ponderado).
// Se crea de forma perezosa en la primera mutación y nunca se elimina, solo se lleva a cero.
type StockRecord struct {
	VariantID             string
	LocationID            string
	Quantity              int64 // nunca negativa
	ReorderThreshold      int64
	AverageCost           decimal.Decimal // CumulativeCostAmount / CumulativeReceivedQty, 0 si no hay recepciones
	CumulativeReceivedQty int64
	CumulativeCostAmount  decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewStockRecord construye un registro en cero para una pareja (variante, ubicación).
func NewStockRecord(variantID, locationID string) *StockRecord {
	return &StockRecord{
		VariantID:            variantID,
		LocationID:           locationID,
		AverageCost:          decimal.Zero,
		CumulativeCostAmount: decimal.Zero,
	}
}
