package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventory-core/internal/domain/repository"
)

// LowStockUseCase genera la lista de reposición: registros con cantidad en o por
// debajo de su umbral de reorden, con cantidad sugerida de pedido y costo estimado.
type LowStockUseCase struct {
	stocks repository.StockRecordRepository
}

// NewLowStockUseCase construye el caso de uso de reposición.
func NewLowStockUseCase(stocks repository.StockRecordRepository) *LowStockUseCase {
	return &LowStockUseCase{stocks: stocks}
}

// LowStockItem sugerencia de reposición para una pareja (variante, ubicación).
type LowStockItem struct {
	VariantID          string
	LocationID         string
	Quantity           int64
	ReorderThreshold   int64
	SuggestedOrderQty  int64
	AverageCost        decimal.Decimal
	EstimatedOrderCost decimal.Decimal
}

// ListLowStock devuelve los registros bajo umbral. El stock ideal se toma como el
// doble del umbral; la cantidad sugerida es el faltante contra ese ideal.
// locationID vacío considera todas las ubicaciones.
func (uc *LowStockUseCase) ListLowStock(ctx context.Context, locationID string, limit, offset int) ([]LowStockItem, error) {
	records, err := uc.stocks.ListBelowThreshold(locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]LowStockItem, 0, len(records))
	for _, r := range records {
		suggested := 2*r.ReorderThreshold - r.Quantity
		if suggested < 0 {
			suggested = 0
		}
		items = append(items, LowStockItem{
			VariantID:          r.VariantID,
			LocationID:         r.LocationID,
			Quantity:           r.Quantity,
			ReorderThreshold:   r.ReorderThreshold,
			SuggestedOrderQty:  suggested,
			AverageCost:        r.AverageCost,
			EstimatedOrderCost: r.AverageCost.Mul(decimal.NewFromInt(suggested)).Round(2),
		})
	}
	return items, nil
}
