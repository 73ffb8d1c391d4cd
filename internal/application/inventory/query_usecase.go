package inventory

import (
	"context"

	"github.com/tu-usuario/inventory-core/internal/domain"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
	"github.com/tu-usuario/inventory-core/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre registros de stock y el libro.
type StockQueryUseCase struct {
	stocks repository.StockRecordRepository
	ledger repository.LedgerRepository
}

// NewStockQueryUseCase construye el caso de uso de consulta.
func NewStockQueryUseCase(stocks repository.StockRecordRepository, ledger repository.LedgerRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stocks: stocks, ledger: ledger}
}

// GetStockRecord devuelve el estado actual de la pareja; si nunca hubo mutaciones
// devuelve el registro en cero (los registros nacen perezosamente).
func (uc *StockQueryUseCase) GetStockRecord(ctx context.Context, variantID, locationID string) (*entity.StockRecord, error) {
	if variantID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stocks.Get(variantID, locationID)
}

// ListLedgerByPair historial de asientos de una pareja, más reciente primero.
func (uc *StockQueryUseCase) ListLedgerByPair(ctx context.Context, variantID, locationID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	if variantID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.ledger.ListByPair(variantID, locationID, limit, offset)
}

// ListLedgerByTransfer asientos etiquetados con un traslado (out/in/cancel).
func (uc *StockQueryUseCase) ListLedgerByTransfer(ctx context.Context, transferID string) ([]*entity.LedgerEntry, error) {
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.ledger.ListByTransfer(transferID)
}
