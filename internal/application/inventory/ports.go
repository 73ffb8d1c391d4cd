package inventory

import (
	"context"

	"github.com/tu-usuario/inventory-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de inventario: la mutación del
// StockRecord y el asiento del libro se confirman juntos o no se confirma nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRecordRepository,
		ledgerRepo repository.LedgerRepository,
		transferRepo repository.TransferRepository,
	) error) error
}
