package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventory-core/internal/domain"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
	costing "github.com/tu-usuario/inventory-core/internal/domain/inventory"
	"github.com/tu-usuario/inventory-core/internal/domain/repository"
)

// ReceivingUseCase procesa eventos de recepción de compra: asigna el flete entre
// las líneas, calcula el costo aterrizado y acredita el stock con tipo receipt,
// todas las líneas dentro de una sola unidad atómica.
type ReceivingUseCase struct {
	txRunner    TxRunner
	adjustments *AdjustmentService
}

// NewReceivingUseCase construye el caso de uso de recepciones.
func NewReceivingUseCase(txRunner TxRunner, adjustments *AdjustmentService) *ReceivingUseCase {
	return &ReceivingUseCase{txRunner: txRunner, adjustments: adjustments}
}

// ReceivingLineInput línea de entrada de una recepción.
type ReceivingLineInput struct {
	VariantID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// ReceivingInput entrada del evento de recepción: una ubicación, N líneas y un
// flete total compartido.
type ReceivingInput struct {
	LocationID   string
	Lines        []ReceivingLineInput
	TotalFreight decimal.Decimal
	ActorID      string
	Note         string
}

// ReceivingResult líneas enriquecidas con flete asignado y costo aterrizado,
// más los registros de stock y asientos resultantes, en el orden de las líneas.
type ReceivingResult struct {
	ReceivingID   string
	Lines         []costing.ReceivingLine
	StockRecords  []*entity.StockRecord
	LedgerEntries []*entity.LedgerEntry
}

// ReceivePurchase valida el evento, reparte el flete (round-half-up, residuo en la
// última línea) y acredita cada línea con su costo aterrizado. Los acumulados y el
// costo promedio de cada registro se recalculan solo aquí: débitos, traslados y
// ajustes manuales nunca tocan el costo promedio.
func (uc *ReceivingUseCase) ReceivePurchase(ctx context.Context, in ReceivingInput) (*ReceivingResult, error) {
	if in.LocationID == "" || len(in.Lines) == 0 || in.TotalFreight.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]costing.ReceivingLine, len(in.Lines))
	for i, ln := range in.Lines {
		if ln.VariantID == "" || ln.Quantity <= 0 || ln.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lines[i] = costing.ReceivingLine{
			VariantID: ln.VariantID,
			Quantity:  ln.Quantity,
			UnitCost:  ln.UnitCost,
		}
	}

	lines = costing.AllocateFreight(lines, in.TotalFreight)

	result := &ReceivingResult{
		ReceivingID:   uuid.New().String(),
		Lines:         lines,
		StockRecords:  make([]*entity.StockRecord, 0, len(lines)),
		LedgerEntries: make([]*entity.LedgerEntry, 0, len(lines)),
	}

	// Todas las líneas del evento en una sola transacción: o entra la recepción
	// completa o no entra nada.
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.TransferRepository,
	) error {
		for i := range lines {
			landed := lines[i].TotalLandedCost
			adj, err := uc.adjustments.CreditInTx(stockRepo, ledgerRepo,
				lines[i].VariantID, in.LocationID, lines[i].Quantity,
				in.ActorID, entity.EntryTypeReceipt, in.Note,
				Meta{RelatedReceivingID: result.ReceivingID, ReceiptCost: &landed})
			if err != nil {
				return err
			}
			result.StockRecords = append(result.StockRecords, adj.StockRecord)
			result.LedgerEntries = append(result.LedgerEntries, adj.LedgerEntry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
