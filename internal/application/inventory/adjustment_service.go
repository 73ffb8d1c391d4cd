package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventory-core/internal/domain"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
	costing "github.com/tu-usuario/inventory-core/internal/domain/inventory"
	"github.com/tu-usuario/inventory-core/internal/domain/repository"
)

// Meta carga opcional tipada de una mutación, para trazabilidad sin mapas libres.
// ReceiptCost es el costo aterrizado total de la línea (UnitCost*Qty + flete asignado)
// y solo tiene efecto en créditos de tipo receipt: actualiza los acumulados de costo.
type Meta struct {
	RelatedTransferID  string
	RelatedReceivingID string
	ReceiptCost        *decimal.Decimal
}

// AdjustmentResult registro de stock actualizado y el asiento que describe la mutación.
type AdjustmentResult struct {
	StockRecord *entity.StockRecord
	LedgerEntry *entity.LedgerEntry
}

// AdjustmentService único componente autorizado a mutar un StockRecord. Cada
// mutación escribe exactamente un asiento en el libro dentro de la misma unidad
// de trabajo (fila bloqueada con SELECT FOR UPDATE, Commit/Rollback).
// El tipo de asiento lo declara el caller en el momento de la mutación.
type AdjustmentService struct {
	txRunner TxRunner
}

// NewAdjustmentService construye el servicio de ajustes.
func NewAdjustmentService(txRunner TxRunner) *AdjustmentService {
	return &AdjustmentService{txRunner: txRunner}
}

// Credit suma qty unidades a la pareja (variante, ubicación), creando el registro
// en cero si no existe. Nunca falla para una cantidad positiva válida.
func (s *AdjustmentService) Credit(ctx context.Context, variantID, locationID string, qty int64, actorID, entryType, note string, meta Meta) (*AdjustmentResult, error) {
	if variantID == "" || locationID == "" || qty <= 0 || !entity.IsCreditEntryType(entryType) {
		return nil, domain.ErrInvalidInput
	}
	var res *AdjustmentResult
	err := s.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.TransferRepository,
	) error {
		r, err := s.CreditInTx(stockRepo, ledgerRepo, variantID, locationID, qty, actorID, entryType, note, meta)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Debit resta qty unidades; falla con ErrInsufficientStock si qty supera la
// cantidad actual, en cuyo caso no ocurre ninguna mutación.
func (s *AdjustmentService) Debit(ctx context.Context, variantID, locationID string, qty int64, actorID, entryType, note string, meta Meta) (*AdjustmentResult, error) {
	if variantID == "" || locationID == "" || qty <= 0 || !entity.IsDebitEntryType(entryType) {
		return nil, domain.ErrInvalidInput
	}
	var res *AdjustmentResult
	err := s.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.TransferRepository,
	) error {
		r, err := s.DebitInTx(stockRepo, ledgerRepo, variantID, locationID, qty, actorID, entryType, note, meta)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Set lleva la cantidad al valor objetivo (>= 0). Calcula el delta internamente
// y lo registra como ajuste manual; no afecta el costo promedio.
func (s *AdjustmentService) Set(ctx context.Context, variantID, locationID string, targetQty int64, actorID, note string) (*AdjustmentResult, error) {
	if variantID == "" || locationID == "" || targetQty < 0 {
		return nil, domain.ErrInvalidInput
	}
	var res *AdjustmentResult
	err := s.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.TransferRepository,
	) error {
		record, err := stockRepo.GetForUpdate(variantID, locationID)
		if err != nil {
			return err
		}
		delta := targetQty - record.Quantity
		entryType := entity.EntryTypeAdjustmentAdd
		if delta < 0 {
			entryType = entity.EntryTypeAdjustmentReduce
		}
		record.Quantity = targetQty
		record.UpdatedAt = time.Now()
		if err := stockRepo.Upsert(record); err != nil {
			return err
		}
		entry := newLedgerEntry(record, delta, entryType, actorID, note, Meta{})
		if err := ledgerRepo.Append(entry); err != nil {
			return err
		}
		res = &AdjustmentResult{StockRecord: record, LedgerEntry: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SetReorderThreshold fija el umbral de reorden de la pareja. Es configuración,
// no movimiento de stock: no escribe asiento en el libro.
func (s *AdjustmentService) SetReorderThreshold(ctx context.Context, variantID, locationID string, threshold int64) (*entity.StockRecord, error) {
	if variantID == "" || locationID == "" || threshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	var res *entity.StockRecord
	err := s.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		_ repository.LedgerRepository,
		_ repository.TransferRepository,
	) error {
		record, err := stockRepo.GetForUpdate(variantID, locationID)
		if err != nil {
			return err
		}
		record.ReorderThreshold = threshold
		record.UpdatedAt = time.Now()
		if err := stockRepo.Upsert(record); err != nil {
			return err
		}
		res = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CreditInTx aplica un crédito usando repositorios ya atados a la transacción del
// caller. Lo usan la recepción de compras (varias líneas en una sola unidad) y el
// orquestador de traslados.
func (s *AdjustmentService) CreditInTx(
	stockRepo repository.StockRecordRepository,
	ledgerRepo repository.LedgerRepository,
	variantID, locationID string, qty int64, actorID, entryType, note string, meta Meta,
) (*AdjustmentResult, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	// Bloquea la fila (SELECT FOR UPDATE); si no existe, el registro nace en cero.
	record, err := stockRepo.GetForUpdate(variantID, locationID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	record.Quantity += qty
	if entryType == entity.EntryTypeReceipt && meta.ReceiptCost != nil {
		// Solo las recepciones mueven los acumulados y el costo promedio ponderado.
		record.CumulativeReceivedQty += qty
		record.CumulativeCostAmount = record.CumulativeCostAmount.Add(*meta.ReceiptCost)
		record.AverageCost = costing.WeightedAverageCost(record.CumulativeCostAmount, record.CumulativeReceivedQty)
	}
	record.UpdatedAt = now
	if err := stockRepo.Upsert(record); err != nil {
		return nil, err
	}
	entry := newLedgerEntry(record, qty, entryType, actorID, note, meta)
	if err := ledgerRepo.Append(entry); err != nil {
		return nil, err
	}
	return &AdjustmentResult{StockRecord: record, LedgerEntry: entry}, nil
}

// DebitInTx aplica un débito usando repositorios ya atados a la transacción del caller.
func (s *AdjustmentService) DebitInTx(
	stockRepo repository.StockRecordRepository,
	ledgerRepo repository.LedgerRepository,
	variantID, locationID string, qty int64, actorID, entryType, note string, meta Meta,
) (*AdjustmentResult, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	record, err := stockRepo.GetForUpdate(variantID, locationID)
	if err != nil {
		return nil, err
	}
	if record.Quantity < qty {
		return nil, domain.ErrInsufficientStock
	}
	record.Quantity -= qty
	record.UpdatedAt = time.Now()
	if err := stockRepo.Upsert(record); err != nil {
		return nil, err
	}
	entry := newLedgerEntry(record, -qty, entryType, actorID, note, meta)
	if err := ledgerRepo.Append(entry); err != nil {
		return nil, err
	}
	return &AdjustmentResult{StockRecord: record, LedgerEntry: entry}, nil
}

// newLedgerEntry construye el asiento que describe la mutación ya aplicada al registro.
func newLedgerEntry(record *entity.StockRecord, delta int64, entryType, actorID, note string, meta Meta) *entity.LedgerEntry {
	entry := &entity.LedgerEntry{
		ID:                uuid.New().String(),
		VariantID:         record.VariantID,
		LocationID:        record.LocationID,
		Delta:             delta,
		ResultingQuantity: record.Quantity,
		Type:              entryType,
		ActorID:           actorID,
		Note:              note,
		CreatedAt:         time.Now(),
	}
	if meta.RelatedTransferID != "" {
		id := meta.RelatedTransferID
		entry.RelatedTransferID = &id
	}
	if meta.RelatedReceivingID != "" {
		id := meta.RelatedReceivingID
		entry.RelatedReceivingID = &id
	}
	return entry
}
