package entity

import "time"

// Tipos de asiento del libro de inventario. El tipo lo declara el caller en el
// momento de la mutación; nunca se infiere después inspeccionando el último asiento.
const (
	EntryTypeReceipt          = "receipt"           // recepción de compra (única que afecta costo promedio)
	EntryTypeSale             = "sale"              // salida por venta
	EntryTypeAdjustmentAdd    = "adjustment-add"    // ajuste manual positivo
	EntryTypeAdjustmentReduce = "adjustment-reduce" // ajuste manual negativo
	EntryTypeTransferOut      = "transfer-out"      // débito en origen de un traslado
	EntryTypeTransferIn       = "transfer-in"       // crédito en destino de un traslado
	EntryTypeTransferCancel   = "transfer-cancel"   // reverso por cancelación de traslado
)

// LedgerEntry asiento inmutable del libro: un cambio de cantidad y su justificación.
// Append-only; se escribe siempre en la misma unidad de trabajo que la mutación
// del StockRecord que describe.
type LedgerEntry struct {
	ID                 string
	VariantID          string
	LocationID         string
	Delta              int64 // con signo: positivo crédito, negativo débito
	ResultingQuantity  int64 // cantidad del StockRecord después de aplicar Delta
	Type               string
	ActorID            string
	Note               string
	RelatedTransferID  *string
	RelatedReceivingID *string
	CreatedAt          time.Time
}

// IsCreditEntryType indica si el tipo corresponde a un crédito (delta positivo).
func IsCreditEntryType(entryType string) bool {
	switch entryType {
	case EntryTypeReceipt, EntryTypeAdjustmentAdd, EntryTypeTransferIn, EntryTypeTransferCancel:
		return true
	}
	return false
}

// IsDebitEntryType indica si el tipo corresponde a un débito (delta negativo).
func IsDebitEntryType(entryType string) bool {
	switch entryType {
	case EntryTypeSale, EntryTypeAdjustmentReduce, EntryTypeTransferOut:
		return true
	}
	return false
}
