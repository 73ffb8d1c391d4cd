package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
	costing "github.com/tu-usuario/inventory-core/internal/domain/inventory"
)

// Acciones del endpoint de ajuste de stock.
const (
	AdjustActionAdd    = "add"
	AdjustActionReduce = "reduce"
	AdjustActionSet    = "set"
)

// AdjustStockRequest ajuste manual de stock sobre una pareja (variante, ubicación).
type AdjustStockRequest struct {
	VariantID  string `json:"variant_id"`
	LocationID string `json:"location_id"`
	Action     string `json:"action"` // add | reduce | set
	Quantity   int64  `json:"quantity"`
	Note       string `json:"note,omitempty"`
}

// SetThresholdRequest actualización del umbral de reorden de una pareja.
type SetThresholdRequest struct {
	VariantID        string `json:"variant_id"`
	LocationID       string `json:"location_id"`
	ReorderThreshold int64  `json:"reorder_threshold"`
}

// StockRecordResponse representación HTTP de un registro de stock.
type StockRecordResponse struct {
	VariantID             string          `json:"variant_id"`
	LocationID            string          `json:"location_id"`
	Quantity              int64           `json:"quantity"`
	ReorderThreshold      int64           `json:"reorder_threshold"`
	AverageCost           decimal.Decimal `json:"average_cost"`
	CumulativeReceivedQty int64           `json:"cumulative_received_qty"`
	CumulativeCostAmount  decimal.Decimal `json:"cumulative_cost_amount"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// LedgerEntryResponse representación HTTP de un asiento del libro.
type LedgerEntryResponse struct {
	ID                 string    `json:"id"`
	VariantID          string    `json:"variant_id"`
	LocationID         string    `json:"location_id"`
	Delta              int64     `json:"delta"`
	ResultingQuantity  int64     `json:"resulting_quantity"`
	Type               string    `json:"type"`
	ActorID            string    `json:"actor_id"`
	Note               string    `json:"note,omitempty"`
	RelatedTransferID  *string   `json:"related_transfer_id,omitempty"`
	RelatedReceivingID *string   `json:"related_receiving_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// AdjustStockResponse resultado de un ajuste: registro y asiento generado.
type AdjustStockResponse struct {
	StockRecord StockRecordResponse `json:"stock_record"`
	LedgerEntry LedgerEntryResponse `json:"ledger_entry"`
}

// ReceivingLineRequest línea de una recepción de compra.
type ReceivingLineRequest struct {
	VariantID string          `json:"variant_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ReceivePurchaseRequest evento de recepción con flete compartido.
type ReceivePurchaseRequest struct {
	LocationID   string                 `json:"location_id"`
	Lines        []ReceivingLineRequest `json:"lines"`
	TotalFreight decimal.Decimal        `json:"total_freight"`
	Note         string                 `json:"note,omitempty"`
}

// ReceivingLineResponse línea enriquecida con flete asignado y costo aterrizado.
type ReceivingLineResponse struct {
	VariantID         string          `json:"variant_id"`
	Quantity          int64           `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	AllocatedFreight  decimal.Decimal `json:"allocated_freight"`
	TotalLandedCost   decimal.Decimal `json:"total_landed_cost"`
	LandedCostPerUnit decimal.Decimal `json:"landed_cost_per_unit"`
}

// ReceivePurchaseResponse resultado de la recepción.
type ReceivePurchaseResponse struct {
	ReceivingID  string                  `json:"receiving_id"`
	Lines        []ReceivingLineResponse `json:"lines"`
	StockRecords []StockRecordResponse   `json:"stock_records"`
}

// LowStockItemResponse sugerencia de reposición.
type LowStockItemResponse struct {
	VariantID          string          `json:"variant_id"`
	LocationID         string          `json:"location_id"`
	Quantity           int64           `json:"quantity"`
	ReorderThreshold   int64           `json:"reorder_threshold"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`
	AverageCost        decimal.Decimal `json:"average_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
}

// NewStockRecordResponse mapea la entidad a su representación HTTP.
func NewStockRecordResponse(r *entity.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		VariantID:             r.VariantID,
		LocationID:            r.LocationID,
		Quantity:              r.Quantity,
		ReorderThreshold:      r.ReorderThreshold,
		AverageCost:           r.AverageCost,
		CumulativeReceivedQty: r.CumulativeReceivedQty,
		CumulativeCostAmount:  r.CumulativeCostAmount,
		UpdatedAt:             r.UpdatedAt,
	}
}

// NewLedgerEntryResponse mapea el asiento a su representación HTTP.
func NewLedgerEntryResponse(e *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:                 e.ID,
		VariantID:          e.VariantID,
		LocationID:         e.LocationID,
		Delta:              e.Delta,
		ResultingQuantity:  e.ResultingQuantity,
		Type:               e.Type,
		ActorID:            e.ActorID,
		Note:               e.Note,
		RelatedTransferID:  e.RelatedTransferID,
		RelatedReceivingID: e.RelatedReceivingID,
		CreatedAt:          e.CreatedAt,
	}
}

// NewReceivingLineResponse mapea una línea asignada a su representación HTTP.
func NewReceivingLineResponse(ln costing.ReceivingLine) ReceivingLineResponse {
	return ReceivingLineResponse{
		VariantID:         ln.VariantID,
		Quantity:          ln.Quantity,
		UnitCost:          ln.UnitCost,
		AllocatedFreight:  ln.AllocatedFreight,
		TotalLandedCost:   ln.TotalLandedCost,
		LandedCostPerUnit: costing.LandedCostPerUnit(ln).Round(costing.CurrencyPrecision),
	}
}
