package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventory-core/internal/application/dto"
	"github.com/tu-usuario/inventory-core/internal/application/inventory"
	"github.com/tu-usuario/inventory-core/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de ajustes, recepciones y consultas
// de stock (protegido).
type InventoryHandler struct {
	adjustments *inventory.AdjustmentService
	receiving   *inventory.ReceivingUseCase
	queries     *inventory.StockQueryUseCase
	lowStock    *inventory.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	adjustments *inventory.AdjustmentService,
	receiving *inventory.ReceivingUseCase,
	queries *inventory.StockQueryUseCase,
	lowStock *inventory.LowStockUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		adjustments: adjustments,
		receiving:   receiving,
		queries:     queries,
		lowStock:    lowStock,
	}
}

// AdjustStock registra un ajuste manual (add, reduce o set) sobre una pareja
// (variante, ubicación). POST /api/stock/adjustments
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.adjustments.AdjustFromRequest(c.Context(), actorID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{
		StockRecord: dto.NewStockRecordResponse(result.StockRecord),
		LedgerEntry: dto.NewLedgerEntryResponse(result.LedgerEntry),
	})
}

// ReceivePurchase procesa un evento de recepción de compra con flete compartido.
// POST /api/receivings
func (h *InventoryHandler) ReceivePurchase(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]inventory.ReceivingLineInput, len(in.Lines))
	for i, ln := range in.Lines {
		lines[i] = inventory.ReceivingLineInput{
			VariantID: ln.VariantID,
			Quantity:  ln.Quantity,
			UnitCost:  ln.UnitCost,
		}
	}
	result, err := h.receiving.ReceivePurchase(c.Context(), inventory.ReceivingInput{
		LocationID:   in.LocationID,
		Lines:        lines,
		TotalFreight: in.TotalFreight,
		ActorID:      actorID,
		Note:         in.Note,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	resp := dto.ReceivePurchaseResponse{
		ReceivingID:  result.ReceivingID,
		Lines:        make([]dto.ReceivingLineResponse, 0, len(result.Lines)),
		StockRecords: make([]dto.StockRecordResponse, 0, len(result.StockRecords)),
	}
	for _, ln := range result.Lines {
		resp.Lines = append(resp.Lines, dto.NewReceivingLineResponse(ln))
	}
	for _, r := range result.StockRecords {
		resp.StockRecords = append(resp.StockRecords, dto.NewStockRecordResponse(r))
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetStockRecord consulta el estado actual de una pareja (variante, ubicación).
// GET /api/stock/records?variant_id=...&location_id=...
func (h *InventoryHandler) GetStockRecord(c *fiber.Ctx) error {
	record, err := h.queries.GetStockRecord(c.Context(), c.Query("variant_id"), c.Query("location_id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewStockRecordResponse(record))
}

// ListLedger historial del libro para una pareja, más reciente primero.
// GET /api/stock/ledger?variant_id=...&location_id=...&limit=&offset=
func (h *InventoryHandler) ListLedger(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	entries, err := h.queries.ListLedgerByPair(c.Context(), c.Query("variant_id"), c.Query("location_id"), page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	resp := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.NewLedgerEntryResponse(e))
	}
	return c.JSON(fiber.Map{"total": len(resp), "entries": resp})
}

// SetThreshold fija el umbral de reorden de una pareja. No escribe asiento:
// el umbral es configuración, no movimiento de stock.
// PUT /api/stock/threshold
func (h *InventoryHandler) SetThreshold(c *fiber.Ctx) error {
	var in dto.SetThresholdRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	record, err := h.adjustments.SetReorderThreshold(c.Context(), in.VariantID, in.LocationID, in.ReorderThreshold)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewStockRecordResponse(record))
}

// ListLowStock lista de reposición: registros en o bajo su umbral de reorden.
// GET /api/stock/low-stock?location_id=&limit=&offset=
func (h *InventoryHandler) ListLowStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	items, err := h.lowStock.ListLowStock(c.Context(), c.Query("location_id"), page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	resp := make([]dto.LowStockItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, dto.LowStockItemResponse{
			VariantID:          it.VariantID,
			LocationID:         it.LocationID,
			Quantity:           it.Quantity,
			ReorderThreshold:   it.ReorderThreshold,
			SuggestedOrderQty:  it.SuggestedOrderQty,
			AverageCost:        it.AverageCost,
			EstimatedOrderCost: it.EstimatedOrderCost,
		})
	}
	return c.JSON(fiber.Map{"total": len(resp), "items": resp})
}

// mapDomainError traduce los errores de dominio a códigos HTTP.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE_TRANSITION", Message: "transición de estado no permitida"})
	case errors.Is(err, domain.ErrTransferFailed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TRANSFER_FAILED", Message: "traslado revertido por compensación; puede reintentar"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
