package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventory-core/internal/application/dto"
	"github.com/tu-usuario/inventory-core/internal/application/inventory"
)

// TransferHandler maneja las peticiones HTTP del orquestador de traslados (protegido).
type TransferHandler struct {
	transfers *inventory.TransferUseCase
	queries   *inventory.StockQueryUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(transfers *inventory.TransferUseCase, queries *inventory.StockQueryUseCase) *TransferHandler {
	return &TransferHandler{transfers: transfers, queries: queries}
}

// Create crea un traslado (pending por defecto, o completed en el acto).
// POST /api/transfers
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.transfers.CreateTransfer(c.Context(), inventory.CreateTransferInput{
		SourceLocationID: in.SourceLocationID,
		DestLocationID:   in.DestLocationID,
		VariantID:        in.VariantID,
		Quantity:         in.Quantity,
		ActorID:          actorID,
		Notes:            in.Notes,
		InitialStatus:    in.InitialStatus,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransferResponse(transfer))
}

// GetByID consulta un traslado. GET /api/transfers/:id
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	transfer, err := h.transfers.GetTransfer(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(transfer))
}

// UpdateStatus aplica una transición de la máquina de estados.
// PATCH /api/transfers/:id/status
func (h *TransferHandler) UpdateStatus(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateTransferStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.transfers.UpdateTransferStatus(c.Context(), c.Params("id"), in.Status, actorID, in.Notes)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(transfer))
}

// Cancel cancela un traslado no terminal, revirtiendo el stock ya movido.
// POST /api/transfers/:id/cancel
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CancelTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.transfers.CancelTransfer(c.Context(), c.Params("id"), actorID, in.Reason)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(transfer))
}

// ListLedger asientos del libro etiquetados con el traslado.
// GET /api/transfers/:id/ledger
func (h *TransferHandler) ListLedger(c *fiber.Ctx) error {
	entries, err := h.queries.ListLedgerByTransfer(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	resp := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.NewLedgerEntryResponse(e))
	}
	return c.JSON(fiber.Map{"total": len(resp), "entries": resp})
}
