package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventory-core/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Adjustments *inventory.AdjustmentService
	Receiving   *inventory.ReceivingUseCase
	Transfers   *inventory.TransferUseCase
	Queries     *inventory.StockQueryUseCase
	LowStock    *inventory.LowStockUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas las operaciones del núcleo van
// protegidas: el middleware materializa el actor que firma los asientos.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock: ajustes, consultas y reposición
	stock := protected.Group("/stock")
	inventoryHandler := NewInventoryHandler(deps.Adjustments, deps.Receiving, deps.Queries, deps.LowStock)
	stock.Post("/adjustments", inventoryHandler.AdjustStock)
	stock.Get("/records", inventoryHandler.GetStockRecord)
	stock.Get("/ledger", inventoryHandler.ListLedger)
	stock.Get("/low-stock", inventoryHandler.ListLowStock)
	stock.Put("/threshold", inventoryHandler.SetThreshold)

	// Recepciones de compra (motor de costos)
	protected.Post("/receivings", inventoryHandler.ReceivePurchase)

	// Traslados (máquina de estados)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.Transfers, deps.Queries)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Patch("/:id/status", transferHandler.UpdateStatus)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
	transfers.Get("/:id/ledger", transferHandler.ListLedger)
}
