package repository

import "github.com/tu-usuario/inventory-core/internal/domain/entity"

// StockRecordRepository define el puerto para consultar/actualizar el registro de stock
// por (variante, ubicación). Usado dentro de transacciones para garantizar consistencia.
type StockRecordRepository interface {
	// Get devuelve el registro actual; si no existe devuelve uno en cero (creación perezosa).
	Get(variantID, locationID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE) y la devuelve;
	// si no existe devuelve uno en cero sin bloquear nada.
	GetForUpdate(variantID, locationID string) (*entity.StockRecord, error)
	Upsert(record *entity.StockRecord) error
	// ListBelowThreshold registros con Quantity <= ReorderThreshold.
	// locationID vacío considera todas las ubicaciones.
	ListBelowThreshold(locationID string, limit, offset int) ([]*entity.StockRecord, error)
}
