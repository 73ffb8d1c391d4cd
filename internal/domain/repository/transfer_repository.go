package repository

import "github.com/tu-usuario/inventory-core/internal/domain/entity"

// TransferRepository puerto de persistencia de traslados.
type TransferRepository interface {
	Create(transfer *entity.TransferRecord) error
	GetByID(id string) (*entity.TransferRecord, error)
	// GetByIDForUpdate bloquea la fila del traslado (SELECT FOR UPDATE) para
	// serializar transiciones de estado concurrentes sobre el mismo traslado.
	GetByIDForUpdate(id string) (*entity.TransferRecord, error)
	UpdateStatus(transfer *entity.TransferRecord) error
	ListByLocation(locationID string, limit, offset int) ([]*entity.TransferRecord, error)
}
