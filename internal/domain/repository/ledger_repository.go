package repository

import "github.com/tu-usuario/inventory-core/internal/domain/entity"

// LedgerRepository puerto de persistencia del libro de inventario (append-only).
// Los asientos son inmutables: no hay Update ni Delete.
type LedgerRepository interface {
	Append(entry *entity.LedgerEntry) error
	GetByID(id string) (*entity.LedgerEntry, error)
	ListByPair(variantID, locationID string, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByTransfer(transferID string) ([]*entity.LedgerEntry, error)
}
