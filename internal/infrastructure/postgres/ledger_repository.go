package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
	"github.com/tu-usuario/inventory-core/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del libro de inventario sobre PostgreSQL. La tabla es
// append-only: este adaptador no expone UPDATE ni DELETE.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, variant_id, location_id, delta, resulting_quantity, type,
		actor_id, note, related_transfer_id, related_receiving_id, created_at`

// Append persiste un asiento nuevo.
func (r *LedgerRepo) Append(entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ledger_entries (id, variant_id, location_id, delta, resulting_quantity,
			type, actor_id, note, related_transfer_id, related_receiving_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.VariantID, entry.LocationID, entry.Delta, entry.ResultingQuantity,
		entry.Type, entry.ActorID, entry.Note, entry.RelatedTransferID, entry.RelatedReceivingID,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID; nil si no existe.
func (r *LedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries WHERE id = $1`
	var e entity.LedgerEntry
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.VariantID, &e.LocationID, &e.Delta, &e.ResultingQuantity, &e.Type,
		&e.ActorID, &e.Note, &e.RelatedTransferID, &e.RelatedReceivingID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return &e, nil
}

// ListByPair historial de asientos de una pareja, más reciente primero.
func (r *LedgerRepo) ListByPair(variantID, locationID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE variant_id = $1 AND location_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.list(query, variantID, locationID, limit, offset)
}

// ListByTransfer asientos etiquetados con un traslado, en orden de creación.
func (r *LedgerRepo) ListByTransfer(transferID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE related_transfer_id = $1
		ORDER BY created_at ASC`
	return r.list(query, transferID)
}

func (r *LedgerRepo) list(query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.VariantID, &e.LocationID, &e.Delta, &e.ResultingQuantity, &e.Type,
			&e.ActorID, &e.Note, &e.RelatedTransferID, &e.RelatedReceivingID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
