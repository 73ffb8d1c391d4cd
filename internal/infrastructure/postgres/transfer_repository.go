package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/inventory-core/internal/domain"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
	"github.com/tu-usuario/inventory-core/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL
// (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, source_location_id, dest_location_id, variant_id,
		quantity, status, actor_id, notes, created_at, updated_at`

// Create persiste un traslado nuevo.
func (r *TransferRepo) Create(transfer *entity.TransferRecord) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO transfers (id, source_location_id, dest_location_id, variant_id,
			quantity, status, actor_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.SourceLocationID, transfer.DestLocationID, transfer.VariantID,
		transfer.Quantity, transfer.Status, transfer.ActorID, transfer.Notes,
		transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID; nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.TransferRecord, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate bloquea la fila del traslado (SELECT FOR UPDATE); nil si no existe.
func (r *TransferRepo) GetByIDForUpdate(id string) (*entity.TransferRecord, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers WHERE id = $1
		FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *TransferRepo) scanOne(query, id string) (*entity.TransferRecord, error) {
	var t entity.TransferRecord
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.SourceLocationID, &t.DestLocationID, &t.VariantID,
		&t.Quantity, &t.Status, &t.ActorID, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &t, nil
}

// UpdateStatus actualiza estado y notas de un traslado existente.
func (r *TransferRepo) UpdateStatus(transfer *entity.TransferRecord) error {
	query := `
		UPDATE transfers
		SET status = $2, notes = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.Status, transfer.Notes, transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByLocation traslados donde la ubicación participa como origen o destino.
func (r *TransferRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.TransferRecord, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE source_location_id = $1 OR dest_location_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*entity.TransferRecord
	for rows.Next() {
		var t entity.TransferRecord
		if err := rows.Scan(
			&t.ID, &t.SourceLocationID, &t.DestLocationID, &t.VariantID,
			&t.Quantity, &t.Status, &t.ActorID, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		transfers = append(transfers, &t)
	}
	return transfers, rows.Err()
}
