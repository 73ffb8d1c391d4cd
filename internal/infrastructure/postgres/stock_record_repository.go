package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
	"github.com/tu-usuario/inventory-core/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL
// (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockRecordColumns = `variant_id, location_id, quantity, reorder_threshold,
		average_cost, cumulative_received_qty, cumulative_cost_amount, created_at, updated_at`

// Get obtiene el registro actual; si la fila no existe devuelve un registro en cero
// (los registros nacen perezosamente en la primera mutación).
func (r *StockRecordRepo) Get(variantID, locationID string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE variant_id = $1 AND location_id = $2`
	return r.scanOne(query, variantID, locationID)
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE) para
// serializar mutaciones concurrentes sobre la misma pareja.
func (r *StockRecordRepo) GetForUpdate(variantID, locationID string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records WHERE variant_id = $1 AND location_id = $2
		FOR UPDATE`
	return r.scanOne(query, variantID, locationID)
}

func (r *StockRecordRepo) scanOne(query, variantID, locationID string) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := r.q.QueryRow(context.Background(), query, variantID, locationID).Scan(
		&s.VariantID, &s.LocationID, &s.Quantity, &s.ReorderThreshold,
		&s.AverageCost, &s.CumulativeReceivedQty, &s.CumulativeCostAmount,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewStockRecord(variantID, locationID), nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el registro por (variante, ubicación).
func (r *StockRecordRepo) Upsert(record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (variant_id, location_id, quantity, reorder_threshold,
			average_cost, cumulative_received_qty, cumulative_cost_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (variant_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
			reorder_threshold = EXCLUDED.reorder_threshold,
			average_cost = EXCLUDED.average_cost,
			cumulative_received_qty = EXCLUDED.cumulative_received_qty,
			cumulative_cost_amount = EXCLUDED.cumulative_cost_amount,
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		record.VariantID, record.LocationID, record.Quantity, record.ReorderThreshold,
		record.AverageCost, record.CumulativeReceivedQty, record.CumulativeCostAmount,
	)
	if err != nil {
		return fmt.Errorf("upsert stock record: %w", err)
	}
	return nil
}

// ListBelowThreshold registros con cantidad en o por debajo del umbral de reorden.
func (r *StockRecordRepo) ListBelowThreshold(locationID string, limit, offset int) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE quantity <= reorder_threshold AND reorder_threshold > 0`
	args := []any{}
	pos := 1
	if locationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, locationID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY quantity - reorder_threshold ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list below threshold: %w", err)
	}
	defer rows.Close()

	var records []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(
			&s.VariantID, &s.LocationID, &s.Quantity, &s.ReorderThreshold,
			&s.AverageCost, &s.CumulativeReceivedQty, &s.CumulativeCostAmount,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		records = append(records, &s)
	}
	return records, rows.Err()
}
