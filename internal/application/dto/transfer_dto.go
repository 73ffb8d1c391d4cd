package dto

import (
	"time"

	"github.com/tu-usuario/inventory-core/internal/domain/entity"
)

// CreateTransferRequest creación de un traslado entre ubicaciones.
// initial_status vacío equivale a pending; "completed" ejecuta el traslado en el acto.
type CreateTransferRequest struct {
	SourceLocationID string `json:"source_location_id"`
	DestLocationID   string `json:"dest_location_id"`
	VariantID        string `json:"variant_id"`
	Quantity         int64  `json:"quantity"`
	Notes            string `json:"notes,omitempty"`
	InitialStatus    string `json:"initial_status,omitempty"`
}

// UpdateTransferStatusRequest transición de estado de un traslado.
type UpdateTransferStatusRequest struct {
	Status string `json:"status"` // pending | in_transit | completed | cancelled
	Notes  string `json:"notes,omitempty"`
}

// CancelTransferRequest cancelación con motivo.
type CancelTransferRequest struct {
	Reason string `json:"reason"`
}

// TransferResponse representación HTTP de un traslado.
type TransferResponse struct {
	ID               string    `json:"id"`
	SourceLocationID string    `json:"source_location_id"`
	DestLocationID   string    `json:"dest_location_id"`
	VariantID        string    `json:"variant_id"`
	Quantity         int64     `json:"quantity"`
	Status           string    `json:"status"`
	ActorID          string    `json:"actor_id"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewTransferResponse mapea la entidad a su representación HTTP.
func NewTransferResponse(t *entity.TransferRecord) TransferResponse {
	return TransferResponse{
		ID:               t.ID,
		SourceLocationID: t.SourceLocationID,
		DestLocationID:   t.DestLocationID,
		VariantID:        t.VariantID,
		Quantity:         t.Quantity,
		Status:           t.Status,
		ActorID:          t.ActorID,
		Notes:            t.Notes,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
