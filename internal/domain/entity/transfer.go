package entity

import "time"

// Estados del ciclo de vida de un traslado. completed y cancelled son terminales.
const (
	TransferStatusPending   = "pending"
	TransferStatusInTransit = "in_transit"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// TransferRecord traslado de una cantidad fija de una variante entre dos ubicaciones,
// coordinado por la máquina de estados del orquestador.
type TransferRecord struct {
	ID               string
	SourceLocationID string
	DestLocationID   string
	VariantID        string
	Quantity         int64 // siempre > 0
	Status           string
	ActorID          string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsValidTransferStatus valida que el string sea un estado conocido.
func IsValidTransferStatus(status string) bool {
	switch status {
	case TransferStatusPending, TransferStatusInTransit, TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}

// IsTerminalTransferStatus indica si el estado no admite más transiciones.
func IsTerminalTransferStatus(status string) bool {
	return status == TransferStatusCompleted || status == TransferStatusCancelled
}
