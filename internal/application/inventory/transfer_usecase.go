package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventory-core/internal/domain"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
	"github.com/tu-usuario/inventory-core/internal/domain/repository"
)

// TransferUseCase orquesta traslados de stock entre ubicaciones a través de una
// máquina de estados explícita (pending → in_transit → completed, con cancelación
// y compensación). Todos los movimientos de stock pasan por el AdjustmentService,
// etiquetando los asientos con el ID del traslado.
type TransferUseCase struct {
	txRunner    TxRunner
	adjustments *AdjustmentService
	transfers   repository.TransferRepository
	stocks      repository.StockRecordRepository
}

// NewTransferUseCase construye el orquestador. transfers y stocks van atados al
// pool (lecturas fuera de transacción); las mutaciones usan txRunner.
func NewTransferUseCase(
	txRunner TxRunner,
	adjustments *AdjustmentService,
	transfers repository.TransferRepository,
	stocks repository.StockRecordRepository,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:    txRunner,
		adjustments: adjustments,
		transfers:   transfers,
		stocks:      stocks,
	}
}

// CreateTransferInput entrada para crear un traslado.
// InitialStatus vacío equivale a pending; completed ejecuta débito y crédito
// como una sola operación lógica en el acto.
type CreateTransferInput struct {
	SourceLocationID string
	DestLocationID   string
	VariantID        string
	Quantity         int64
	ActorID          string
	Notes            string
	InitialStatus    string
}

// CreateTransfer crea el traslado. Con estado inicial pending verifica que haya
// stock disponible en origen; con completed debita origen y acredita destino en
// una única unidad atómica: si algo falla no se persiste nada (ni traslado, ni
// stock, ni asientos).
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, in CreateTransferInput) (*entity.TransferRecord, error) {
	if in.SourceLocationID == "" || in.DestLocationID == "" || in.VariantID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SourceLocationID == in.DestLocationID || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	status := in.InitialStatus
	if status == "" {
		status = entity.TransferStatusPending
	}
	if status != entity.TransferStatusPending && status != entity.TransferStatusCompleted {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	transfer := &entity.TransferRecord{
		ID:               uuid.New().String(),
		SourceLocationID: in.SourceLocationID,
		DestLocationID:   in.DestLocationID,
		VariantID:        in.VariantID,
		Quantity:         in.Quantity,
		Status:           status,
		ActorID:          in.ActorID,
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if status == entity.TransferStatusPending {
		// El débito real ocurre al despachar, pero un traslado que nace sin
		// stock disponible en origen se rechaza desde la creación.
		record, err := uc.stocks.Get(in.VariantID, in.SourceLocationID)
		if err != nil {
			return nil, err
		}
		if record.Quantity < in.Quantity {
			return nil, domain.ErrInsufficientStock
		}
		if err := uc.transfers.Create(transfer); err != nil {
			return nil, err
		}
		return transfer, nil
	}

	// Creación directa en completed: traslado, débito en origen y crédito en
	// destino dentro de una sola transacción.
	meta := Meta{RelatedTransferID: transfer.ID}
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		ledgerRepo repository.LedgerRepository,
		transferRepo repository.TransferRepository,
	) error {
		if err := transferRepo.Create(transfer); err != nil {
			return err
		}
		if _, err := uc.adjustments.DebitInTx(stockRepo, ledgerRepo,
			in.VariantID, in.SourceLocationID, in.Quantity,
			in.ActorID, entity.EntryTypeTransferOut, in.Notes, meta); err != nil {
			return err
		}
		if _, err := uc.adjustments.CreditInTx(stockRepo, ledgerRepo,
			in.VariantID, in.DestLocationID, in.Quantity,
			in.ActorID, entity.EntryTypeTransferIn, in.Notes, meta); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// GetTransfer devuelve el traslado o ErrNotFound.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*entity.TransferRecord, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	transfer, err := uc.transfers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	return transfer, nil
}

// ListTransfersByLocation lista traslados donde la ubicación participa como origen o destino.
func (uc *TransferUseCase) ListTransfersByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.TransferRecord, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.transfers.ListByLocation(locationID, limit, offset)
}

// UpdateTransferStatus aplica una transición de la máquina de estados.
// Reenviar el estado actual es un no-op idempotente (mismo registro, sin asientos
// nuevos); pedir un estado distinto desde completed/cancelled falla con
// ErrInvalidStateTransition.
func (uc *TransferUseCase) UpdateTransferStatus(ctx context.Context, id, newStatus, actorID, notes string) (*entity.TransferRecord, error) {
	if !entity.IsValidTransferStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}
	transfer, err := uc.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer.Status == newStatus {
		return transfer, nil // reenvío idempotente
	}
	if entity.IsTerminalTransferStatus(transfer.Status) {
		return nil, domain.ErrInvalidStateTransition
	}

	switch newStatus {
	case entity.TransferStatusInTransit:
		if transfer.Status != entity.TransferStatusPending {
			return nil, domain.ErrInvalidStateTransition
		}
		return uc.dispatch(ctx, transfer, actorID, notes)
	case entity.TransferStatusCompleted:
		if transfer.Status == entity.TransferStatusPending {
			return uc.completeFromPending(ctx, transfer, actorID, notes)
		}
		return uc.completeFromInTransit(ctx, transfer, actorID, notes)
	case entity.TransferStatusCancelled:
		return uc.CancelTransfer(ctx, id, actorID, notes)
	default:
		// in_transit → pending y similares
		return nil, domain.ErrInvalidStateTransition
	}
}

// CancelTransfer cancela un traslado no terminal, revirtiendo el movimiento de
// stock que ya hubiera ocurrido. Cancelar un traslado ya cancelado es no-op.
func (uc *TransferUseCase) CancelTransfer(ctx context.Context, id, actorID, reason string) (*entity.TransferRecord, error) {
	transfer, err := uc.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer.Status == entity.TransferStatusCancelled {
		return transfer, nil // reenvío idempotente
	}
	if transfer.Status == entity.TransferStatusCompleted {
		return nil, domain.ErrInvalidStateTransition
	}

	var result *entity.TransferRecord
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		ledgerRepo repository.LedgerRepository,
		transferRepo repository.TransferRepository,
	) error {
		locked, err := lockTransfer(transferRepo, id)
		if err != nil {
			return err
		}
		switch locked.Status {
		case entity.TransferStatusCancelled:
			result = locked
			return nil
		case entity.TransferStatusCompleted:
			return domain.ErrInvalidStateTransition
		case entity.TransferStatusInTransit:
			// El origen ya fue debitado al despachar: se le devuelve la cantidad completa.
			if _, err := uc.adjustments.CreditInTx(stockRepo, ledgerRepo,
				locked.VariantID, locked.SourceLocationID, locked.Quantity,
				actorID, entity.EntryTypeTransferCancel, reason,
				Meta{RelatedTransferID: locked.ID}); err != nil {
				return err
			}
		case entity.TransferStatusPending:
			// Sin movimiento de stock previo: solo cambia el estado.
		}
		locked.Status = entity.TransferStatusCancelled
		locked.Notes = appendNote(locked.Notes, reason)
		locked.UpdatedAt = time.Now()
		if err := transferRepo.UpdateStatus(locked); err != nil {
			return err
		}
		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// dispatch pending → in_transit: debita origen; destino intacto hasta completar.
func (uc *TransferUseCase) dispatch(ctx context.Context, transfer *entity.TransferRecord, actorID, notes string) (*entity.TransferRecord, error) {
	var result *entity.TransferRecord
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		ledgerRepo repository.LedgerRepository,
		transferRepo repository.TransferRepository,
	) error {
		locked, err := lockTransfer(transferRepo, transfer.ID)
		if err != nil {
			return err
		}
		if locked.Status == entity.TransferStatusInTransit {
			result = locked
			return nil
		}
		if locked.Status != entity.TransferStatusPending {
			return domain.ErrInvalidStateTransition
		}
		if _, err := uc.adjustments.DebitInTx(stockRepo, ledgerRepo,
			locked.VariantID, locked.SourceLocationID, locked.Quantity,
			actorID, entity.EntryTypeTransferOut, notes,
			Meta{RelatedTransferID: locked.ID}); err != nil {
			return err
		}
		locked.Status = entity.TransferStatusInTransit
		locked.Notes = appendNote(locked.Notes, notes)
		locked.UpdatedAt = time.Now()
		if err := transferRepo.UpdateStatus(locked); err != nil {
			return err
		}
		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// completeFromInTransit in_transit → completed: acredita destino; el origen ya
// fue debitado al despachar.
func (uc *TransferUseCase) completeFromInTransit(ctx context.Context, transfer *entity.TransferRecord, actorID, notes string) (*entity.TransferRecord, error) {
	var result *entity.TransferRecord
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRecordRepository,
		ledgerRepo repository.LedgerRepository,
		transferRepo repository.TransferRepository,
	) error {
		locked, err := lockTransfer(transferRepo, transfer.ID)
		if err != nil {
			return err
		}
		if locked.Status == entity.TransferStatusCompleted {
			result = locked
			return nil
		}
		if locked.Status != entity.TransferStatusInTransit {
			return domain.ErrInvalidStateTransition
		}
		if _, err := uc.adjustments.CreditInTx(stockRepo, ledgerRepo,
			locked.VariantID, locked.DestLocationID, locked.Quantity,
			actorID, entity.EntryTypeTransferIn, notes,
			Meta{RelatedTransferID: locked.ID}); err != nil {
			return err
		}
		locked.Status = entity.TransferStatusCompleted
		locked.Notes = appendNote(locked.Notes, notes)
		locked.UpdatedAt = time.Now()
		if err := transferRepo.UpdateStatus(locked); err != nil {
			return err
		}
		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// completeFromPending pending → completed: débito en origen y crédito en destino
// como saga de unidades independientes con compensación declarada. Si el crédito
// (o la marca de estado) falla, el débito se revierte automáticamente y la
// operación completa falla con ErrTransferFailed; el estado del traslado queda
// intacto para que el caller pueda reintentar.
func (uc *TransferUseCase) completeFromPending(ctx context.Context, transfer *entity.TransferRecord, actorID, notes string) (*entity.TransferRecord, error) {
	meta := Meta{RelatedTransferID: transfer.ID}
	var result *entity.TransferRecord

	sg := NewSaga()
	sg.Add(SagaStep{
		Name: "debitar origen",
		Run: func(ctx context.Context) error {
			_, err := uc.adjustments.Debit(ctx, transfer.VariantID, transfer.SourceLocationID,
				transfer.Quantity, actorID, entity.EntryTypeTransferOut, notes, meta)
			return err
		},
		Compensate: func(ctx context.Context) error {
			_, err := uc.adjustments.Credit(ctx, transfer.VariantID, transfer.SourceLocationID,
				transfer.Quantity, actorID, entity.EntryTypeTransferCancel,
				"reverso automático por fallo del traslado", meta)
			return err
		},
	})
	sg.Add(SagaStep{
		Name: "acreditar destino",
		Run: func(ctx context.Context) error {
			_, err := uc.adjustments.Credit(ctx, transfer.VariantID, transfer.DestLocationID,
				transfer.Quantity, actorID, entity.EntryTypeTransferIn, notes, meta)
			return err
		},
		Compensate: func(ctx context.Context) error {
			_, err := uc.adjustments.Debit(ctx, transfer.VariantID, transfer.DestLocationID,
				transfer.Quantity, actorID, entity.EntryTypeTransferOut,
				"reverso automático por fallo del traslado", meta)
			return err
		},
	})
	sg.Add(SagaStep{
		Name: "marcar completado",
		Run: func(ctx context.Context) error {
			return uc.txRunner.Run(ctx, func(
				_ repository.StockRecordRepository,
				_ repository.LedgerRepository,
				transferRepo repository.TransferRepository,
			) error {
				locked, err := lockTransfer(transferRepo, transfer.ID)
				if err != nil {
					return err
				}
				if locked.Status != entity.TransferStatusPending {
					return domain.ErrInvalidStateTransition
				}
				locked.Status = entity.TransferStatusCompleted
				locked.Notes = appendNote(locked.Notes, notes)
				locked.UpdatedAt = time.Now()
				if err := transferRepo.UpdateStatus(locked); err != nil {
					return err
				}
				result = locked
				return nil
			})
		},
	})

	applied, err := sg.Execute(ctx)
	if err != nil {
		if applied == 0 {
			// El débito nunca ocurrió: el error original (p. ej. stock insuficiente)
			// sube intacto y no hay nada que compensar.
			return nil, err
		}
		return nil, fmt.Errorf("completar traslado %s: %v: %w", transfer.ID, err, domain.ErrTransferFailed)
	}
	return result, nil
}

// lockTransfer bloquea la fila del traslado dentro de la tx y normaliza el no-encontrado.
func lockTransfer(transferRepo repository.TransferRepository, id string) (*entity.TransferRecord, error) {
	locked, err := transferRepo.GetByIDForUpdate(id)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, domain.ErrNotFound
	}
	return locked, nil
}

// appendNote concatena notas preservando las anteriores.
func appendNote(existing, note string) string {
	if note == "" {
		return existing
	}
	if existing == "" {
		return note
	}
	return existing + " | " + note
}
