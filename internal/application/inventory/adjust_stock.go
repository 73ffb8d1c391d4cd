package inventory

import (
	"context"

	"github.com/tu-usuario/inventory-core/internal/application/dto"
	"github.com/tu-usuario/inventory-core/internal/domain"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
)

// AdjustFromRequest adapta el request HTTP a las operaciones del AdjustmentService.
// La autorización (may-adjust) ya fue decidida por la capa externa antes de llegar aquí:
// el núcleo solo recibe el actorID opaco para el asiento.
func (s *AdjustmentService) AdjustFromRequest(ctx context.Context, actorID string, in dto.AdjustStockRequest) (*AdjustmentResult, error) {
	switch in.Action {
	case dto.AdjustActionAdd:
		return s.Credit(ctx, in.VariantID, in.LocationID, in.Quantity,
			actorID, entity.EntryTypeAdjustmentAdd, in.Note, Meta{})
	case dto.AdjustActionReduce:
		return s.Debit(ctx, in.VariantID, in.LocationID, in.Quantity,
			actorID, entity.EntryTypeAdjustmentReduce, in.Note, Meta{})
	case dto.AdjustActionSet:
		return s.Set(ctx, in.VariantID, in.LocationID, in.Quantity, actorID, in.Note)
	default:
		return nil, domain.ErrInvalidInput
	}
}
