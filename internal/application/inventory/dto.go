package inventory

import (
	"time"

	"github.com/saebakery/backend/internal/domain/inventory"
)

// BatchResponse is the read model of one ledger batch
type BatchResponse struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	BatchLabel   string  `json:"batch_label"`
	Source       string  `json:"source"`
	DateIn       string  `json:"date_in"`
	QtyInitial   float64 `json:"qty_initial"`
	QtyRemaining float64 `json:"qty_remaining"`
	UnitCost     float64 `json:"unit_cost"`
	TotalValue   float64 `json:"total_value"`
	CreatedAt    string  `json:"created_at"`
}

// ToBatchResponse maps a domain batch to its response representation
func ToBatchResponse(batch *inventory.InventoryBatch) BatchResponse {
	return BatchResponse{
		ID:           batch.ID.String(),
		ProductID:    batch.ProductID.String(),
		BatchLabel:   batch.BatchLabel,
		Source:       batch.Source.String(),
		DateIn:       batch.DateIn.Format("2006-01-02"),
		QtyInitial:   batch.QtyInitial.InexactFloat64(),
		QtyRemaining: batch.QtyRemaining.InexactFloat64(),
		UnitCost:     batch.UnitCost.InexactFloat64(),
		TotalValue:   batch.RemainingValue().InexactFloat64(),
		CreatedAt:    batch.CreatedAt.Format(time.RFC3339),
	}
}
