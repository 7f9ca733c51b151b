package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/saebakery/backend/internal/application/inventory"
	"github.com/saebakery/backend/internal/domain/inventory"
	"github.com/saebakery/backend/internal/interfaces/http/dto"
)

// InventoryHandler exposes the batch ledger over HTTP
type InventoryHandler struct {
	BaseHandler
	consumption *appinventory.ConsumptionService
	valuation   *appinventory.ValuationService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(consumption *appinventory.ConsumptionService, valuation *appinventory.ValuationService) *InventoryHandler {
	return &InventoryHandler{
		consumption: consumption,
		valuation:   valuation,
	}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/replenish", h.Replenish)
		inv.POST("/consume", h.Consume)
		inv.POST("/restore", h.Restore)
		inv.POST("/reverse", h.Reverse)
		inv.GET("/:productId/stock", h.Stock)
		inv.GET("/:productId/valuation", h.Valuation)
		inv.GET("/:productId/batches", h.Batches)
		inv.DELETE("/batches/:id", h.DeleteBatch)
	}
}

// ReplenishRequest is the payload for creating an inbound batch
type ReplenishRequest struct {
	ProductID  string  `json:"product_id" binding:"required,uuid"`
	BatchLabel string  `json:"batch_label" binding:"required"`
	Source     string  `json:"source" binding:"required"`
	DateIn     string  `json:"date_in"` // YYYY-MM-DD, defaults to today
	Quantity   float64 `json:"quantity" binding:"required,gt=0"`
	UnitCost   float64 `json:"unit_cost" binding:"min=0"`
}

// Replenish creates a fresh inbound batch
func (h *InventoryHandler) Replenish(c *gin.Context) {
	var req ReplenishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	source := inventory.BatchSource(req.Source)
	if !source.IsValid() {
		h.BadRequest(c, "Invalid batch source: "+req.Source)
		return
	}

	var dateIn time.Time
	if req.DateIn != "" {
		dateIn, err = time.Parse("2006-01-02", req.DateIn)
		if err != nil {
			h.BadRequest(c, "Invalid date_in, expected YYYY-MM-DD")
			return
		}
	}

	batch, err := h.consumption.Replenish(c.Request.Context(), appinventory.ReplenishInput{
		ProductID:  productID,
		BatchLabel: req.BatchLabel,
		Source:     source,
		DateIn:     dateIn,
		Quantity:   decimal.NewFromFloat(req.Quantity),
		UnitCost:   decimal.NewFromFloat(req.UnitCost),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, appinventory.ToBatchResponse(batch))
}

// ConsumeRequest is the payload for a stock consumption
type ConsumeRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"min=0"`
}

// ConsumptionResponse is the cost breakdown of one consumption
type ConsumptionResponse struct {
	Method             string         `json:"method"`
	Quantity           float64        `json:"quantity"`
	TotalCost          float64        `json:"total_cost"`
	AverageCostPerUnit float64        `json:"average_cost_per_unit"`
	Draws              []DrawResponse `json:"draws"`
}

// DrawResponse is one batch's contribution to a consumption
type DrawResponse struct {
	BatchID       string  `json:"batch_id"`
	BatchLabel    string  `json:"batch_label"`
	QuantityTaken float64 `json:"quantity_taken"`
	UnitCost      float64 `json:"unit_cost"`
	CostTaken     float64 `json:"cost_taken"`
}

func toConsumptionResponse(result *inventory.ConsumptionResult) ConsumptionResponse {
	draws := make([]DrawResponse, 0, len(result.Draws))
	for _, d := range result.Draws {
		draws = append(draws, DrawResponse{
			BatchID:       d.BatchID.String(),
			BatchLabel:    d.BatchLabel,
			QuantityTaken: d.QuantityTaken.InexactFloat64(),
			UnitCost:      d.UnitCost.InexactFloat64(),
			CostTaken:     d.CostTaken.InexactFloat64(),
		})
	}
	return ConsumptionResponse{
		Method:             result.Method.String(),
		Quantity:           result.Quantity.InexactFloat64(),
		TotalCost:          result.TotalCost.InexactFloat64(),
		AverageCostPerUnit: result.AverageCostPerUnit.InexactFloat64(),
		Draws:              draws,
	}
}

// Consume draws stock from the ledger under the active costing method
func (h *InventoryHandler) Consume(c *gin.Context) {
	var req ConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	if req.Quantity < 0 {
		h.BadRequest(c, "Quantity cannot be negative")
		return
	}

	result, err := h.consumption.Consume(c.Request.Context(), productID, decimal.NewFromFloat(req.Quantity))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toConsumptionResponse(result))
}

// RestoreRequest is the payload for returning stock to the ledger
type RestoreRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	UnitCost  float64 `json:"unit_cost" binding:"min=0"`
	Source    string  `json:"source" binding:"required"`
}

// RestoreResponse reports where restored quantity ended up
type RestoreResponse struct {
	BatchID      string `json:"batch_id"`
	CreatedBatch bool   `json:"created_batch"`
}

// Restore returns quantity to the ledger at a given unit cost
func (h *InventoryHandler) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	source := inventory.BatchSource(req.Source)
	if !source.IsValid() {
		h.BadRequest(c, "Invalid batch source: "+req.Source)
		return
	}

	outcome, err := h.consumption.Restore(
		c.Request.Context(),
		productID,
		decimal.NewFromFloat(req.Quantity),
		decimal.NewFromFloat(req.UnitCost),
		source,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RestoreResponse{
		BatchID:      outcome.BatchID.String(),
		CreatedBatch: outcome.CreatedBatch,
	})
}

// ReverseRequest is the payload for reversing a deleted outbound transaction
type ReverseRequest struct {
	Kind      string  `json:"kind" binding:"required"`
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	UnitCost  float64 `json:"unit_cost" binding:"min=0"`
}

// Reverse restores the stock of a deleted outbound transaction
func (h *InventoryHandler) Reverse(c *gin.Context) {
	var req ReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	kind := inventory.OutboundKind(req.Kind)
	if !kind.IsValid() {
		h.BadRequest(c, "Invalid outbound kind: "+req.Kind)
		return
	}

	outcome, err := h.consumption.ReverseOutbound(c.Request.Context(), inventory.OutboundReversal{
		Kind:      kind,
		ProductID: productID,
		Quantity:  decimal.NewFromFloat(req.Quantity),
		UnitCost:  decimal.NewFromFloat(req.UnitCost),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RestoreResponse{
		BatchID:      outcome.BatchID.String(),
		CreatedBatch: outcome.CreatedBatch,
	})
}

// StockResponse is the current stock level of one product
type StockResponse struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// Stock returns the total remaining quantity for a product
func (h *InventoryHandler) Stock(c *gin.Context) {
	productID, ok := h.productIDParam(c)
	if !ok {
		return
	}

	qty, err := h.valuation.CurrentStock(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, StockResponse{
		ProductID: productID.String(),
		Quantity:  qty.InexactFloat64(),
	})
}

// ValuationResponse is the valuation of a product's remaining stock
type ValuationResponse struct {
	ProductID   string  `json:"product_id"`
	Quantity    float64 `json:"quantity"`
	TotalValue  float64 `json:"total_value"`
	AverageCost float64 `json:"average_cost"`
}

// Valuation returns the full valuation of a product's remaining stock
func (h *InventoryHandler) Valuation(c *gin.Context) {
	productID, ok := h.productIDParam(c)
	if !ok {
		return
	}

	value, err := h.valuation.InventoryValue(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ValuationResponse{
		ProductID:   productID.String(),
		Quantity:    value.Quantity.InexactFloat64(),
		TotalValue:  value.TotalValue.InexactFloat64(),
		AverageCost: value.AverageCost.InexactFloat64(),
	})
}

// Batches returns every ledger batch for a product, oldest first
func (h *InventoryHandler) Batches(c *gin.Context) {
	productID, ok := h.productIDParam(c)
	if !ok {
		return
	}

	batches, err := h.valuation.ListBatches(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batches)
}

// DeleteBatch deletes an inbound batch that has had nothing consumed from it
func (h *InventoryHandler) DeleteBatch(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid batch id")
		return
	}
	batchID := uuid.MustParse(req.ID)

	if err := h.consumption.DeleteUntouchedBatch(c.Request.Context(), batchID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *InventoryHandler) productIDParam(c *gin.Context) (uuid.UUID, bool) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product id")
		return uuid.Nil, false
	}
	return productID, true
}
