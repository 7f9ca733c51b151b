package handler

import (
	"github.com/gin-gonic/gin"

	appsettings "github.com/saebakery/backend/internal/application/settings"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
)

// SettingsHandler exposes the costing method switch over HTTP
type SettingsHandler struct {
	BaseHandler
	service *appsettings.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service *appsettings.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// RegisterRoutes registers settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	s := rg.Group("/settings")
	{
		s.GET("/inventory-method", h.GetMethod)
		s.PUT("/inventory-method", h.SetMethod)
	}
}

// MethodResponse carries the active costing method
type MethodResponse struct {
	Method string `json:"method"`
}

// GetMethod returns the active costing method
func (h *SettingsHandler) GetMethod(c *gin.Context) {
	method, err := h.service.ActiveMethod(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MethodResponse{Method: method.String()})
}

// SetMethodRequest is the payload for changing the costing method
type SetMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

// SetMethod changes the active costing method. The change applies to future
// consumptions only; past results are never recomputed.
func (h *SettingsHandler) SetMethod(c *gin.Context) {
	var req SetMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	method := strategy.CostMethod(req.Method)
	if err := h.service.SetActiveMethod(c.Request.Context(), method); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MethodResponse{Method: method.String()})
}
