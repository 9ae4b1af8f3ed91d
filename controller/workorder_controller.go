package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"fieldserve-backend/models"
	"fieldserve-backend/services"
	"fieldserve-backend/utils/logger"
)

type WorkOrderController struct {
	ctx              context.Context
	workOrderService services.WorkOrderServiceInterface
	logger           logger.Logger
	validator        *validator.Validate
}

func NewWorkOrderController(ctx context.Context, workOrderService services.WorkOrderServiceInterface, logger logger.Logger) *WorkOrderController {
	return &WorkOrderController{
		ctx:              ctx,
		workOrderService: workOrderService,
		logger:           logger,
		validator:        validator.New(),
	}
}

// CreateWorkOrder handles POST /api/v1/workorders
func (h *WorkOrderController) CreateWorkOrder(c *gin.Context) {
	var req models.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Invalid request",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: err.Error(),
			},
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.logger.Error("Validation failed:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: formatValidationErrors(err),
			},
		})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	order, err := h.workOrderService.CreateWorkOrder(h.ctx, &req, actor)
	if err != nil {
		h.logger.Error("Failed to create work order", err)
		respondEngineError(c, "Failed to create work order", err)
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: "Work order created successfully",
		Data:    order,
	})
}

// TransitionWorkOrder handles POST /api/v1/workorders/:id/transition
func (h *WorkOrderController) TransitionWorkOrder(c *gin.Context) {
	orderID := c.Param("id")

	var req models.TransitionWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Invalid request",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: err.Error(),
			},
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.logger.Error("Validation failed:", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: formatValidationErrors(err),
			},
		})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	order, err := h.workOrderService.TransitionWorkOrder(h.ctx, orderID, &req, actor)
	if err != nil {
		h.logger.Error("Failed to transition work order", err)
		respondEngineError(c, "Failed to transition work order", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Work order transitioned successfully",
		Data:    order,
	})
}

// GetWorkOrder handles GET /api/v1/workorders/:id
func (h *WorkOrderController) GetWorkOrder(c *gin.Context) {
	orderID := c.Param("id")

	order, err := h.workOrderService.GetWorkOrder(h.ctx, orderID)
	if err != nil {
		h.logger.Error("Failed to get work order", err)
		respondEngineError(c, "Failed to get work order", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Work order retrieved successfully",
		Data:    order,
	})
}

// ListWorkOrders handles GET /api/v1/workorders
func (h *WorkOrderController) ListWorkOrders(c *gin.Context) {
	filter := &models.WorkOrderFilter{
		ClientID:     c.Query("clientID"),
		TechnicianID: c.Query("technicianID"),
		Status:       models.WorkOrderStatus(c.Query("status")),
		Category:     models.ServiceCategory(c.Query("category")),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.FromDate = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.ToDate = t
		}
	}

	orders, err := h.workOrderService.ListWorkOrders(h.ctx, filter)
	if err != nil {
		h.logger.Error("Failed to list work orders", err)
		respondEngineError(c, "Failed to list work orders", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Work orders retrieved successfully",
		Data:    orders,
	})
}

// EvaluateSLA handles GET /api/v1/workorders/:id/sla
func (h *WorkOrderController) EvaluateSLA(c *gin.Context) {
	orderID := c.Param("id")

	evaluation, err := h.workOrderService.EvaluateSLA(h.ctx, orderID)
	if err != nil {
		h.logger.Error("Failed to evaluate SLA", err)
		respondEngineError(c, "Failed to evaluate SLA", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "SLA evaluated successfully",
		Data:    evaluation,
	})
}
