package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"fieldserve-backend/models"
	"fieldserve-backend/services"
	"fieldserve-backend/utils/logger"
)

type QuotationController struct {
	ctx              context.Context
	quotationService services.QuotationServiceInterface
	logger           logger.Logger
	validator        *validator.Validate
}

func NewQuotationController(ctx context.Context, quotationService services.QuotationServiceInterface, logger logger.Logger) *QuotationController {
	return &QuotationController{
		ctx:              ctx,
		quotationService: quotationService,
		logger:           logger,
		validator:        validator.New(),
	}
}

// DraftQuotation handles POST /api/v1/workorders/:id/quotations
func (h *QuotationController) DraftQuotation(c *gin.Context) {
	orderID := c.Param("id")

	var req models.DraftQuotationRequest
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

	quotation, err := h.quotationService.DraftQuotation(h.ctx, orderID, &req, actor)
	if err != nil {
		h.logger.Error("Failed to draft quotation", err)
		respondEngineError(c, "Failed to draft quotation", err)
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: "Quotation drafted successfully",
		Data:    quotation,
	})
}

// SendQuotation handles POST /api/v1/quotations/:id/send
func (h *QuotationController) SendQuotation(c *gin.Context) {
	quotationID := c.Param("id")

	var req struct {
		ExpectedVersion int64 `json:"expectedVersion" validate:"gte=0"`
	}
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

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	quotation, err := h.quotationService.SendQuotation(h.ctx, quotationID, req.ExpectedVersion, actor)
	if err != nil {
		h.logger.Error("Failed to send quotation", err)
		respondEngineError(c, "Failed to send quotation", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Quotation sent successfully",
		Data:    quotation,
	})
}

// DecideQuotation handles POST /api/v1/quotations/:id/decide
func (h *QuotationController) DecideQuotation(c *gin.Context) {
	quotationID := c.Param("id")

	var req models.DecideQuotationRequest
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

	quotation, err := h.quotationService.DecideQuotation(h.ctx, quotationID, &req, actor)
	if err != nil {
		h.logger.Error("Failed to decide quotation", err)
		respondEngineError(c, "Failed to decide quotation", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Quotation decided successfully",
		Data:    quotation,
	})
}

// ListQuotations handles GET /api/v1/workorders/:id/quotations
func (h *QuotationController) ListQuotations(c *gin.Context) {
	orderID := c.Param("id")

	quotations, err := h.quotationService.ListQuotations(h.ctx, orderID)
	if err != nil {
		h.logger.Error("Failed to list quotations", err)
		respondEngineError(c, "Failed to list quotations", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Quotations retrieved successfully",
		Data:    quotations,
	})
}
