package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldserve-backend/models"
	"fieldserve-backend/services"
	"fieldserve-backend/utils/logger"
)

type InvoiceController struct {
	ctx            context.Context
	invoiceService services.InvoiceServiceInterface
	logger         logger.Logger
}

func NewInvoiceController(ctx context.Context, invoiceService services.InvoiceServiceInterface, logger logger.Logger) *InvoiceController {
	return &InvoiceController{
		ctx:            ctx,
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// IssueInvoice handles POST /api/v1/workorders/:id/invoice
func (h *InvoiceController) IssueInvoice(c *gin.Context) {
	orderID := c.Param("id")

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.IssueInvoice(h.ctx, orderID, actor)
	if err != nil {
		h.logger.Error("Failed to issue invoice", err)
		respondEngineError(c, "Failed to issue invoice", err)
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: "Invoice issued successfully",
		Data:    invoice,
	})
}

// GetInvoice handles GET /api/v1/invoices/:id
func (h *InvoiceController) GetInvoice(c *gin.Context) {
	invoiceID := c.Param("id")

	invoice, err := h.invoiceService.GetInvoice(h.ctx, invoiceID)
	if err != nil {
		h.logger.Error("Failed to get invoice", err)
		respondEngineError(c, "Failed to get invoice", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Invoice retrieved successfully",
		Data:    invoice,
	})
}

// GetInvoiceByOrder handles GET /api/v1/workorders/:id/invoice
func (h *InvoiceController) GetInvoiceByOrder(c *gin.Context) {
	orderID := c.Param("id")

	invoice, err := h.invoiceService.GetInvoiceByOrder(h.ctx, orderID)
	if err != nil {
		h.logger.Error("Failed to get invoice for order", err)
		respondEngineError(c, "Failed to get invoice for order", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Invoice retrieved successfully",
		Data:    invoice,
	})
}

// SendInvoice handles POST /api/v1/invoices/:id/send
func (h *InvoiceController) SendInvoice(c *gin.Context) {
	invoiceID := c.Param("id")

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.SendInvoice(h.ctx, invoiceID, actor)
	if err != nil {
		h.logger.Error("Failed to send invoice", err)
		respondEngineError(c, "Failed to send invoice", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Invoice sent successfully",
		Data:    invoice,
	})
}

// MarkPaid handles POST /api/v1/invoices/:id/pay
func (h *InvoiceController) MarkPaid(c *gin.Context) {
	invoiceID := c.Param("id")

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkPaid(h.ctx, invoiceID, actor)
	if err != nil {
		h.logger.Error("Failed to mark invoice paid", err)
		respondEngineError(c, "Failed to mark invoice paid", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Invoice marked paid successfully",
		Data:    invoice,
	})
}

// CancelInvoice handles POST /api/v1/invoices/:id/cancel
func (h *InvoiceController) CancelInvoice(c *gin.Context) {
	invoiceID := c.Param("id")

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(h.ctx, invoiceID, actor)
	if err != nil {
		h.logger.Error("Failed to cancel invoice", err)
		respondEngineError(c, "Failed to cancel invoice", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Invoice cancelled successfully",
		Data:    invoice,
	})
}
