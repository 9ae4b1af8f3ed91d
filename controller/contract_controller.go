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

type ContractController struct {
	ctx             context.Context
	contractService services.ContractServiceInterface
	logger          logger.Logger
	validator       *validator.Validate
}

func NewContractController(ctx context.Context, contractService services.ContractServiceInterface, logger logger.Logger) *ContractController {
	return &ContractController{
		ctx:             ctx,
		contractService: contractService,
		logger:          logger,
		validator:       validator.New(),
	}
}

// CreateContract handles POST /api/v1/contracts
func (h *ContractController) CreateContract(c *gin.Context) {
	var req models.CreateContractRequest
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

	contract, err := h.contractService.CreateContract(h.ctx, &req)
	if err != nil {
		h.logger.Error("Failed to create contract", err)
		respondEngineError(c, "Failed to create contract", err)
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: "Contract created successfully",
		Data:    contract,
	})
}

// GetContract handles GET /api/v1/contracts/:id
func (h *ContractController) GetContract(c *gin.Context) {
	contractID := c.Param("id")

	contract, err := h.contractService.GetContract(h.ctx, contractID)
	if err != nil {
		h.logger.Error("Failed to get contract", err)
		respondEngineError(c, "Failed to get contract", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Contract retrieved successfully",
		Data:    contract,
	})
}

// ListContracts handles GET /api/v1/contracts?clientID=...
func (h *ContractController) ListContracts(c *gin.Context) {
	clientID := c.Query("clientID")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Invalid request",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "clientID query parameter is required",
				Field:   "clientID",
			},
		})
		return
	}

	contracts, err := h.contractService.ListContractsByClient(h.ctx, clientID)
	if err != nil {
		h.logger.Error("Failed to list contracts", err)
		respondEngineError(c, "Failed to list contracts", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Contracts retrieved successfully",
		Data:    contracts,
	})
}

// ActivateContract handles POST /api/v1/contracts/:id/activate
func (h *ContractController) ActivateContract(c *gin.Context) {
	contractID := c.Param("id")

	contract, err := h.contractService.ActivateContract(h.ctx, contractID)
	if err != nil {
		h.logger.Error("Failed to activate contract", err)
		respondEngineError(c, "Failed to activate contract", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Contract activated successfully",
		Data:    contract,
	})
}

// TerminateContract handles POST /api/v1/contracts/:id/terminate
func (h *ContractController) TerminateContract(c *gin.Context) {
	contractID := c.Param("id")

	contract, err := h.contractService.TerminateContract(h.ctx, contractID)
	if err != nil {
		h.logger.Error("Failed to terminate contract", err)
		respondEngineError(c, "Failed to terminate contract", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Contract terminated successfully",
		Data:    contract,
	})
}

// UpsertRate handles PUT /api/v1/contracts/:id/rates
func (h *ContractController) UpsertRate(c *gin.Context) {
	contractID := c.Param("id")

	var req models.UpsertContractRateRequest
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

	contract, err := h.contractService.UpsertRate(h.ctx, contractID, &req)
	if err != nil {
		h.logger.Error("Failed to upsert contract rate", err)
		respondEngineError(c, "Failed to upsert contract rate", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Contract rate saved successfully",
		Data:    contract,
	})
}

// UpsertSLA handles PUT /api/v1/contracts/:id/slas
func (h *ContractController) UpsertSLA(c *gin.Context) {
	contractID := c.Param("id")

	var req models.UpsertContractSLARequest
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

	contract, err := h.contractService.UpsertSLA(h.ctx, contractID, &req)
	if err != nil {
		h.logger.Error("Failed to upsert contract SLA", err)
		respondEngineError(c, "Failed to upsert contract SLA", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Contract SLA saved successfully",
		Data:    contract,
	})
}
