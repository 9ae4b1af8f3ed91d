package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"fieldserve-backend/dal"
	"fieldserve-backend/middelware"
	"fieldserve-backend/models"
	"fieldserve-backend/repository"
	"fieldserve-backend/services"
	"fieldserve-backend/utils/logger"
)

type Controller struct {
	Contract  *ContractController
	WorkOrder *WorkOrderController
	Quotation *QuotationController
	Invoice   *InvoiceController

	jwtManager *middelware.JWTManager
}

func NewController(ctx context.Context, cfg *models.Config, log logger.Logger) *Controller {
	dbclient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}

	repos := repository.NewRepository(dbclient, cfg, log)
	container := services.NewService(repos, log, cfg)
	jwtManager := middelware.NewJWTManager(cfg, log)

	return &Controller{
		Contract:   NewContractController(ctx, container.GetContractService(), log),
		WorkOrder:  NewWorkOrderController(ctx, container.GetWorkOrderService(), log),
		Quotation:  NewQuotationController(ctx, container.GetQuotationService(), log),
		Invoice:    NewInvoiceController(ctx, container.GetInvoiceService(), log),
		jwtManager: jwtManager,
	}
}

func (c *Controller) RegisterRoutes(ctx context.Context, config *models.Config, r *gin.Engine, basePath string) error {
	v1 := r.Group(basePath)

	// Health check endpoint (no auth required)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": config.AppVersion,
			"service": config.AppName,
		})
	})

	auth := c.jwtManager.AuthMiddleware()
	backoffice := c.jwtManager.RequireRole(models.RoleAdmin, models.RoleManager)

	contracts := v1.Group("/contracts")
	contracts.POST("", auth, backoffice, c.Contract.CreateContract)
	contracts.GET("/:id", auth, c.Contract.GetContract)
	contracts.GET("", auth, c.Contract.ListContracts)
	contracts.POST("/:id/activate", auth, backoffice, c.Contract.ActivateContract)
	contracts.POST("/:id/terminate", auth, backoffice, c.Contract.TerminateContract)
	contracts.PUT("/:id/rates", auth, backoffice, c.Contract.UpsertRate)
	contracts.PUT("/:id/slas", auth, backoffice, c.Contract.UpsertSLA)

	orders := v1.Group("/workorders")
	orders.POST("", auth, c.WorkOrder.CreateWorkOrder)
	orders.GET("", auth, c.WorkOrder.ListWorkOrders)
	orders.GET("/:id", auth, c.WorkOrder.GetWorkOrder)
	orders.POST("/:id/transition", auth, c.WorkOrder.TransitionWorkOrder)
	orders.GET("/:id/sla", auth, c.WorkOrder.EvaluateSLA)
	orders.POST("/:id/quotations", auth, backoffice, c.Quotation.DraftQuotation)
	orders.GET("/:id/quotations", auth, c.Quotation.ListQuotations)
	orders.POST("/:id/invoice", auth, backoffice, c.Invoice.IssueInvoice)
	orders.GET("/:id/invoice", auth, c.Invoice.GetInvoiceByOrder)

	quotations := v1.Group("/quotations")
	quotations.POST("/:id/send", auth, backoffice, c.Quotation.SendQuotation)
	quotations.POST("/:id/decide", auth, c.Quotation.DecideQuotation)

	invoices := v1.Group("/invoices")
	invoices.GET("/:id", auth, c.Invoice.GetInvoice)
	invoices.POST("/:id/send", auth, backoffice, c.Invoice.SendInvoice)
	invoices.POST("/:id/pay", auth, backoffice, c.Invoice.MarkPaid)
	invoices.POST("/:id/cancel", auth, backoffice, c.Invoice.CancelInvoice)

	srv := &http.Server{
		Addr:    config.AppHost + ":" + config.AppPort,
		Handler: r,
	}

	log := logger.NewLogger(config.LogLevel, config.LogFormat)
	log.Infof("Starting server on %s:%s", config.AppHost, config.AppPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// formatValidationErrors renders validator errors as one readable line.
func formatValidationErrors(err error) string {
	var errorMessages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				errorMessages = append(errorMessages, fieldError.Field()+" is required")
			case "min":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param()+" characters/items")
			case "max":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at most "+fieldError.Param()+" characters/items")
			case "oneof":
				errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
			case "gt":
				errorMessages = append(errorMessages, fieldError.Field()+" must be greater than "+fieldError.Param())
			case "gte":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param())
			default:
				errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
			}
		}
	}

	return strings.Join(errorMessages, "; ")
}

// actorFromContext resolves the authenticated actor set by the auth
// middleware, writing the 401 response itself when absent.
func actorFromContext(c *gin.Context) (models.Actor, bool) {
	claims, exists := c.Get("jwt_claims")
	jwtClaims, ok := claims.(*models.JWTClaims)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: "Actor not authenticated",
			},
		})
		return models.Actor{}, false
	}
	return jwtClaims.ToActor(), true
}

// statusForError maps engine error kinds onto HTTP status codes.
func statusForError(err error) int {
	switch services.KindOf(err) {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindValidation, services.KindInvalidQuotationReason:
		return http.StatusBadRequest
	case services.KindInvalidTransition, services.KindConcurrentModification, services.KindContractOverlap:
		return http.StatusConflict
	case services.KindNoRateForCategory, services.KindNoSLADefined, services.KindMissingApproval:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondEngineError writes a failed operation using the engine error's kind
// as the error type.
func respondEngineError(c *gin.Context, message string, err error) {
	status := statusForError(err)
	errType := string(services.KindOf(err))
	if errType == "" {
		errType = "InternalError"
	}
	c.JSON(status, models.APIResponse{
		Status:  "error",
		Code:    status,
		Message: message,
		Error: &models.APIError{
			Type:    errType,
			Details: err.Error(),
		},
	})
}
