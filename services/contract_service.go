package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fieldserve-backend/models"
	"fieldserve-backend/repository"
	"fieldserve-backend/utils"
	"fieldserve-backend/utils/logger"
)

// ContractService manages contracts and their rate and SLA tables. Contracts
// are created as drafts; activation enforces the one-active-per-client rule.
type ContractService struct {
	contractRepo repository.ContractRepositoryInterface
	logger       logger.Logger
}

func NewContractService(contractRepo repository.ContractRepositoryInterface, log logger.Logger) *ContractService {
	return &ContractService{contractRepo: contractRepo, logger: log}
}

func (s *ContractService) CreateContract(ctx context.Context, req *models.CreateContractRequest) (*models.Contract, error) {
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		return nil, NewEngineError(KindValidation,
			"contract end date must be after start date",
			"clientID", req.ClientID)
	}

	contract := &models.Contract{
		ContractID:       utils.GenerateUUID(),
		ClientID:         req.ClientID,
		Type:             req.Type,
		Status:           models.ContractStatusDraft,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		AutoRenewal:      req.AutoRenewal,
		PaymentTermsDays: req.PaymentTermsDays,
	}

	var err error
	if contract.EmergencyLimit, err = optionalMoney(req.EmergencyLimit, "emergencyLimit"); err != nil {
		return nil, err
	}
	if contract.AutoApproveLimit, err = optionalMoney(req.AutoApproveLimit, "autoApproveLimit"); err != nil {
		return nil, err
	}
	discount, err := percentOrZero(req.DiscountPercent, "discountPercent")
	if err != nil {
		return nil, err
	}
	contract.DiscountPercent = discount

	created, err := s.contractRepo.CreateContract(ctx, contract)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Contract %s created for client %s (%s)", created.ContractID, created.ClientID, created.Type)
	return created, nil
}

// ActivateContract promotes a draft to active. A client may hold only one
// active contract at a time, so an overlapping active contract blocks it.
func (s *ContractService) ActivateContract(ctx context.Context, contractID string) (*models.Contract, error) {
	contract, err := s.getContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusDraft {
		return nil, NewEngineError(KindInvalidTransition,
			"only draft contracts can be activated",
			"contractID", contractID, "status", string(contract.Status))
	}

	siblings, err := s.contractRepo.GetContractsByClient(ctx, contract.ClientID)
	if err != nil {
		return nil, err
	}
	for _, other := range siblings {
		if other.ContractID != contract.ContractID && other.Status == models.ContractStatusActive {
			return nil, NewEngineError(KindContractOverlap,
				"client already has an active contract",
				"clientID", contract.ClientID, "activeContractID", other.ContractID)
		}
	}

	contract.Status = models.ContractStatusActive
	return s.contractRepo.UpdateContract(ctx, contract)
}

// TerminateContract ends an active contract immediately.
func (s *ContractService) TerminateContract(ctx context.Context, contractID string) (*models.Contract, error) {
	contract, err := s.getContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusActive {
		return nil, NewEngineError(KindInvalidTransition,
			"only active contracts can be terminated",
			"contractID", contractID, "status", string(contract.Status))
	}

	now := time.Now()
	contract.Status = models.ContractStatusTerminated
	contract.EndDate = &now
	updated, err := s.contractRepo.UpdateContract(ctx, contract)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Contract %s terminated", contractID)
	return updated, nil
}

// UpsertRate replaces or adds the rate row for one service category.
func (s *ContractService) UpsertRate(ctx context.Context, contractID string, req *models.UpsertContractRateRequest) (*models.Contract, error) {
	contract, err := s.getContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	hourly, err := decimal.NewFromString(req.HourlyRate)
	if err != nil || !hourly.IsPositive() {
		return nil, NewEngineError(KindValidation,
			"hourly rate must be a positive decimal",
			"contractID", contractID, "category", string(req.Category))
	}

	rate := models.ContractRate{
		Category:   req.Category,
		HourlyRate: models.MoneyFromDecimal(hourly),
	}
	if rate.NightMultiplier, err = multiplierOrZero(req.NightMultiplier, "nightMultiplier"); err != nil {
		return nil, err
	}
	if rate.WeekendMultiplier, err = multiplierOrZero(req.WeekendMultiplier, "weekendMultiplier"); err != nil {
		return nil, err
	}
	if rate.HolidayMultiplier, err = multiplierOrZero(req.HolidayMultiplier, "holidayMultiplier"); err != nil {
		return nil, err
	}
	if rate.EmergencyMultiplier, err = multiplierOrZero(req.EmergencyMultiplier, "emergencyMultiplier"); err != nil {
		return nil, err
	}

	replaced := false
	for i := range contract.Rates {
		if contract.Rates[i].Category == req.Category {
			contract.Rates[i] = rate
			replaced = true
			break
		}
	}
	if !replaced {
		contract.Rates = append(contract.Rates, rate)
	}

	return s.contractRepo.UpdateContract(ctx, contract)
}

// UpsertSLA replaces or adds the SLA row for one priority tier. The three
// windows must be strictly increasing.
func (s *ContractService) UpsertSLA(ctx context.Context, contractID string, req *models.UpsertContractSLARequest) (*models.Contract, error) {
	contract, err := s.getContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if req.FirstResponseMinutes >= req.OnSiteMinutes || req.OnSiteMinutes >= req.ResolutionMinutes {
		return nil, NewEngineError(KindValidation,
			"SLA windows must satisfy firstResponse < onSite < resolution",
			"contractID", contractID, "priority", string(req.Priority))
	}

	penalty, err := percentOrZero(req.PenaltyPercent, "penaltyPercent")
	if err != nil {
		return nil, err
	}

	sla := models.ContractSLA{
		Priority:             req.Priority,
		FirstResponseMinutes: req.FirstResponseMinutes,
		OnSiteMinutes:        req.OnSiteMinutes,
		ResolutionMinutes:    req.ResolutionMinutes,
		PenaltyPercent:       penalty,
	}

	replaced := false
	for i := range contract.SLAs {
		if contract.SLAs[i].Priority == req.Priority {
			contract.SLAs[i] = sla
			replaced = true
			break
		}
	}
	if !replaced {
		contract.SLAs = append(contract.SLAs, sla)
	}

	return s.contractRepo.UpdateContract(ctx, contract)
}

func (s *ContractService) GetContract(ctx context.Context, contractID string) (*models.Contract, error) {
	return s.getContract(ctx, contractID)
}

func (s *ContractService) ListContractsByClient(ctx context.Context, clientID string) ([]*models.Contract, error) {
	return s.contractRepo.GetContractsByClient(ctx, clientID)
}

// ActiveForClient returns the contract covering the client right now, if any.
func (s *ContractService) ActiveForClient(ctx context.Context, clientID string, at time.Time) (*models.Contract, error) {
	contracts, err := s.contractRepo.GetContractsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for _, contract := range contracts {
		if contract.IsActiveAt(at) {
			return contract, nil
		}
	}
	return nil, nil
}

func (s *ContractService) getContract(ctx context.Context, contractID string) (*models.Contract, error) {
	if contractID == "" {
		return nil, NewEngineError(KindValidation, "contract ID is required")
	}
	contract, err := s.contractRepo.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, NewEngineError(KindNotFound, "contract not found", "contractID", contractID)
	}
	return contract, nil
}

func optionalMoney(raw, field string) (*models.Money, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return nil, NewEngineError(KindValidation,
			"amount must be a non-negative decimal", "field", field)
	}
	money := models.MoneyFromDecimal(value)
	return &money, nil
}

func percentOrZero(raw, field string) (models.Money, error) {
	if raw == "" {
		return models.MoneyFromInt(0), nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() || value.GreaterThan(hundred) {
		return models.Money{}, NewEngineError(KindValidation,
			"percent must be between 0 and 100", "field", field)
	}
	return models.MoneyFromDecimal(value), nil
}

func multiplierOrZero(raw, field string) (models.Money, error) {
	if raw == "" {
		return models.MoneyFromInt(0), nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return models.Money{}, NewEngineError(KindValidation,
			"multiplier must be a non-negative decimal", "field", field)
	}
	return models.MoneyFromDecimal(value), nil
}
