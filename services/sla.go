package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fieldserve-backend/models"
	"fieldserve-backend/utils/logger"
)

// SLAService resolves SLA policies from contracts and evaluates breaches on
// demand. There is no ticking timer: breach state is computed whenever a
// caller asks, from the order's recorded event timestamps.
type SLAService struct {
	defaultPolicy models.ContractSLA
	logger        logger.Logger
}

func NewSLAService(cfg *models.Config, log logger.Logger) *SLAService {
	penalty, err := decimal.NewFromString(cfg.DefaultPenaltyPercent)
	if err != nil {
		penalty = decimal.Zero
	}
	return &SLAService{
		defaultPolicy: models.ContractSLA{
			FirstResponseMinutes: cfg.DefaultFirstResponseMinutes,
			OnSiteMinutes:        cfg.DefaultOnSiteMinutes,
			ResolutionMinutes:    cfg.DefaultResolutionMinutes,
			PenaltyPercent:       models.MoneyFromDecimal(penalty),
		},
		logger: log,
	}
}

// PolicyFor returns the contract's SLA row for the priority. Callers that can
// proceed without a contract commitment should fall back to DefaultPolicy on
// a NO_SLA_DEFINED error; this is the only error the engine recovers from.
func (s *SLAService) PolicyFor(contract *models.Contract, priority models.Priority) (models.ContractSLA, error) {
	if contract != nil {
		if sla, ok := contract.SLAFor(priority); ok {
			return *sla, nil
		}
	}
	contractID := ""
	if contract != nil {
		contractID = contract.ContractID
	}
	return models.ContractSLA{}, NewEngineError(KindNoSLADefined,
		"contract has no SLA for priority",
		"contractID", contractID,
		"priority", string(priority))
}

// DefaultPolicy returns the platform-default policy for a priority.
func (s *SLAService) DefaultPolicy(priority models.Priority) models.ContractSLA {
	policy := s.defaultPolicy
	policy.Priority = priority
	return policy
}

// PolicyOrDefault resolves the contract policy, falling back to the platform
// default with a warning instead of failing the caller.
func (s *SLAService) PolicyOrDefault(contract *models.Contract, priority models.Priority) (models.ContractSLA, bool) {
	policy, err := s.PolicyFor(contract, priority)
	if err != nil {
		s.logger.Warnf("No SLA defined for priority %s, falling back to platform default: %v", priority, err)
		return s.DefaultPolicy(priority), true
	}
	return policy, false
}

// Commitment stamps the three deadlines from the order's creation time.
func (s *SLAService) Commitment(createdAt time.Time, priority models.Priority, policy models.ContractSLA, isDefault bool) models.SLACommitment {
	return models.SLACommitment{
		Priority:              priority,
		FirstResponseDeadline: createdAt.Add(time.Duration(policy.FirstResponseMinutes) * time.Minute),
		OnSiteDeadline:        createdAt.Add(time.Duration(policy.OnSiteMinutes) * time.Minute),
		ResolutionDeadline:    createdAt.Add(time.Duration(policy.ResolutionMinutes) * time.Minute),
		PenaltyPercent:        policy.PenaltyPercent,
		DefaultPolicy:         isDefault,
	}
}

// Breaches returns the checkpoints whose deadline has passed without the
// corresponding event happening in time. When the event already occurred its
// actual timestamp decides; "now" is only used for checkpoints still in
// flight, so a late event stays breached forever and an on-time event can
// never become breached later.
func (s *SLAService) Breaches(order *models.WorkOrder, now time.Time) []models.SLACheckpoint {
	var breached []models.SLACheckpoint

	if checkpointBreached(order.RespondedAt, order.SLA.FirstResponseDeadline, now) {
		breached = append(breached, models.CheckpointFirstResponse)
	}
	if checkpointBreached(order.StartedAt, order.SLA.OnSiteDeadline, now) {
		breached = append(breached, models.CheckpointOnSite)
	}
	if checkpointBreached(order.CompletedAt, order.SLA.ResolutionDeadline, now) {
		breached = append(breached, models.CheckpointResolution)
	}

	return breached
}

// Evaluate is the pull-model breach check exposed to callers.
func (s *SLAService) Evaluate(order *models.WorkOrder, now time.Time) *models.SLAEvaluation {
	return &models.SLAEvaluation{
		OrderID:               order.OrderID,
		FirstResponseDeadline: order.SLA.FirstResponseDeadline,
		OnSiteDeadline:        order.SLA.OnSiteDeadline,
		ResolutionDeadline:    order.SLA.ResolutionDeadline,
		BreachedCheckpoints:   s.Breaches(order, now),
		PenaltyPercent:        order.SLA.PenaltyPercent,
		DefaultPolicy:         order.SLA.DefaultPolicy,
		EvaluatedAt:           now,
	}
}

func checkpointBreached(eventAt *time.Time, deadline time.Time, now time.Time) bool {
	if eventAt != nil {
		return eventAt.After(deadline)
	}
	return now.After(deadline)
}
