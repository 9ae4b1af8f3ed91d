package models

import "time"

type ContractType string

const (
	ContractTypeFramework  ContractType = "framework"
	ContractTypeOnDemand   ContractType = "on_demand"
	ContractTypePreventive ContractType = "preventive"
	ContractTypeDedicated  ContractType = "dedicated"
)

type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "draft"
	ContractStatusActive     ContractStatus = "active"
	ContractStatusExpired    ContractStatus = "expired"
	ContractStatusTerminated ContractStatus = "terminated"
)

type ServiceCategory string

const (
	CategoryService      ServiceCategory = "service"
	CategoryMaintenance  ServiceCategory = "maintenance"
	CategoryInstallation ServiceCategory = "installation"
	CategoryRepair       ServiceCategory = "repair"
	CategoryInspection   ServiceCategory = "inspection"
)

type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityUrgent    Priority = "urgent"
	PriorityEmergency Priority = "emergency"
)

// ContractRate is the billable rate for one service category under a
// contract. Multipliers are factors >= 1.0 applied on top of HourlyRate.
type ContractRate struct {
	Category            ServiceCategory `json:"category" dynamodbav:"category" validate:"required,oneof=service maintenance installation repair inspection"`
	HourlyRate          Money           `json:"hourlyRate" dynamodbav:"hourlyRate" validate:"required"`
	NightMultiplier     Money           `json:"nightMultiplier" dynamodbav:"nightMultiplier"`
	WeekendMultiplier   Money           `json:"weekendMultiplier" dynamodbav:"weekendMultiplier"`
	HolidayMultiplier   Money           `json:"holidayMultiplier" dynamodbav:"holidayMultiplier"`
	EmergencyMultiplier Money           `json:"emergencyMultiplier" dynamodbav:"emergencyMultiplier"`
}

// ContractSLA is the commitment row for one priority tier. The three windows
// must be strictly increasing: firstResponse < onSite < resolution.
type ContractSLA struct {
	Priority             Priority `json:"priority" dynamodbav:"priority" validate:"required,oneof=normal urgent emergency"`
	FirstResponseMinutes int      `json:"firstResponseMinutes" dynamodbav:"firstResponseMinutes" validate:"required,gt=0"`
	OnSiteMinutes        int      `json:"onSiteMinutes" dynamodbav:"onSiteMinutes" validate:"required,gt=0"`
	ResolutionMinutes    int      `json:"resolutionMinutes" dynamodbav:"resolutionMinutes" validate:"required,gt=0"`
	PenaltyPercent       Money    `json:"penaltyPercent" dynamodbav:"penaltyPercent"`
}

// Contract is the commercial agreement fixing rates, discounts and SLA
// commitments for a client. At most one contract may be active for a client
// at any instant.
type Contract struct {
	ContractID       string         `json:"contractID" dynamodbav:"contractID"`
	ClientID         string         `json:"clientID" dynamodbav:"clientID" validate:"required"`
	Type             ContractType   `json:"type" dynamodbav:"type" validate:"required,oneof=framework on_demand preventive dedicated"`
	Status           ContractStatus `json:"status" dynamodbav:"status"`
	StartDate        time.Time      `json:"startDate" dynamodbav:"startDate"`
	EndDate          *time.Time     `json:"endDate,omitempty" dynamodbav:"endDate,omitempty"`
	AutoRenewal      bool           `json:"autoRenewal" dynamodbav:"autoRenewal"`
	PaymentTermsDays int            `json:"paymentTermsDays" dynamodbav:"paymentTermsDays"`
	EmergencyLimit   *Money         `json:"emergencyLimit,omitempty" dynamodbav:"emergencyLimit,omitempty"`
	AutoApproveLimit *Money         `json:"autoApproveLimit,omitempty" dynamodbav:"autoApproveLimit,omitempty"`
	DiscountPercent  Money          `json:"discountPercent" dynamodbav:"discountPercent"`
	Rates            []ContractRate `json:"rates" dynamodbav:"rates"`
	SLAs             []ContractSLA  `json:"slas" dynamodbav:"slas"`
	CreatedAt        time.Time      `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

// IsActiveAt reports whether the contract covers the given instant. An ended
// contract with autoRenewal still counts as active until terminated.
func (c *Contract) IsActiveAt(at time.Time) bool {
	if c.Status != ContractStatusActive {
		return false
	}
	if at.Before(c.StartDate) {
		return false
	}
	if c.EndDate != nil && at.After(*c.EndDate) && !c.AutoRenewal {
		return false
	}
	return true
}

// RateFor returns the rate row for a category, if one exists.
func (c *Contract) RateFor(category ServiceCategory) (*ContractRate, bool) {
	for i := range c.Rates {
		if c.Rates[i].Category == category {
			return &c.Rates[i], true
		}
	}
	return nil, false
}

// SLAFor returns the SLA row for a priority tier, if one exists.
func (c *Contract) SLAFor(priority Priority) (*ContractSLA, bool) {
	for i := range c.SLAs {
		if c.SLAs[i].Priority == priority {
			return &c.SLAs[i], true
		}
	}
	return nil, false
}

type CreateContractRequest struct {
	ClientID         string       `json:"clientID" validate:"required"`
	Type             ContractType `json:"type" validate:"required,oneof=framework on_demand preventive dedicated"`
	StartDate        time.Time    `json:"startDate" validate:"required"`
	EndDate          *time.Time   `json:"endDate,omitempty"`
	AutoRenewal      bool         `json:"autoRenewal"`
	PaymentTermsDays int          `json:"paymentTermsDays" validate:"omitempty,gt=0"`
	EmergencyLimit   string       `json:"emergencyLimit,omitempty"`
	AutoApproveLimit string       `json:"autoApproveLimit,omitempty"`
	DiscountPercent  string       `json:"discountPercent,omitempty"`
}

type UpsertContractRateRequest struct {
	Category            ServiceCategory `json:"category" validate:"required,oneof=service maintenance installation repair inspection"`
	HourlyRate          string          `json:"hourlyRate" validate:"required"`
	NightMultiplier     string          `json:"nightMultiplier,omitempty"`
	WeekendMultiplier   string          `json:"weekendMultiplier,omitempty"`
	HolidayMultiplier   string          `json:"holidayMultiplier,omitempty"`
	EmergencyMultiplier string          `json:"emergencyMultiplier,omitempty"`
}

type UpsertContractSLARequest struct {
	Priority             Priority `json:"priority" validate:"required,oneof=normal urgent emergency"`
	FirstResponseMinutes int      `json:"firstResponseMinutes" validate:"required,gt=0"`
	OnSiteMinutes        int      `json:"onSiteMinutes" validate:"required,gt=0"`
	ResolutionMinutes    int      `json:"resolutionMinutes" validate:"required,gt=0"`
	PenaltyPercent       string   `json:"penaltyPercent,omitempty"`
}
