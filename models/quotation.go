package models

import "time"

type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusPending  QuotationStatus = "pending"
	QuotationStatusApproved QuotationStatus = "approved"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// IsOpen reports whether the quotation is still undecided. A work order may
// hold at most one open quotation at a time.
func (s QuotationStatus) IsOpen() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusPending:
		return true
	}
	return false
}

// AutoApprovalActor is recorded as the approver when a quotation is approved
// automatically under the contract's autoApproveLimit.
const AutoApprovalActor = "system/auto-approval"

type QuotationItemType string

const (
	ItemTypeLabor    QuotationItemType = "labor"
	ItemTypeMaterial QuotationItemType = "material"
	ItemTypeOther    QuotationItemType = "other"
)

// QuotationItem is one priced line. Total always equals Quantity x UnitPrice.
type QuotationItem struct {
	Type        QuotationItemType `json:"type" dynamodbav:"type"`
	Description string            `json:"description" dynamodbav:"description"`
	Quantity    Money             `json:"quantity" dynamodbav:"quantity"`
	UnitPrice   Money             `json:"unitPrice" dynamodbav:"unitPrice"`
	Total       Money             `json:"total" dynamodbav:"total"`
}

// Quotation belongs to exactly one work order. Amounts are recomputed from
// the contract on every draft, never edited in place after a decision.
type Quotation struct {
	QuotationID       string          `json:"quotationID" dynamodbav:"quotationID"`
	OrderID           string          `json:"orderID" dynamodbav:"orderID"`
	ContractID        string          `json:"contractID" dynamodbav:"contractID"`
	Items             []QuotationItem `json:"items" dynamodbav:"items"`
	LaborSubtotal     Money           `json:"laborSubtotal" dynamodbav:"laborSubtotal"`
	MaterialsSubtotal Money           `json:"materialsSubtotal" dynamodbav:"materialsSubtotal"`
	OtherCosts        Money           `json:"otherCosts" dynamodbav:"otherCosts"`
	DiscountAmount    Money           `json:"discountAmount" dynamodbav:"discountAmount"`
	TaxAmount         Money           `json:"taxAmount" dynamodbav:"taxAmount"`
	TotalAmount       Money           `json:"totalAmount" dynamodbav:"totalAmount"`
	Status            QuotationStatus `json:"status" dynamodbav:"status"`
	ValidUntil        time.Time       `json:"validUntil" dynamodbav:"validUntil"`
	DecidedBy         string          `json:"decidedBy,omitempty" dynamodbav:"decidedBy,omitempty"`
	DecidedAt         *time.Time      `json:"decidedAt,omitempty" dynamodbav:"decidedAt,omitempty"`
	DecisionComment   string          `json:"decisionComment,omitempty" dynamodbav:"decisionComment,omitempty"`
	Version           int64           `json:"version" dynamodbav:"version"`
	CreatedAt         time.Time       `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

type QuotationItemInput struct {
	Type        QuotationItemType `json:"type" validate:"required,oneof=labor material other"`
	Description string            `json:"description" validate:"required,min=2,max=500"`
	Quantity    string            `json:"quantity" validate:"required"`
	// UnitPrice is required for material/other lines; labor lines are priced
	// from the contract rate at PerformedAt.
	UnitPrice   string            `json:"unitPrice,omitempty"`
	Category    ServiceCategory   `json:"category,omitempty" validate:"omitempty,oneof=service maintenance installation repair inspection"`
	PerformedAt *time.Time        `json:"performedAt,omitempty"`
}

type DraftQuotationRequest struct {
	Items []QuotationItemInput `json:"items" validate:"required,min=1,dive"`
}

type QuotationDecision string

const (
	DecisionApprove QuotationDecision = "approve"
	DecisionReject  QuotationDecision = "reject"
)

type DecideQuotationRequest struct {
	Decision        QuotationDecision `json:"decision" validate:"required,oneof=approve reject"`
	Comment         string            `json:"comment,omitempty" validate:"omitempty,max=1000"`
	ExpectedVersion int64             `json:"expectedVersion" validate:"gte=0"`
}
