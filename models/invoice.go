package models

import "time"

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceLine mirrors a quotation item, plus the optional SLA penalty credit
// which is carried as a negative line so the quotation total stays untouched.
type InvoiceLine struct {
	Description string `json:"description" dynamodbav:"description"`
	Quantity    Money  `json:"quantity" dynamodbav:"quantity"`
	UnitPrice   Money  `json:"unitPrice" dynamodbav:"unitPrice"`
	Total       Money  `json:"total" dynamodbav:"total"`
	Penalty     bool   `json:"penalty,omitempty" dynamodbav:"penalty,omitempty"`
}

// Invoice is produced from an approved quotation. Immutable once issued
// except for status and paidDate.
type Invoice struct {
	InvoiceID     string        `json:"invoiceID" dynamodbav:"invoiceID"`
	InvoiceNumber string        `json:"invoiceNumber" dynamodbav:"invoiceNumber"`
	OrderID       string        `json:"orderID" dynamodbav:"orderID"`
	QuotationID   string        `json:"quotationID" dynamodbav:"quotationID"`
	ClientID      string        `json:"clientID" dynamodbav:"clientID"`
	Lines         []InvoiceLine `json:"lines" dynamodbav:"lines"`
	Subtotal      Money         `json:"subtotal" dynamodbav:"subtotal"`
	PenaltyAmount Money         `json:"penaltyAmount" dynamodbav:"penaltyAmount"`
	TotalAmount   Money         `json:"totalAmount" dynamodbav:"totalAmount"`
	Status        InvoiceStatus `json:"status" dynamodbav:"status"`
	IssuedAt      time.Time     `json:"issuedAt" dynamodbav:"issuedAt"`
	DueDate       time.Time     `json:"dueDate" dynamodbav:"dueDate"`
	PaidDate      *time.Time    `json:"paidDate,omitempty" dynamodbav:"paidDate,omitempty"`
	CreatedAt     time.Time     `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}
