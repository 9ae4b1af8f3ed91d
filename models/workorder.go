package models

import "time"

// WorkOrderStatus is the canonical lifecycle vocabulary. Role-specific
// vocabularies used by callers (e.g. a technician-facing "assigned") must be
// translated at the API boundary, never inside the engine.
type WorkOrderStatus string

const (
	WorkOrderStatusRequested    WorkOrderStatus = "requested"
	WorkOrderStatusPending      WorkOrderStatus = "pending_approval"
	WorkOrderStatusScheduled    WorkOrderStatus = "scheduled"
	WorkOrderStatusInProgress   WorkOrderStatus = "in_progress"
	WorkOrderStatusWaitingParts WorkOrderStatus = "waiting_parts"
	WorkOrderStatusCompleted    WorkOrderStatus = "completed"
	WorkOrderStatusInvoiced     WorkOrderStatus = "invoiced"
	WorkOrderStatusClosed       WorkOrderStatus = "closed"
	WorkOrderStatusCancelled    WorkOrderStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s WorkOrderStatus) IsTerminal() bool {
	return s == WorkOrderStatusClosed || s == WorkOrderStatusCancelled
}

// ActorRole identifies who is requesting an operation.
type ActorRole string

const (
	RoleAdmin      ActorRole = "admin"
	RoleManager    ActorRole = "manager"
	RoleTechnician ActorRole = "technician"
	RoleClient     ActorRole = "client"
	RoleSystem     ActorRole = "system"
)

// Actor is the authenticated caller as resolved from JWT claims.
type Actor struct {
	ID   string    `json:"id"`
	Role ActorRole `json:"role"`
}

// StatusChange is one immutable entry of a work order's transition log.
type StatusChange struct {
	PreviousStatus WorkOrderStatus `json:"previousStatus" dynamodbav:"previousStatus"`
	NewStatus      WorkOrderStatus `json:"newStatus" dynamodbav:"newStatus"`
	ActorID        string          `json:"actorID" dynamodbav:"actorID"`
	Timestamp      time.Time       `json:"timestamp" dynamodbav:"timestamp"`
	Notes          string          `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
}

// SLACommitment is stamped onto a work order at creation time from the
// client's contract SLA (or the platform default).
type SLACommitment struct {
	Priority              Priority  `json:"priority" dynamodbav:"priority"`
	FirstResponseDeadline time.Time `json:"firstResponseDeadline" dynamodbav:"firstResponseDeadline"`
	OnSiteDeadline        time.Time `json:"onSiteDeadline" dynamodbav:"onSiteDeadline"`
	ResolutionDeadline    time.Time `json:"resolutionDeadline" dynamodbav:"resolutionDeadline"`
	PenaltyPercent        Money     `json:"penaltyPercent" dynamodbav:"penaltyPercent"`
	DefaultPolicy         bool      `json:"defaultPolicy" dynamodbav:"defaultPolicy"`
}

// WorkOrder is the unit of work. Version is a monotonic counter used for
// optimistic concurrency: every accepted write compares and increments it.
type WorkOrder struct {
	OrderID       string          `json:"orderID" dynamodbav:"orderID"`
	OrderNumber   string          `json:"orderNumber" dynamodbav:"orderNumber"`
	ClientID      string          `json:"clientID" dynamodbav:"clientID" validate:"required"`
	ContractID    string          `json:"contractID" dynamodbav:"contractID"`
	TechnicianID  string          `json:"technicianID,omitempty" dynamodbav:"technicianID,omitempty"`
	Title         string          `json:"title" dynamodbav:"title" validate:"required,min=2,max=200"`
	Description   string          `json:"description,omitempty" dynamodbav:"description,omitempty" validate:"omitempty,max=2000"`
	Category      ServiceCategory `json:"category" dynamodbav:"category" validate:"required"`
	Priority      Priority        `json:"priority" dynamodbav:"priority" validate:"required"`
	Status        WorkOrderStatus `json:"status" dynamodbav:"status"`
	RequiresQuote bool            `json:"requiresQuote" dynamodbav:"requiresQuote"`

	SLA           SLACommitment  `json:"sla" dynamodbav:"sla"`
	StatusHistory []StatusChange `json:"statusHistory" dynamodbav:"statusHistory"`

	ScheduledDate *time.Time `json:"scheduledDate,omitempty" dynamodbav:"scheduledDate,omitempty"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty" dynamodbav:"respondedAt,omitempty"`
	StartedAt     *time.Time `json:"startedAt,omitempty" dynamodbav:"startedAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty" dynamodbav:"completedAt,omitempty"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty" dynamodbav:"cancelledAt,omitempty"`

	Version   int64     `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

// IsOwnedBy reports whether the given client requested this order.
func (w *WorkOrder) IsOwnedBy(clientID string) bool {
	return w.ClientID == clientID
}

// IsAssignedTo reports whether the given technician is assigned to this order.
func (w *WorkOrder) IsAssignedTo(technicianID string) bool {
	return w.TechnicianID != "" && w.TechnicianID == technicianID
}

type CreateWorkOrderRequest struct {
	ClientID      string          `json:"clientID" validate:"required"`
	Title         string          `json:"title" validate:"required,min=2,max=200"`
	Description   string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category      ServiceCategory `json:"category" validate:"required,oneof=service maintenance installation repair inspection"`
	Priority      Priority        `json:"priority" validate:"required,oneof=normal urgent emergency"`
	RequiresQuote bool            `json:"requiresQuote"`
	ScheduledDate *time.Time      `json:"scheduledDate,omitempty"`
}

type TransitionWorkOrderRequest struct {
	TargetStatus    WorkOrderStatus `json:"targetStatus" validate:"required"`
	ExpectedVersion int64           `json:"expectedVersion" validate:"gte=0"`
	TechnicianID    string          `json:"technicianID,omitempty"`
	ScheduledDate   *time.Time      `json:"scheduledDate,omitempty"`
	Notes           string          `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type WorkOrderFilter struct {
	ClientID     string          `json:"clientID,omitempty"`
	TechnicianID string          `json:"technicianID,omitempty"`
	Status       WorkOrderStatus `json:"status,omitempty"`
	Category     ServiceCategory `json:"category,omitempty"`
	FromDate     time.Time       `json:"fromDate,omitempty"`
	ToDate       time.Time       `json:"toDate,omitempty"`
}

// SLACheckpoint names one of the three commitment deadlines.
type SLACheckpoint string

const (
	CheckpointFirstResponse SLACheckpoint = "first_response"
	CheckpointOnSite        SLACheckpoint = "on_site"
	CheckpointResolution    SLACheckpoint = "resolution"
)

// SLAEvaluation is the pull-model answer to "is this order in breach".
type SLAEvaluation struct {
	OrderID               string          `json:"orderID"`
	FirstResponseDeadline time.Time       `json:"firstResponseDeadline"`
	OnSiteDeadline        time.Time       `json:"onSiteDeadline"`
	ResolutionDeadline    time.Time       `json:"resolutionDeadline"`
	BreachedCheckpoints   []SLACheckpoint `json:"breachedCheckpoints"`
	PenaltyPercent        Money           `json:"penaltyPercent"`
	DefaultPolicy         bool            `json:"defaultPolicy"`
	EvaluatedAt           time.Time       `json:"evaluatedAt"`
}
