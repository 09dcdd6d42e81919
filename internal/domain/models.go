package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole represents the functional role of a user
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSales      UserRole = "sales"
	RolePurchasing UserRole = "purchasing"
	RoleFinance    UserRole = "finance"
	RoleOperations UserRole = "operations"
	RoleUser       UserRole = "user"
)

// IsValid checks if the role is a known value
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSales, RolePurchasing, RoleFinance, RoleOperations, RoleUser:
		return true
	}
	return false
}

// LeadStage represents the pipeline position of a lead
type LeadStage string

const (
	LeadStageGeneration   LeadStage = "generation"
	LeadStageCold         LeadStage = "cold"
	LeadStageCosting      LeadStage = "costing"
	LeadStageProposal     LeadStage = "proposal"
	LeadStageNegotiations LeadStage = "negotiations"
	LeadStageConfirmed    LeadStage = "confirmed"
	LeadStageRejected     LeadStage = "rejected"
)

// LeadStages lists every stage in board column order
var LeadStages = []LeadStage{
	LeadStageGeneration,
	LeadStageCold,
	LeadStageCosting,
	LeadStageProposal,
	LeadStageNegotiations,
	LeadStageConfirmed,
	LeadStageRejected,
}

func (s LeadStage) IsValid() bool {
	for _, stage := range LeadStages {
		if s == stage {
			return true
		}
	}
	return false
}

// ClosedLeadStages have left the open pipeline
var ClosedLeadStages = []LeadStage{LeadStageConfirmed, LeadStageRejected}

// IsClosed reports whether the lead has left the active pipeline
func (s LeadStage) IsClosed() bool {
	for _, closed := range ClosedLeadStages {
		if s == closed {
			return true
		}
	}
	return false
}

// ProjectType represents the kind of solar installation
type ProjectType string

const (
	ProjectTypeRooftop    ProjectType = "rooftop"
	ProjectTypeOpenAccess ProjectType = "open_access"
)

func (t ProjectType) IsValid() bool {
	return t == ProjectTypeRooftop || t == ProjectTypeOpenAccess
}

// LeadSource records where a lead came from
type LeadSource string

const (
	LeadSourceManual   LeadSource = "manual"
	LeadSourceWebsite  LeadSource = "website"
	LeadSourceReferral LeadSource = "referral"
	LeadSourceCampaign LeadSource = "campaign"
	LeadSourcePartner  LeadSource = "partner"
)

// ProjectStatus represents the execution state of a project
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
)

// ActiveProjectStatuses count toward activeProjects
var ActiveProjectStatuses = []ProjectStatus{ProjectStatusPlanning, ProjectStatusInProgress}

// VendorTier ranks suppliers
type VendorTier string

const (
	VendorTier1 VendorTier = "tier1"
	VendorTier2 VendorTier = "tier2"
	VendorTier3 VendorTier = "tier3"
)

// PurchaseOrderStatus follows pending → approved → ordered → in_transit → delivered → completed
type PurchaseOrderStatus string

const (
	POStatusPending   PurchaseOrderStatus = "pending"
	POStatusApproved  PurchaseOrderStatus = "approved"
	POStatusOrdered   PurchaseOrderStatus = "ordered"
	POStatusInTransit PurchaseOrderStatus = "in_transit"
	POStatusDelivered PurchaseOrderStatus = "delivered"
	POStatusCompleted PurchaseOrderStatus = "completed"
	POStatusCancelled PurchaseOrderStatus = "cancelled"
)

// InvoiceType distinguishes billing direction
type InvoiceType string

const (
	InvoiceTypeClient   InvoiceType = "client_invoice"
	InvoiceTypePurchase InvoiceType = "purchase_invoice"
)

// InvoiceStatus represents the payment lifecycle of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// TaskStatus represents the state of an operational task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// TaskPriority represents task urgency
type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

// Entity type labels used by activities and documents
const (
	EntityLead          = "lead"
	EntityProject       = "project"
	EntityVendor        = "vendor"
	EntityPurchaseOrder = "purchase_order"
	EntityInvoice       = "invoice"
	EntityTask          = "task"
)

// Activity action labels
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionStageChanged  = "stage_changed"
	ActionStatusChanged = "status_changed"
	ActionConverted     = "converted"
)

// PlaceholderUserID is credited with writes that have no known performer
const PlaceholderUserID uint = 1

// User is an application account. Other entities reference users but never own them.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Password  string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Role      UserRole  `gorm:"type:varchar(50);not null;default:'user'"`
	Name      string    `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// Lead is a prospective client moving through the sales pipeline
type Lead struct {
	ID             uint            `gorm:"primaryKey"`
	CompanyName    string          `gorm:"type:varchar(200);not null;column:company_name"`
	ContactPerson  string          `gorm:"type:varchar(200);not null;column:contact_person"`
	Email          string          `gorm:"type:varchar(255);not null"`
	Phone          *string         `gorm:"type:varchar(50)"`
	Capacity       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	EstimatedValue decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:estimated_value"`
	Stage          LeadStage       `gorm:"type:varchar(50);not null;default:'generation';index"`
	ProjectType    ProjectType     `gorm:"type:varchar(50);not null;default:'rooftop';column:project_type"`
	Source         LeadSource      `gorm:"type:varchar(50);not null;default:'manual'"`
	Notes          *string         `gorm:"type:text"`
	AssignedTo     *uint           `gorm:"column:assigned_to;index"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null;index"`
}

// Project is a confirmed engagement, optionally promoted from a lead
type Project struct {
	ID                     uint            `gorm:"primaryKey"`
	LeadID                 *uint           `gorm:"column:lead_id;uniqueIndex"`
	Name                   string          `gorm:"type:varchar(200);not null"`
	Client                 string          `gorm:"type:varchar(200);not null"`
	Capacity               decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ContractValue          decimal.Decimal `gorm:"type:decimal(15,2);not null;column:contract_value"`
	ProjectType            ProjectType     `gorm:"type:varchar(50);not null;default:'rooftop';column:project_type"`
	Status                 ProjectStatus   `gorm:"type:varchar(50);not null;default:'planning';index"`
	StartDate              *time.Time      `gorm:"column:start_date"`
	ExpectedCompletionDate *time.Time      `gorm:"column:expected_completion_date"`
	ActualCompletionDate   *time.Time      `gorm:"column:actual_completion_date"`
	Progress               int             `gorm:"not null;default:0"`
	ProjectManager         *uint           `gorm:"column:project_manager"`
	CreatedAt              time.Time       `gorm:"not null"`
	UpdatedAt              time.Time       `gorm:"not null;index"`
}

// Vendor is a supplier. Vendors are deactivated, never deleted.
type Vendor struct {
	ID            uint       `gorm:"primaryKey"`
	Name          string     `gorm:"type:varchar(200);not null;index"`
	ContactPerson string     `gorm:"type:varchar(200);not null;column:contact_person"`
	Email         string     `gorm:"type:varchar(255);not null"`
	Phone         *string    `gorm:"type:varchar(50)"`
	Address       *string    `gorm:"type:text"`
	Category      string     `gorm:"type:varchar(100);not null"`
	Tier          VendorTier `gorm:"type:varchar(20);not null;default:'tier3'"`
	IsActive      bool       `gorm:"not null;default:true;column:is_active"`
	CreatedAt     time.Time  `gorm:"not null"`
}

// PurchaseOrder is a vendor procurement record
type PurchaseOrder struct {
	ID                   uint                `gorm:"primaryKey"`
	PONumber             string              `gorm:"type:varchar(50);not null;uniqueIndex;column:po_number"`
	ProjectID            *uint               `gorm:"column:project_id;index"`
	VendorID             *uint               `gorm:"column:vendor_id;index"`
	Description          *string             `gorm:"type:text"`
	Items                PurchaseOrderItems  `gorm:"type:jsonb;not null"`
	TotalAmount          decimal.Decimal     `gorm:"type:decimal(15,2);not null;column:total_amount"`
	Status               PurchaseOrderStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
	OrderDate            *time.Time          `gorm:"column:order_date"`
	ExpectedDeliveryDate *time.Time          `gorm:"column:expected_delivery_date"`
	ActualDeliveryDate   *time.Time          `gorm:"column:actual_delivery_date"`
	CreatedBy            *uint               `gorm:"column:created_by"`
	CreatedAt            time.Time           `gorm:"not null"`
	UpdatedAt            time.Time           `gorm:"not null;index"`
}

// Invoice is a billing record to a client or from a vendor
type Invoice struct {
	ID            uint            `gorm:"primaryKey"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex;column:invoice_number"`
	ProjectID     *uint           `gorm:"column:project_id;index"`
	Type          InvoiceType     `gorm:"type:varchar(50);not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0;column:tax_amount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null;column:total_amount"`
	Status        InvoiceStatus   `gorm:"type:varchar(50);not null;default:'draft';index"`
	IssueDate     time.Time       `gorm:"not null;column:issue_date"`
	DueDate       time.Time       `gorm:"not null;column:due_date"`
	PaidDate      *time.Time      `gorm:"column:paid_date"`
	ClientEmail   *string         `gorm:"type:varchar(255);column:client_email"`
	Description   *string         `gorm:"type:text"`
	Items         InvoiceItems    `gorm:"type:jsonb;not null"`
	CreatedBy     *uint           `gorm:"column:created_by"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null;index"`
}

// Task is an operational work item within a project
type Task struct {
	ID            uint         `gorm:"primaryKey"`
	ProjectID     *uint        `gorm:"column:project_id;index"`
	Title         string       `gorm:"type:varchar(200);not null"`
	Description   *string      `gorm:"type:text"`
	Status        TaskStatus   `gorm:"type:varchar(50);not null;default:'pending';index"`
	Priority      TaskPriority `gorm:"type:varchar(50);not null;default:'medium'"`
	AssignedTo    *uint        `gorm:"column:assigned_to"`
	StartDate     *time.Time   `gorm:"column:start_date"`
	DueDate       *time.Time   `gorm:"column:due_date;index"`
	CompletedDate *time.Time   `gorm:"column:completed_date"`
	Progress      int          `gorm:"not null;default:0"`
	Dependencies  IDList       `gorm:"type:jsonb"`
	CreatedBy     *uint        `gorm:"column:created_by"`
	CreatedAt     time.Time    `gorm:"not null"`
	UpdatedAt     time.Time    `gorm:"not null;index"`
}

// Document is a file attached to any entity by (EntityType, EntityID).
// There is no foreign key; the link is by convention.
type Document struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Type       string    `gorm:"type:varchar(100);not null"`
	EntityType string    `gorm:"type:varchar(50);not null;column:entity_type;index:idx_documents_entity"`
	EntityID   uint      `gorm:"not null;column:entity_id;index:idx_documents_entity"`
	FilePath   string    `gorm:"type:varchar(500);not null;column:file_path"`
	FileSize   *int64    `gorm:"column:file_size"`
	MimeType   *string   `gorm:"type:varchar(100);column:mime_type"`
	UploadedBy *uint     `gorm:"column:uploaded_by"`
	CreatedAt  time.Time `gorm:"not null"`
}

// Activity is an append-only audit row describing a change to some entity
type Activity struct {
	ID          uint      `gorm:"primaryKey"`
	EntityType  string    `gorm:"type:varchar(50);not null;column:entity_type;index:idx_activities_entity"`
	EntityID    uint      `gorm:"not null;column:entity_id;index:idx_activities_entity"`
	Action      string    `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:text;not null"`
	Metadata    JSONMap   `gorm:"type:jsonb"`
	PerformedBy uint      `gorm:"not null;column:performed_by"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// NumberSequence tracks the last issued document number per prefix and year
type NumberSequence struct {
	Prefix       string `gorm:"type:varchar(10);primaryKey"`
	Year         int    `gorm:"primaryKey"`
	LastSequence int    `gorm:"not null;default:0;column:last_sequence"`
	UpdatedAt    time.Time
}

// AllModels lists the tables managed by the application
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Lead{},
		&Project{},
		&Vendor{},
		&PurchaseOrder{},
		&Invoice{},
		&Task{},
		&Document{},
		&Activity{},
		&NumberSequence{},
	}
}
