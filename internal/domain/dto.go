package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response DTOs. Timestamps are ISO 8601 in UTC, money is a fixed two-decimal string.

type UserDTO struct {
	ID        uint     `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	Name      string   `json:"name"`
	CreatedAt string   `json:"createdAt"`
}

type LeadDTO struct {
	ID             uint        `json:"id"`
	CompanyName    string      `json:"companyName"`
	ContactPerson  string      `json:"contactPerson"`
	Email          string      `json:"email"`
	Phone          *string     `json:"phone"`
	Capacity       string      `json:"capacity"`
	EstimatedValue string      `json:"estimatedValue"`
	Stage          LeadStage   `json:"stage"`
	ProjectType    ProjectType `json:"projectType"`
	Source         LeadSource  `json:"source"`
	Notes          *string     `json:"notes"`
	AssignedTo     *uint       `json:"assignedTo"`
	CreatedAt      string      `json:"createdAt"`
	UpdatedAt      string      `json:"updatedAt"`
}

type ProjectDTO struct {
	ID                     uint          `json:"id"`
	LeadID                 *uint         `json:"leadId"`
	Name                   string        `json:"name"`
	Client                 string        `json:"client"`
	Capacity               string        `json:"capacity"`
	ContractValue          string        `json:"contractValue"`
	ProjectType            ProjectType   `json:"projectType"`
	Status                 ProjectStatus `json:"status"`
	StartDate              *string       `json:"startDate"`
	ExpectedCompletionDate *string       `json:"expectedCompletionDate"`
	ActualCompletionDate   *string       `json:"actualCompletionDate"`
	Progress               int           `json:"progress"`
	ProjectManager         *uint         `json:"projectManager"`
	CreatedAt              string        `json:"createdAt"`
	UpdatedAt              string        `json:"updatedAt"`
}

type VendorDTO struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	ContactPerson string     `json:"contactPerson"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone"`
	Address       *string    `json:"address"`
	Category      string     `json:"category"`
	Tier          VendorTier `json:"tier"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     string     `json:"createdAt"`
}

type PurchaseOrderItemDTO struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Total     string `json:"total"`
}

type PurchaseOrderDTO struct {
	ID                   uint                   `json:"id"`
	PONumber             string                 `json:"poNumber"`
	ProjectID            *uint                  `json:"projectId"`
	VendorID             *uint                  `json:"vendorId"`
	Description          *string                `json:"description"`
	Items                []PurchaseOrderItemDTO `json:"items"`
	TotalAmount          string                 `json:"totalAmount"`
	Status               PurchaseOrderStatus    `json:"status"`
	OrderDate            *string                `json:"orderDate"`
	ExpectedDeliveryDate *string                `json:"expectedDeliveryDate"`
	ActualDeliveryDate   *string                `json:"actualDeliveryDate"`
	CreatedBy            *uint                  `json:"createdBy"`
	CreatedAt            string                 `json:"createdAt"`
	UpdatedAt            string                 `json:"updatedAt"`
}

type InvoiceItemDTO struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
}

type InvoiceDTO struct {
	ID            uint             `json:"id"`
	InvoiceNumber string           `json:"invoiceNumber"`
	ProjectID     *uint            `json:"projectId"`
	Type          InvoiceType      `json:"type"`
	Amount        string           `json:"amount"`
	TaxAmount     string           `json:"taxAmount"`
	TotalAmount   string           `json:"totalAmount"`
	Status        InvoiceStatus    `json:"status"`
	IssueDate     string           `json:"issueDate"`
	DueDate       string           `json:"dueDate"`
	PaidDate      *string          `json:"paidDate"`
	ClientEmail   *string          `json:"clientEmail"`
	Description   *string          `json:"description"`
	Items         []InvoiceItemDTO `json:"items"`
	CreatedBy     *uint            `json:"createdBy"`
	CreatedAt     string           `json:"createdAt"`
	UpdatedAt     string           `json:"updatedAt"`
}

type TaskDTO struct {
	ID            uint         `json:"id"`
	ProjectID     *uint        `json:"projectId"`
	Title         string       `json:"title"`
	Description   *string      `json:"description"`
	Status        TaskStatus   `json:"status"`
	Priority      TaskPriority `json:"priority"`
	AssignedTo    *uint        `json:"assignedTo"`
	StartDate     *string      `json:"startDate"`
	DueDate       *string      `json:"dueDate"`
	CompletedDate *string      `json:"completedDate"`
	Progress      int          `json:"progress"`
	Dependencies  []uint       `json:"dependencies"`
	CreatedBy     *uint        `json:"createdBy"`
	CreatedAt     string       `json:"createdAt"`
	UpdatedAt     string       `json:"updatedAt"`
}

type DocumentDTO struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	EntityType string  `json:"entityType"`
	EntityID   uint    `json:"entityId"`
	FilePath   string  `json:"filePath"`
	FileSize   *int64  `json:"fileSize"`
	MimeType   *string `json:"mimeType"`
	UploadedBy *uint   `json:"uploadedBy"`
	CreatedAt  string  `json:"createdAt"`
}

type ActivityDTO struct {
	ID          uint                   `json:"id"`
	EntityType  string                 `json:"entityType"`
	EntityID    uint                   `json:"entityId"`
	Action      string                 `json:"action"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
	PerformedBy uint                   `json:"performedBy"`
	CreatedAt   string                 `json:"createdAt"`
}

// Statistics DTOs

type LeadStageStatDTO struct {
	Stage LeadStage `json:"stage"`
	Count int64     `json:"count"`
	Value string    `json:"value"`
}

type ProjectStatsDTO struct {
	TotalProjects  int64  `json:"totalProjects"`
	TotalCapacity  string `json:"totalCapacity"`
	ActiveProjects int64  `json:"activeProjects"`
}

type PurchaseStatsDTO struct {
	TotalPurchases string `json:"totalPurchases"`
	PendingOrders  string `json:"pendingOrders"`
	ActiveVendors  int64  `json:"activeVendors"`
}

type FinanceStatsDTO struct {
	TotalRevenue string `json:"totalRevenue"`
	Outstanding  string `json:"outstanding"`
	Collected    string `json:"collected"`
	OverdueCount int64  `json:"overdueCount"`
}

type TaskStatsDTO struct {
	Overdue    int64 `json:"overdue"`
	DueToday   int64 `json:"dueToday"`
	Completed  int64 `json:"completed"`
	InProgress int64 `json:"inProgress"`
}

type DashboardStatsDTO struct {
	TotalProjects    int64  `json:"totalProjects"`
	MegawattCapacity string `json:"megawattCapacity"`
	ActiveLeads      int64  `json:"activeLeads"`
	PipelineValue    string `json:"pipelineValue"`
}

// Request DTOs. Update requests use pointer fields; nil leaves the stored value unchanged.

type CreateUserRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=100"`
	Password string   `json:"password" validate:"required,min=8,max=128"`
	Email    string   `json:"email" validate:"required,email,max=255"`
	Role     UserRole `json:"role" validate:"omitempty,oneof=admin sales purchasing finance operations user"`
	Name     string   `json:"name" validate:"required,max=200"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

type CreateLeadRequest struct {
	CompanyName    string          `json:"companyName" validate:"required,max=200"`
	ContactPerson  string          `json:"contactPerson" validate:"required,max=200"`
	Email          string          `json:"email" validate:"required,email,max=255"`
	Phone          *string         `json:"phone" validate:"omitempty,max=50"`
	Capacity       decimal.Decimal `json:"capacity" validate:"gte=0"`
	EstimatedValue decimal.Decimal `json:"estimatedValue" validate:"gte=0"`
	Stage          LeadStage       `json:"stage" validate:"omitempty,oneof=generation cold costing proposal negotiations confirmed rejected"`
	ProjectType    ProjectType     `json:"projectType" validate:"omitempty,oneof=rooftop open_access"`
	Source         LeadSource      `json:"source" validate:"omitempty,max=50"`
	Notes          *string         `json:"notes"`
	AssignedTo     *uint           `json:"assignedTo"`
}

type UpdateLeadRequest struct {
	CompanyName    *string          `json:"companyName" validate:"omitempty,min=1,max=200"`
	ContactPerson  *string          `json:"contactPerson" validate:"omitempty,min=1,max=200"`
	Email          *string          `json:"email" validate:"omitempty,email,max=255"`
	Phone          *string          `json:"phone" validate:"omitempty,max=50"`
	Capacity       *decimal.Decimal `json:"capacity" validate:"omitempty,gte=0"`
	EstimatedValue *decimal.Decimal `json:"estimatedValue" validate:"omitempty,gte=0"`
	Stage          *LeadStage       `json:"stage" validate:"omitempty,oneof=generation cold costing proposal negotiations confirmed rejected"`
	ProjectType    *ProjectType     `json:"projectType" validate:"omitempty,oneof=rooftop open_access"`
	Source         *LeadSource      `json:"source" validate:"omitempty,max=50"`
	Notes          *string          `json:"notes"`
	AssignedTo     *uint            `json:"assignedTo"`
}

// ConvertLeadRequest optionally overrides fields of the project created from a lead
type ConvertLeadRequest struct {
	Name           *string    `json:"name" validate:"omitempty,min=1,max=200"`
	StartDate      *time.Time `json:"startDate"`
	ProjectManager *uint      `json:"projectManager"`
}

type CreateProjectRequest struct {
	LeadID                 *uint            `json:"leadId"`
	Name                   string           `json:"name" validate:"required,max=200"`
	Client                 string           `json:"client" validate:"required,max=200"`
	Capacity               *decimal.Decimal `json:"capacity" validate:"required,gte=0"`
	ContractValue          *decimal.Decimal `json:"contractValue" validate:"required,gte=0"`
	ProjectType            ProjectType      `json:"projectType" validate:"omitempty,oneof=rooftop open_access"`
	Status                 ProjectStatus    `json:"status" validate:"omitempty,oneof=planning in_progress completed on_hold"`
	StartDate              *time.Time       `json:"startDate"`
	ExpectedCompletionDate *time.Time       `json:"expectedCompletionDate"`
	Progress               int              `json:"progress" validate:"gte=0,lte=100"`
	ProjectManager         *uint            `json:"projectManager"`
}

type UpdateProjectRequest struct {
	Name                   *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Client                 *string          `json:"client" validate:"omitempty,min=1,max=200"`
	Capacity               *decimal.Decimal `json:"capacity" validate:"omitempty,gte=0"`
	ContractValue          *decimal.Decimal `json:"contractValue" validate:"omitempty,gte=0"`
	ProjectType            *ProjectType     `json:"projectType" validate:"omitempty,oneof=rooftop open_access"`
	Status                 *ProjectStatus   `json:"status" validate:"omitempty,oneof=planning in_progress completed on_hold"`
	StartDate              *time.Time       `json:"startDate"`
	ExpectedCompletionDate *time.Time       `json:"expectedCompletionDate"`
	ActualCompletionDate   *time.Time       `json:"actualCompletionDate"`
	Progress               *int             `json:"progress" validate:"omitempty,gte=0,lte=100"`
	ProjectManager         *uint            `json:"projectManager"`
}

type CreateVendorRequest struct {
	Name          string     `json:"name" validate:"required,max=200"`
	ContactPerson string     `json:"contactPerson" validate:"required,max=200"`
	Email         string     `json:"email" validate:"required,email,max=255"`
	Phone         *string    `json:"phone" validate:"omitempty,max=50"`
	Address       *string    `json:"address"`
	Category      string     `json:"category" validate:"required,max=100"`
	Tier          VendorTier `json:"tier" validate:"omitempty,oneof=tier1 tier2 tier3"`
}

type UpdateVendorRequest struct {
	Name          *string     `json:"name" validate:"omitempty,min=1,max=200"`
	ContactPerson *string     `json:"contactPerson" validate:"omitempty,min=1,max=200"`
	Email         *string     `json:"email" validate:"omitempty,email,max=255"`
	Phone         *string     `json:"phone" validate:"omitempty,max=50"`
	Address       *string     `json:"address"`
	Category      *string     `json:"category" validate:"omitempty,min=1,max=100"`
	Tier          *VendorTier `json:"tier" validate:"omitempty,oneof=tier1 tier2 tier3"`
	IsActive      *bool       `json:"isActive"`
}

type PurchaseOrderItemRequest struct {
	Name      string          `json:"name" validate:"required,max=200"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"gte=0"`
}

type CreatePurchaseOrderRequest struct {
	PONumber             string                     `json:"poNumber" validate:"omitempty,max=50"`
	ProjectID            *uint                      `json:"projectId"`
	VendorID             *uint                      `json:"vendorId"`
	Description          *string                    `json:"description"`
	Items                []PurchaseOrderItemRequest `json:"items" validate:"dive"`
	Status               PurchaseOrderStatus        `json:"status" validate:"omitempty,oneof=pending approved ordered in_transit delivered completed cancelled"`
	OrderDate            *time.Time                 `json:"orderDate"`
	ExpectedDeliveryDate *time.Time                 `json:"expectedDeliveryDate"`
	CreatedBy            *uint                      `json:"createdBy"`
}

type UpdatePurchaseOrderRequest struct {
	ProjectID            *uint                       `json:"projectId"`
	VendorID             *uint                       `json:"vendorId"`
	Description          *string                     `json:"description"`
	Items                *[]PurchaseOrderItemRequest `json:"items" validate:"omitempty,dive"`
	Status               *PurchaseOrderStatus        `json:"status" validate:"omitempty,oneof=pending approved ordered in_transit delivered completed cancelled"`
	OrderDate            *time.Time                  `json:"orderDate"`
	ExpectedDeliveryDate *time.Time                  `json:"expectedDeliveryDate"`
	ActualDeliveryDate   *time.Time                  `json:"actualDeliveryDate"`
}

type InvoiceItemRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Quantity    int             `json:"quantity" validate:"gte=1"`
	Rate        decimal.Decimal `json:"rate" validate:"gte=0"`
}

type CreateInvoiceRequest struct {
	InvoiceNumber string               `json:"invoiceNumber" validate:"omitempty,max=50"`
	ProjectID     *uint                `json:"projectId"`
	Type          InvoiceType          `json:"type" validate:"required,oneof=client_invoice purchase_invoice"`
	TaxAmount     decimal.Decimal      `json:"taxAmount" validate:"gte=0"`
	Status        InvoiceStatus        `json:"status" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	IssueDate     *time.Time           `json:"issueDate"`
	DueDate       *time.Time           `json:"dueDate" validate:"required"`
	ClientEmail   *string              `json:"clientEmail" validate:"omitempty,email,max=255"`
	Description   *string              `json:"description"`
	Items         []InvoiceItemRequest `json:"items" validate:"dive"`
	CreatedBy     *uint                `json:"createdBy"`
}

type UpdateInvoiceRequest struct {
	ProjectID   *uint                 `json:"projectId"`
	TaxAmount   *decimal.Decimal      `json:"taxAmount" validate:"omitempty,gte=0"`
	Status      *InvoiceStatus        `json:"status" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	IssueDate   *time.Time            `json:"issueDate"`
	DueDate     *time.Time            `json:"dueDate"`
	PaidDate    *time.Time            `json:"paidDate"`
	ClientEmail *string               `json:"clientEmail" validate:"omitempty,email,max=255"`
	Description *string               `json:"description"`
	Items       *[]InvoiceItemRequest `json:"items" validate:"omitempty,dive"`
}

type CreateTaskRequest struct {
	ProjectID    *uint        `json:"projectId"`
	Title        string       `json:"title" validate:"required,max=200"`
	Description  *string      `json:"description"`
	Status       TaskStatus   `json:"status" validate:"omitempty,oneof=pending in_progress completed blocked"`
	Priority     TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	AssignedTo   *uint        `json:"assignedTo"`
	StartDate    *time.Time   `json:"startDate"`
	DueDate      *time.Time   `json:"dueDate"`
	Progress     int          `json:"progress" validate:"gte=0,lte=100"`
	Dependencies []uint       `json:"dependencies"`
	CreatedBy    *uint        `json:"createdBy"`
}

type UpdateTaskRequest struct {
	ProjectID     *uint         `json:"projectId"`
	Title         *string       `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string       `json:"description"`
	Status        *TaskStatus   `json:"status" validate:"omitempty,oneof=pending in_progress completed blocked"`
	Priority      *TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	AssignedTo    *uint         `json:"assignedTo"`
	StartDate     *time.Time    `json:"startDate"`
	DueDate       *time.Time    `json:"dueDate"`
	CompletedDate *time.Time    `json:"completedDate"`
	Progress      *int          `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Dependencies  *[]uint       `json:"dependencies"`
}

// CreateDocumentRequest carries the form fields of a document upload
type CreateDocumentRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Type       string `json:"type" validate:"required,max=100"`
	EntityType string `json:"entityType" validate:"required,max=50"`
	EntityID   uint   `json:"entityId" validate:"required"`
}
