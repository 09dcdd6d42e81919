package mapper

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/domain"
)

// timestampLayout is RFC 3339 in UTC with fixed-width microseconds, so
// rendered timestamps also sort lexically
const timestampLayout = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// Money renders a decimal with exactly two fraction digits
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Name:      user.Name,
		CreatedAt: formatTime(user.CreatedAt),
	}
}

func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	return domain.LeadDTO{
		ID:             lead.ID,
		CompanyName:    lead.CompanyName,
		ContactPerson:  lead.ContactPerson,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Capacity:       Money(lead.Capacity),
		EstimatedValue: Money(lead.EstimatedValue),
		Stage:          lead.Stage,
		ProjectType:    lead.ProjectType,
		Source:         lead.Source,
		Notes:          lead.Notes,
		AssignedTo:     lead.AssignedTo,
		CreatedAt:      formatTime(lead.CreatedAt),
		UpdatedAt:      formatTime(lead.UpdatedAt),
	}
}

func ToLeadDTOs(leads []domain.Lead) []domain.LeadDTO {
	dtos := make([]domain.LeadDTO, len(leads))
	for i := range leads {
		dtos[i] = ToLeadDTO(&leads[i])
	}
	return dtos
}

func ToProjectDTO(project *domain.Project) domain.ProjectDTO {
	return domain.ProjectDTO{
		ID:                     project.ID,
		LeadID:                 project.LeadID,
		Name:                   project.Name,
		Client:                 project.Client,
		Capacity:               Money(project.Capacity),
		ContractValue:          Money(project.ContractValue),
		ProjectType:            project.ProjectType,
		Status:                 project.Status,
		StartDate:              formatTimePtr(project.StartDate),
		ExpectedCompletionDate: formatTimePtr(project.ExpectedCompletionDate),
		ActualCompletionDate:   formatTimePtr(project.ActualCompletionDate),
		Progress:               project.Progress,
		ProjectManager:         project.ProjectManager,
		CreatedAt:              formatTime(project.CreatedAt),
		UpdatedAt:              formatTime(project.UpdatedAt),
	}
}

func ToProjectDTOs(projects []domain.Project) []domain.ProjectDTO {
	dtos := make([]domain.ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = ToProjectDTO(&projects[i])
	}
	return dtos
}

func ToVendorDTO(vendor *domain.Vendor) domain.VendorDTO {
	return domain.VendorDTO{
		ID:            vendor.ID,
		Name:          vendor.Name,
		ContactPerson: vendor.ContactPerson,
		Email:         vendor.Email,
		Phone:         vendor.Phone,
		Address:       vendor.Address,
		Category:      vendor.Category,
		Tier:          vendor.Tier,
		IsActive:      vendor.IsActive,
		CreatedAt:     formatTime(vendor.CreatedAt),
	}
}

func ToVendorDTOs(vendors []domain.Vendor) []domain.VendorDTO {
	dtos := make([]domain.VendorDTO, len(vendors))
	for i := range vendors {
		dtos[i] = ToVendorDTO(&vendors[i])
	}
	return dtos
}

func ToPurchaseOrderDTO(po *domain.PurchaseOrder) domain.PurchaseOrderDTO {
	items := make([]domain.PurchaseOrderItemDTO, len(po.Items))
	for i, item := range po.Items {
		items[i] = domain.PurchaseOrderItemDTO{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: Money(item.UnitPrice),
			Total:     Money(item.Total),
		}
	}

	return domain.PurchaseOrderDTO{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		ProjectID:            po.ProjectID,
		VendorID:             po.VendorID,
		Description:          po.Description,
		Items:                items,
		TotalAmount:          Money(po.TotalAmount),
		Status:               po.Status,
		OrderDate:            formatTimePtr(po.OrderDate),
		ExpectedDeliveryDate: formatTimePtr(po.ExpectedDeliveryDate),
		ActualDeliveryDate:   formatTimePtr(po.ActualDeliveryDate),
		CreatedBy:            po.CreatedBy,
		CreatedAt:            formatTime(po.CreatedAt),
		UpdatedAt:            formatTime(po.UpdatedAt),
	}
}

func ToPurchaseOrderDTOs(orders []domain.PurchaseOrder) []domain.PurchaseOrderDTO {
	dtos := make([]domain.PurchaseOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = ToPurchaseOrderDTO(&orders[i])
	}
	return dtos
}

func ToInvoiceDTO(invoice *domain.Invoice) domain.InvoiceDTO {
	items := make([]domain.InvoiceItemDTO, len(invoice.Items))
	for i, item := range invoice.Items {
		items[i] = domain.InvoiceItemDTO{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        Money(item.Rate),
			Amount:      Money(item.Amount),
		}
	}

	return domain.InvoiceDTO{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		ProjectID:     invoice.ProjectID,
		Type:          invoice.Type,
		Amount:        Money(invoice.Amount),
		TaxAmount:     Money(invoice.TaxAmount),
		TotalAmount:   Money(invoice.TotalAmount),
		Status:        invoice.Status,
		IssueDate:     formatTime(invoice.IssueDate),
		DueDate:       formatTime(invoice.DueDate),
		PaidDate:      formatTimePtr(invoice.PaidDate),
		ClientEmail:   invoice.ClientEmail,
		Description:   invoice.Description,
		Items:         items,
		CreatedBy:     invoice.CreatedBy,
		CreatedAt:     formatTime(invoice.CreatedAt),
		UpdatedAt:     formatTime(invoice.UpdatedAt),
	}
}

func ToInvoiceDTOs(invoices []domain.Invoice) []domain.InvoiceDTO {
	dtos := make([]domain.InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = ToInvoiceDTO(&invoices[i])
	}
	return dtos
}

func ToTaskDTO(task *domain.Task) domain.TaskDTO {
	deps := []uint(task.Dependencies)
	if deps == nil {
		deps = []uint{}
	}

	return domain.TaskDTO{
		ID:            task.ID,
		ProjectID:     task.ProjectID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		Priority:      task.Priority,
		AssignedTo:    task.AssignedTo,
		StartDate:     formatTimePtr(task.StartDate),
		DueDate:       formatTimePtr(task.DueDate),
		CompletedDate: formatTimePtr(task.CompletedDate),
		Progress:      task.Progress,
		Dependencies:  deps,
		CreatedBy:     task.CreatedBy,
		CreatedAt:     formatTime(task.CreatedAt),
		UpdatedAt:     formatTime(task.UpdatedAt),
	}
}

func ToTaskDTOs(tasks []domain.Task) []domain.TaskDTO {
	dtos := make([]domain.TaskDTO, len(tasks))
	for i := range tasks {
		dtos[i] = ToTaskDTO(&tasks[i])
	}
	return dtos
}

func ToDocumentDTO(doc *domain.Document) domain.DocumentDTO {
	return domain.DocumentDTO{
		ID:         doc.ID,
		Name:       doc.Name,
		Type:       doc.Type,
		EntityType: doc.EntityType,
		EntityID:   doc.EntityID,
		FilePath:   doc.FilePath,
		FileSize:   doc.FileSize,
		MimeType:   doc.MimeType,
		UploadedBy: doc.UploadedBy,
		CreatedAt:  formatTime(doc.CreatedAt),
	}
}

func ToDocumentDTOs(docs []domain.Document) []domain.DocumentDTO {
	dtos := make([]domain.DocumentDTO, len(docs))
	for i := range docs {
		dtos[i] = ToDocumentDTO(&docs[i])
	}
	return dtos
}

func ToActivityDTO(activity *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:          activity.ID,
		EntityType:  activity.EntityType,
		EntityID:    activity.EntityID,
		Action:      activity.Action,
		Description: activity.Description,
		Metadata:    activity.Metadata,
		PerformedBy: activity.PerformedBy,
		CreatedAt:   formatTime(activity.CreatedAt),
	}
}

func ToActivityDTOs(activities []domain.Activity) []domain.ActivityDTO {
	dtos := make([]domain.ActivityDTO, len(activities))
	for i := range activities {
		dtos[i] = ToActivityDTO(&activities[i])
	}
	return dtos
}
