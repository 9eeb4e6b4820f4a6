package repositories

import (
	"time"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Create inputs carry validator tags checked before any store call. Update
// inputs use pointers: a nil field is left untouched.

type CreateProfileInput struct {
	ID       uuid.UUID         `json:"id" validate:"required"`
	Email    string            `json:"email" validate:"required,email"`
	FullName string            `json:"full_name" validate:"max=255"`
	Role     entities.UserRole `json:"role" validate:"required"`
}

type CreateCompanyInput struct {
	Name                string     `json:"name" validate:"required,max=255"`
	LegalStructure      string     `json:"legal_structure" validate:"max=100"`
	TaxID               string     `json:"tax_id" validate:"max=50"`
	RegistrationNumber  string     `json:"registration_number" validate:"max=50"`
	Country             string     `json:"country" validate:"max=100"`
	PrimaryContactName  string     `json:"primary_contact_name" validate:"max=255"`
	PrimaryContactEmail string     `json:"primary_contact_email" validate:"omitempty,email"`
	PrimaryContactPhone string     `json:"primary_contact_phone" validate:"max=50"`
	AccountManagerID    *uuid.UUID `json:"account_manager_id"`
}

type UpdateCompanyInput struct {
	Name                *string    `json:"name" validate:"omitempty,min=1,max=255"`
	LegalStructure      *string    `json:"legal_structure" validate:"omitempty,max=100"`
	TaxID               *string    `json:"tax_id" validate:"omitempty,max=50"`
	RegistrationNumber  *string    `json:"registration_number" validate:"omitempty,max=50"`
	Country             *string    `json:"country" validate:"omitempty,max=100"`
	PrimaryContactName  *string    `json:"primary_contact_name" validate:"omitempty,max=255"`
	PrimaryContactEmail *string    `json:"primary_contact_email" validate:"omitempty,email"`
	PrimaryContactPhone *string    `json:"primary_contact_phone" validate:"omitempty,max=50"`
	AccountManagerID    *uuid.UUID `json:"account_manager_id"`
}

type CreateCaseInput struct {
	CompanyID            uuid.UUID           `json:"company_id" validate:"required"`
	ServiceID            uuid.UUID           `json:"service_id" validate:"required"`
	Status               entities.CaseStatus `json:"case_status"`
	Priority             int                 `json:"priority" validate:"omitempty,min=1,max=5"`
	ProgressPercent      int                 `json:"progress_percent" validate:"min=0,max=100"`
	StartDate            *time.Time          `json:"start_date"`
	TargetDate           *time.Time          `json:"target_date"`
	ActualCompletionDate *time.Time          `json:"actual_completion_date"`
	TotalBudget          decimal.Decimal     `json:"total_budget"`
	SpentBudget          decimal.Decimal     `json:"spent_budget"`
	AssignedTo           *uuid.UUID          `json:"assigned_to"`
	Notes                string              `json:"notes"`
}

type UpdateCaseInput struct {
	ServiceID            *uuid.UUID           `json:"service_id"`
	Status               *entities.CaseStatus `json:"case_status"`
	Priority             *int                 `json:"priority" validate:"omitempty,min=1,max=5"`
	ProgressPercent      *int                 `json:"progress_percent" validate:"omitempty,min=0,max=100"`
	StartDate            *time.Time           `json:"start_date"`
	TargetDate           *time.Time           `json:"target_date"`
	ActualCompletionDate *time.Time           `json:"actual_completion_date"`
	TotalBudget          *decimal.Decimal     `json:"total_budget"`
	SpentBudget          *decimal.Decimal     `json:"spent_budget"`
	AssignedTo           *uuid.UUID           `json:"assigned_to"`
	Notes                *string              `json:"notes"`
}

type CreateDocumentInput struct {
	CaseID      *uuid.UUID              `json:"case_id"`
	CompanyID   *uuid.UUID              `json:"company_id"`
	DocTypeID   *uuid.UUID              `json:"doc_type_id"`
	Name        string                  `json:"name" validate:"required,max=255"`
	FilePath    string                  `json:"file_path" validate:"max=500"`
	Status      entities.DocumentStatus `json:"status"`
	SubmittedBy *uuid.UUID              `json:"submitted_by"`
}

type UpdateDocumentInput struct {
	DocTypeID   *uuid.UUID               `json:"doc_type_id"`
	Name        *string                  `json:"name" validate:"omitempty,min=1,max=255"`
	FilePath    *string                  `json:"file_path" validate:"omitempty,max=500"`
	Status      *entities.DocumentStatus `json:"status"`
	SubmittedBy *uuid.UUID               `json:"submitted_by"`
	ReviewedBy  *uuid.UUID               `json:"reviewed_by"`
	SubmittedAt *time.Time               `json:"submitted_at"`
	ReviewedAt  *time.Time               `json:"reviewed_at"`
	ReviewNotes *string                  `json:"review_notes"`
}

type CreatePaymentInput struct {
	CaseID        uuid.UUID              `json:"case_id" validate:"required"`
	AmountDue     decimal.Decimal        `json:"amount_due"`
	AmountPaid    decimal.Decimal        `json:"amount_paid"`
	DueDate       *time.Time             `json:"due_date"`
	Status        entities.PaymentStatus `json:"status"`
	InvoiceNumber string                 `json:"invoice_number" validate:"max=100"`
	InvoiceURL    string                 `json:"invoice_url" validate:"omitempty,url"`
	Notes         string                 `json:"notes"`
}

type UpdatePaymentInput struct {
	AmountDue     *decimal.Decimal        `json:"amount_due"`
	AmountPaid    *decimal.Decimal        `json:"amount_paid"`
	DueDate       *time.Time              `json:"due_date"`
	PaidAt        *time.Time              `json:"paid_at"`
	Status        *entities.PaymentStatus `json:"status"`
	InvoiceNumber *string                 `json:"invoice_number" validate:"omitempty,max=100"`
	InvoiceURL    *string                 `json:"invoice_url" validate:"omitempty,url"`
	Notes         *string                 `json:"notes"`
}

type CreateCommunicationInput struct {
	AuthorID  uuid.UUID                  `json:"author_id" validate:"required"`
	CaseID    *uuid.UUID                 `json:"case_id"`
	CompanyID *uuid.UUID                 `json:"company_id"`
	TaskID    *uuid.UUID                 `json:"task_id"`
	Type      entities.CommunicationType `json:"comm_type" validate:"required"`
	Subject   string                     `json:"subject" validate:"max=255"`
	Body      string                     `json:"body" validate:"required"`
}

// ParentCount is how many of case/company/task are set.
func (in CreateCommunicationInput) ParentCount() int {
	return countSet(in.CaseID, in.CompanyID, in.TaskID)
}

type UpdateCommunicationInput struct {
	CaseID    *uuid.UUID                  `json:"case_id"`
	CompanyID *uuid.UUID                  `json:"company_id"`
	TaskID    *uuid.UUID                  `json:"task_id"`
	Type      *entities.CommunicationType `json:"comm_type"`
	Subject   *string                     `json:"subject" validate:"omitempty,max=255"`
	Body      *string                     `json:"body" validate:"omitempty,min=1"`
	Read      *bool                       `json:"read"`
}

// ParentCount is how many of case/company/task this patch sets.
func (in UpdateCommunicationInput) ParentCount() int {
	return countSet(in.CaseID, in.CompanyID, in.TaskID)
}

type CreateTaskInput struct {
	Origin      entities.TaskOrigin `json:"origin_type" validate:"required"`
	CaseID      *uuid.UUID          `json:"case_id"`
	CompanyID   *uuid.UUID          `json:"company_id"`
	Title       string              `json:"title" validate:"required,max=255"`
	Description string              `json:"description"`
	Status      entities.TaskStatus `json:"status"`
	Priority    int                 `json:"priority" validate:"omitempty,min=1,max=5"`
	DueDate     *time.Time          `json:"due_date"`
	CategoryID  *uuid.UUID          `json:"category_id"`
	AssignedTo  *uuid.UUID          `json:"assigned_to"`
}

type UpdateTaskInput struct {
	Title       *string              `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string              `json:"description"`
	Status      *entities.TaskStatus `json:"status"`
	Priority    *int                 `json:"priority" validate:"omitempty,min=1,max=5"`
	DueDate     *time.Time           `json:"due_date"`
	CategoryID  *uuid.UUID           `json:"category_id"`
	AssignedTo  *uuid.UUID           `json:"assigned_to"`
}

type CreateTaskCategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type UpdateTaskCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

func countSet(ids ...*uuid.UUID) int {
	n := 0
	for _, id := range ids {
		if id != nil {
			n++
		}
	}
	return n
}
