// Package entities holds the flat domain shapes the resource clients return.
// Joined rows are folded into small reference structs; a join the store did
// not return is nil.
package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile mirrors a Supabase Auth user with the role stored in our database.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRef is the subset of a profile embedded in other records.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

type Company struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	LegalStructure      string     `json:"legal_structure"`
	TaxID               string     `json:"tax_id"`
	RegistrationNumber  string     `json:"registration_number"`
	Country             string     `json:"country"`
	PrimaryContactName  string     `json:"primary_contact_name"`
	PrimaryContactEmail string     `json:"primary_contact_email"`
	PrimaryContactPhone string     `json:"primary_contact_phone"`
	AccountManagerID    *uuid.UUID `json:"account_manager_id"`
	AccountManager      *UserRef   `json:"account_manager"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// CompanyRef is the subset of a company embedded in other records.
type CompanyRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ServiceCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type Service struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Category    *ServiceCategory `json:"category"`
	BasePrice   decimal.Decimal  `json:"base_price"`
}

// ServiceRef is the subset of a service embedded in a case.
type ServiceRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Case struct {
	ID                   uuid.UUID       `json:"id"`
	CompanyID            uuid.UUID       `json:"company_id"`
	ServiceID            uuid.UUID       `json:"service_id"`
	Status               CaseStatus      `json:"case_status"`
	Priority             int             `json:"priority"`
	ProgressPercent      int             `json:"progress_percent"`
	StartDate            *time.Time      `json:"start_date"`
	TargetDate           *time.Time      `json:"target_date"`
	ActualCompletionDate *time.Time      `json:"actual_completion_date"`
	TotalBudget          decimal.Decimal `json:"total_budget"`
	SpentBudget          decimal.Decimal `json:"spent_budget"`
	RemainingBudget      decimal.Decimal `json:"remaining_budget"`
	AssignedTo           *uuid.UUID      `json:"assigned_to"`
	Notes                string          `json:"notes"`
	Service              *ServiceRef     `json:"service"`
	Company              *CompanyRef     `json:"company"`
	AssignedUser         *UserRef        `json:"assigned_user"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// CaseRef is the subset of a case embedded in payments and tasks.
type CaseRef struct {
	ID        uuid.UUID   `json:"id"`
	CompanyID uuid.UUID   `json:"company_id"`
	Status    CaseStatus  `json:"case_status"`
	Company   *CompanyRef `json:"company"`
}

type DocumentType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type Document struct {
	ID          uuid.UUID      `json:"id"`
	CaseID      *uuid.UUID     `json:"case_id"`
	CompanyID   *uuid.UUID     `json:"company_id"`
	DocTypeID   *uuid.UUID     `json:"doc_type_id"`
	DocType     *DocumentType  `json:"doc_type"`
	Name        string         `json:"name"`
	FilePath    string         `json:"file_path"`
	Status      DocumentStatus `json:"status"`
	SubmittedBy *uuid.UUID     `json:"submitted_by"`
	Submitter   *UserRef       `json:"submitter"`
	ReviewedBy  *uuid.UUID     `json:"reviewed_by"`
	Reviewer    *UserRef       `json:"reviewer"`
	SubmittedAt *time.Time     `json:"submitted_at"`
	ReviewedAt  *time.Time     `json:"reviewed_at"`
	ReviewNotes string         `json:"review_notes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type Payment struct {
	ID            uuid.UUID       `json:"id"`
	CaseID        uuid.UUID       `json:"case_id"`
	Case          *CaseRef        `json:"case"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	DueDate       *time.Time      `json:"due_date"`
	PaidAt        *time.Time      `json:"paid_at"`
	Status        PaymentStatus   `json:"status"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceURL    string          `json:"invoice_url"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Outstanding is what is left to pay.
func (p Payment) Outstanding() decimal.Decimal {
	left := p.AmountDue.Sub(p.AmountPaid)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

type Communication struct {
	ID        uuid.UUID         `json:"id"`
	AuthorID  uuid.UUID         `json:"author_id"`
	Author    *UserRef          `json:"author"`
	CaseID    *uuid.UUID        `json:"case_id"`
	CompanyID *uuid.UUID        `json:"company_id"`
	TaskID    *uuid.UUID        `json:"task_id"`
	Type      CommunicationType `json:"comm_type"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type TaskCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
