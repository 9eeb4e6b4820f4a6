package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Row models mirror the hosted Postgres schema. Enum columns are plain
// strings here; the repositories map them onto the domain enums.
//
// Primary keys are generated client-side in BeforeCreate so the same models
// migrate on Postgres and SQLite.

type Profile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName  string    `json:"full_name" gorm:"type:varchar(255)"`
	Role      string    `json:"role" gorm:"type:varchar(30);not null;default:'CLIENT';index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Company struct {
	ID                  uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name                string     `json:"name" gorm:"type:varchar(255);not null;index"`
	LegalStructure      string     `json:"legal_structure" gorm:"type:varchar(100)"`
	TaxID               string     `json:"tax_id" gorm:"type:varchar(50)"`
	RegistrationNumber  string     `json:"registration_number" gorm:"type:varchar(50)"`
	Country             string     `json:"country" gorm:"type:varchar(100);default:'Saudi Arabia'"`
	PrimaryContactName  string     `json:"primary_contact_name" gorm:"type:varchar(255)"`
	PrimaryContactEmail string     `json:"primary_contact_email" gorm:"type:varchar(255);index"`
	PrimaryContactPhone string     `json:"primary_contact_phone" gorm:"type:varchar(50)"`
	AccountManagerID    *uuid.UUID `json:"account_manager_id" gorm:"type:uuid;index"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Relationships
	AccountManager *Profile `json:"account_manager,omitempty" gorm:"foreignKey:AccountManagerID"`
}

type ServiceCategory struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

type Service struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:text"`
	CategoryID  *uuid.UUID      `json:"category_id" gorm:"type:uuid;index"`
	BasePrice   decimal.Decimal `json:"base_price" gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`

	Category *ServiceCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

type Case struct {
	ID                   uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID            uuid.UUID       `json:"company_id" gorm:"type:uuid;not null;index"`
	ServiceID            uuid.UUID       `json:"service_id" gorm:"type:uuid;not null;index"`
	CaseStatus           string          `json:"case_status" gorm:"column:case_status;type:varchar(30);not null;default:'NOT_STARTED';index"`
	Priority             int             `json:"priority" gorm:"not null;default:3"`
	ProgressPercent      int             `json:"progress_percent" gorm:"not null;default:0"`
	StartDate            *time.Time      `json:"start_date"`
	TargetDate           *time.Time      `json:"target_date"`
	ActualCompletionDate *time.Time      `json:"actual_completion_date"`
	TotalBudget          decimal.Decimal `json:"total_budget" gorm:"type:decimal(15,2);not null;default:0"`
	SpentBudget          decimal.Decimal `json:"spent_budget" gorm:"type:decimal(15,2);not null;default:0"`
	RemainingBudget      decimal.Decimal `json:"remaining_budget" gorm:"type:decimal(15,2);not null;default:0"`
	AssignedTo           *uuid.UUID      `json:"assigned_to" gorm:"type:uuid;index"`
	Notes                string          `json:"notes" gorm:"type:text"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`

	// Relationships
	Service      *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	Company      *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	AssignedUser *Profile `json:"assigned_user,omitempty" gorm:"foreignKey:AssignedTo"`
}

type DocumentType struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

type Document struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	CaseID      *uuid.UUID `json:"case_id" gorm:"type:uuid;index"`
	CompanyID   *uuid.UUID `json:"company_id" gorm:"type:uuid;index"`
	DocTypeID   *uuid.UUID `json:"doc_type_id" gorm:"type:uuid;index"`
	Name        string     `json:"name" gorm:"type:varchar(255);not null"`
	FilePath    string     `json:"file_path" gorm:"type:varchar(500)"`
	Status      string     `json:"status" gorm:"type:varchar(30);not null;default:'NOT_SUBMITTED';index"`
	SubmittedBy *uuid.UUID `json:"submitted_by" gorm:"type:uuid"`
	ReviewedBy  *uuid.UUID `json:"reviewed_by" gorm:"type:uuid"`
	SubmittedAt *time.Time `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	ReviewNotes string     `json:"review_notes" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	DocType   *DocumentType `json:"doc_type,omitempty" gorm:"foreignKey:DocTypeID"`
	Submitter *Profile      `json:"submitter,omitempty" gorm:"foreignKey:SubmittedBy"`
	Reviewer  *Profile      `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
}

type Payment struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	CaseID        uuid.UUID       `json:"case_id" gorm:"type:uuid;not null;index"`
	AmountDue     decimal.Decimal `json:"amount_due" gorm:"type:decimal(15,2);not null;default:0"`
	AmountPaid    decimal.Decimal `json:"amount_paid" gorm:"type:decimal(15,2);not null;default:0"`
	DueDate       *time.Time      `json:"due_date" gorm:"index"`
	PaidAt        *time.Time      `json:"paid_at"`
	Status        string          `json:"status" gorm:"type:varchar(20);not null;default:'DUE';index"`
	InvoiceNumber string          `json:"invoice_number" gorm:"type:varchar(100)"`
	InvoiceURL    string          `json:"invoice_url" gorm:"type:varchar(500)"`
	Notes         string          `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Case *Case `json:"case,omitempty" gorm:"foreignKey:CaseID"`
}

type Communication struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AuthorID  uuid.UUID  `json:"author_id" gorm:"type:uuid;not null;index"`
	CaseID    *uuid.UUID `json:"case_id" gorm:"type:uuid;index"`
	CompanyID *uuid.UUID `json:"company_id" gorm:"type:uuid;index"`
	TaskID    *uuid.UUID `json:"task_id" gorm:"type:uuid;index"`
	CommType  string     `json:"comm_type" gorm:"column:comm_type;type:varchar(20);not null"`
	Subject   string     `json:"subject" gorm:"type:varchar(255)"`
	Body      string     `json:"body" gorm:"type:text;not null"`
	IsRead    bool       `json:"read" gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Author *Profile `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

type TaskCategory struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskColumns are shared by the three task tables.
type TaskColumns struct {
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Description string     `json:"description" gorm:"type:text"`
	Status      string     `json:"status" gorm:"type:varchar(20);not null;default:'NOT_STARTED';index"`
	Priority    int        `json:"priority" gorm:"not null;default:3"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *uuid.UUID `json:"category_id" gorm:"type:uuid;index"`
	AssignedTo  *uuid.UUID `json:"assigned_to" gorm:"type:uuid;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type PredefinedTask struct {
	PredefinedTaskID uuid.UUID `json:"predefined_task_id" gorm:"column:predefined_task_id;type:uuid;primaryKey"`
	TaskColumns

	Category     *TaskCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AssignedUser *Profile      `json:"assigned_user,omitempty" gorm:"foreignKey:AssignedTo"`
}

type CompanyTask struct {
	CompanyTaskID uuid.UUID `json:"company_task_id" gorm:"column:company_task_id;type:uuid;primaryKey"`
	CompanyID     uuid.UUID `json:"company_id" gorm:"type:uuid;not null;index"`
	TaskColumns

	Company      *Company      `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Category     *TaskCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AssignedUser *Profile      `json:"assigned_user,omitempty" gorm:"foreignKey:AssignedTo"`
}

type CaseTask struct {
	CaseTaskID uuid.UUID `json:"case_task_id" gorm:"column:case_task_id;type:uuid;primaryKey"`
	CaseID     uuid.UUID `json:"case_id" gorm:"type:uuid;not null;index"`
	TaskColumns

	Case         *Case         `json:"case,omitempty" gorm:"foreignKey:CaseID"`
	Category     *TaskCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AssignedUser *Profile      `json:"assigned_user,omitempty" gorm:"foreignKey:AssignedTo"`
}

func (Profile) TableName() string         { return "profiles" }
func (Company) TableName() string         { return "companies" }
func (ServiceCategory) TableName() string { return "service_categories" }
func (Service) TableName() string         { return "services" }
func (Case) TableName() string            { return "cases" }
func (DocumentType) TableName() string    { return "document_types" }
func (Document) TableName() string        { return "documents" }
func (Payment) TableName() string         { return "payments" }
func (Communication) TableName() string   { return "communications" }
func (TaskCategory) TableName() string    { return "task_categories" }
func (PredefinedTask) TableName() string  { return "predefined_tasks" }
func (CompanyTask) TableName() string     { return "company_tasks" }
func (CaseTask) TableName() string        { return "case_tasks" }

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *Profile) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *Company) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *ServiceCategory) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *Service) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *Case) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *DocumentType) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *Document) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *Payment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *Communication) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *TaskCategory) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *PredefinedTask) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.PredefinedTaskID)
	return nil
}

func (m *CompanyTask) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.CompanyTaskID)
	return nil
}

func (m *CaseTask) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.CaseTaskID)
	return nil
}

// GetAllModels returns all models for migration, parents first
func GetAllModels() []interface{} {
	return []interface{}{
		&Profile{},
		&Company{},
		&ServiceCategory{},
		&Service{},
		&Case{},
		&DocumentType{},
		&Document{},
		&Payment{},
		&TaskCategory{},
		&PredefinedTask{},
		&CompanyTask{},
		&CaseTask{},
		&Communication{},
	}
}
