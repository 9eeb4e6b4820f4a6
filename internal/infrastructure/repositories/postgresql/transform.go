package postgresql

import (
	"fmt"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/infrastructure/database/models"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
)

// transformer maps row models onto domain entities. In lenient mode (reads)
// an unknown enum value becomes the zero value and is logged; in strict mode
// (the create/update round trip) it fails with ErrTransform.
type transformer struct {
	logger *logger.Logger
	strict bool
	err    error
}

func lenient(log *logger.Logger) *transformer {
	return &transformer{logger: log}
}

func strict(log *logger.Logger) *transformer {
	return &transformer{logger: log, strict: true}
}

func enumValue[T ~string](tr *transformer, candidates []T, field, value string) T {
	v, ok := entities.ParseEnum(candidates, value)
	if ok {
		return v
	}
	if tr.strict {
		if tr.err == nil {
			tr.err = fmt.Errorf("%w: unknown %s %q", repositories.ErrTransform, field, value)
		}
	} else {
		tr.logger.Warn("Unknown enum value in stored row", "field", field, "value", value)
	}
	return v
}

func (tr *transformer) userRef(p *models.Profile) *entities.UserRef {
	if p == nil {
		return nil
	}
	return &entities.UserRef{ID: p.ID, FullName: p.FullName, Email: p.Email}
}

func (tr *transformer) companyRef(c *models.Company) *entities.CompanyRef {
	if c == nil {
		return nil
	}
	return &entities.CompanyRef{ID: c.ID, Name: c.Name}
}

func (tr *transformer) caseRef(c *models.Case) *entities.CaseRef {
	if c == nil {
		return nil
	}
	return &entities.CaseRef{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Status:    enumValue(tr, entities.CaseStatuses, "case_status", c.CaseStatus),
		Company:   tr.companyRef(c.Company),
	}
}

func (tr *transformer) profile(m *models.Profile) entities.Profile {
	return entities.Profile{
		ID:        m.ID,
		Email:     m.Email,
		FullName:  m.FullName,
		Role:      enumValue(tr, entities.UserRoles, "role", m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (tr *transformer) company(m *models.Company) entities.Company {
	return entities.Company{
		ID:                  m.ID,
		Name:                m.Name,
		LegalStructure:      m.LegalStructure,
		TaxID:               m.TaxID,
		RegistrationNumber:  m.RegistrationNumber,
		Country:             m.Country,
		PrimaryContactName:  m.PrimaryContactName,
		PrimaryContactEmail: m.PrimaryContactEmail,
		PrimaryContactPhone: m.PrimaryContactPhone,
		AccountManagerID:    m.AccountManagerID,
		AccountManager:      tr.userRef(m.AccountManager),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func (tr *transformer) serviceCategory(m *models.ServiceCategory) entities.ServiceCategory {
	return entities.ServiceCategory{ID: m.ID, Name: m.Name, Description: m.Description}
}

func (tr *transformer) service(m *models.Service) entities.Service {
	s := entities.Service{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CategoryID:  m.CategoryID,
		BasePrice:   m.BasePrice,
	}
	if m.Category != nil {
		category := tr.serviceCategory(m.Category)
		s.Category = &category
	}
	return s
}

func (tr *transformer) caseEntity(m *models.Case) entities.Case {
	c := entities.Case{
		ID:                   m.ID,
		CompanyID:            m.CompanyID,
		ServiceID:            m.ServiceID,
		Status:               enumValue(tr, entities.CaseStatuses, "case_status", m.CaseStatus),
		Priority:             m.Priority,
		ProgressPercent:      m.ProgressPercent,
		StartDate:            m.StartDate,
		TargetDate:           m.TargetDate,
		ActualCompletionDate: m.ActualCompletionDate,
		TotalBudget:          m.TotalBudget,
		SpentBudget:          m.SpentBudget,
		RemainingBudget:      m.RemainingBudget,
		AssignedTo:           m.AssignedTo,
		Notes:                m.Notes,
		Company:              tr.companyRef(m.Company),
		AssignedUser:         tr.userRef(m.AssignedUser),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if m.Service != nil {
		c.Service = &entities.ServiceRef{ID: m.Service.ID, Name: m.Service.Name}
	}
	return c
}

func (tr *transformer) documentType(m *models.DocumentType) entities.DocumentType {
	return entities.DocumentType{ID: m.ID, Name: m.Name, Description: m.Description}
}

func (tr *transformer) document(m *models.Document) entities.Document {
	d := entities.Document{
		ID:          m.ID,
		CaseID:      m.CaseID,
		CompanyID:   m.CompanyID,
		DocTypeID:   m.DocTypeID,
		Name:        m.Name,
		FilePath:    m.FilePath,
		Status:      enumValue(tr, entities.DocumentStatuses, "status", m.Status),
		SubmittedBy: m.SubmittedBy,
		Submitter:   tr.userRef(m.Submitter),
		ReviewedBy:  m.ReviewedBy,
		Reviewer:    tr.userRef(m.Reviewer),
		SubmittedAt: m.SubmittedAt,
		ReviewedAt:  m.ReviewedAt,
		ReviewNotes: m.ReviewNotes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.DocType != nil {
		docType := tr.documentType(m.DocType)
		d.DocType = &docType
	}
	return d
}

func (tr *transformer) payment(m *models.Payment) entities.Payment {
	return entities.Payment{
		ID:            m.ID,
		CaseID:        m.CaseID,
		Case:          tr.caseRef(m.Case),
		AmountDue:     m.AmountDue,
		AmountPaid:    m.AmountPaid,
		DueDate:       m.DueDate,
		PaidAt:        m.PaidAt,
		Status:        enumValue(tr, entities.PaymentStatuses, "status", m.Status),
		InvoiceNumber: m.InvoiceNumber,
		InvoiceURL:    m.InvoiceURL,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (tr *transformer) communication(m *models.Communication) entities.Communication {
	return entities.Communication{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Author:    tr.userRef(m.Author),
		CaseID:    m.CaseID,
		CompanyID: m.CompanyID,
		TaskID:    m.TaskID,
		Type:      enumValue(tr, entities.CommunicationTypes, "comm_type", m.CommType),
		Subject:   m.Subject,
		Body:      m.Body,
		Read:      m.IsRead,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (tr *transformer) taskCategory(m *models.TaskCategory) entities.TaskCategory {
	return entities.TaskCategory{ID: m.ID, Name: m.Name, Description: m.Description, CreatedAt: m.CreatedAt}
}

func (tr *transformer) taskFields(id uuid.UUID, origin entities.TaskOrigin, c *models.TaskColumns, category *models.TaskCategory, assignee *models.Profile) entities.TaskFields {
	f := entities.TaskFields{
		TaskID:       id,
		OriginType:   origin,
		Title:        c.Title,
		Description:  c.Description,
		Status:       enumValue(tr, entities.TaskStatuses, "status", c.Status),
		Priority:     c.Priority,
		DueDate:      c.DueDate,
		CategoryID:   c.CategoryID,
		AssignedTo:   c.AssignedTo,
		AssignedUser: tr.userRef(assignee),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if category != nil {
		tc := tr.taskCategory(category)
		f.Category = &tc
	}
	return f
}

func (tr *transformer) predefinedTask(m *models.PredefinedTask) *entities.PredefinedTask {
	return &entities.PredefinedTask{
		TaskFields:       tr.taskFields(m.PredefinedTaskID, entities.OriginPredefined, &m.TaskColumns, m.Category, m.AssignedUser),
		PredefinedTaskID: m.PredefinedTaskID,
	}
}

func (tr *transformer) companyTask(m *models.CompanyTask) *entities.CompanyTask {
	return &entities.CompanyTask{
		TaskFields:    tr.taskFields(m.CompanyTaskID, entities.OriginCompany, &m.TaskColumns, m.Category, m.AssignedUser),
		CompanyTaskID: m.CompanyTaskID,
		CompanyID:     m.CompanyID,
		Company:       tr.companyRef(m.Company),
	}
}

func (tr *transformer) caseTask(m *models.CaseTask) *entities.CaseTask {
	return &entities.CaseTask{
		TaskFields: tr.taskFields(m.CaseTaskID, entities.OriginCase, &m.TaskColumns, m.Category, m.AssignedUser),
		CaseTaskID: m.CaseTaskID,
		CaseID:     m.CaseID,
		Case:       tr.caseRef(m.Case),
	}
}
