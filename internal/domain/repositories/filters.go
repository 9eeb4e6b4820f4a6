package repositories

import (
	"net/url"
	"sort"
	"strings"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/google/uuid"
)

// Every filter bag renders itself as url.Values so the query-key registry can
// build an order-independent discriminator from it. Only fields that are set
// appear in the output.

type ProfileFilters struct {
	Role entities.UserRole `json:"role,omitempty"`
}

func (f ProfileFilters) Params() url.Values {
	v := url.Values{}
	setString(v, "role", string(f.Role))
	return v
}

type CompanyFilters struct {
	AccountManagerID *uuid.UUID `json:"account_manager_id,omitempty"`
	Search           string     `json:"search,omitempty"`
}

func (f CompanyFilters) Params() url.Values {
	v := url.Values{}
	setID(v, "account_manager_id", f.AccountManagerID)
	setString(v, "search", strings.TrimSpace(f.Search))
	return v
}

type CaseFilters struct {
	CompanyID  *uuid.UUID          `json:"company_id,omitempty"`
	ServiceID  *uuid.UUID          `json:"service_id,omitempty"`
	AssignedTo *uuid.UUID          `json:"assigned_to,omitempty"`
	Status     entities.CaseStatus `json:"case_status,omitempty"`
}

func (f CaseFilters) Params() url.Values {
	v := url.Values{}
	setID(v, "company_id", f.CompanyID)
	setID(v, "service_id", f.ServiceID)
	setID(v, "assigned_to", f.AssignedTo)
	setString(v, "case_status", string(f.Status))
	return v
}

type DocumentFilters struct {
	CaseID    *uuid.UUID                `json:"case_id,omitempty"`
	CompanyID *uuid.UUID                `json:"company_id,omitempty"`
	DocTypeID *uuid.UUID                `json:"doc_type_id,omitempty"`
	Statuses  []entities.DocumentStatus `json:"statuses,omitempty"`
}

func (f DocumentFilters) Params() url.Values {
	v := url.Values{}
	setID(v, "case_id", f.CaseID)
	setID(v, "company_id", f.CompanyID)
	setID(v, "doc_type_id", f.DocTypeID)
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		sort.Strings(statuses)
		v.Set("statuses", strings.Join(statuses, ","))
	}
	return v
}

type PaymentFilters struct {
	CaseID *uuid.UUID             `json:"case_id,omitempty"`
	Status entities.PaymentStatus `json:"status,omitempty"`
}

func (f PaymentFilters) Params() url.Values {
	v := url.Values{}
	setID(v, "case_id", f.CaseID)
	setString(v, "status", string(f.Status))
	return v
}

// CommunicationFilters selects communications by exactly one parent, by
// author, or the general (parentless) feed. Setting more than one is invalid.
type CommunicationFilters struct {
	CaseID    *uuid.UUID `json:"case_id,omitempty"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	TaskID    *uuid.UUID `json:"task_id,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	General   bool       `json:"general,omitempty"`
}

func (f CommunicationFilters) Params() url.Values {
	v := url.Values{}
	setID(v, "case_id", f.CaseID)
	setID(v, "company_id", f.CompanyID)
	setID(v, "task_id", f.TaskID)
	setID(v, "user_id", f.UserID)
	if f.General {
		v.Set("general", "true")
	}
	return v
}

// Validate rejects filter bags with more than one selector set, naming the
// selectors that were supplied.
func (f CommunicationFilters) Validate() error {
	var supplied []string
	if f.CaseID != nil {
		supplied = append(supplied, "case_id")
	}
	if f.CompanyID != nil {
		supplied = append(supplied, "company_id")
	}
	if f.TaskID != nil {
		supplied = append(supplied, "task_id")
	}
	if f.UserID != nil {
		supplied = append(supplied, "user_id")
	}
	if f.General {
		supplied = append(supplied, "general")
	}
	if len(supplied) > 1 {
		return NewValidationError(
			"only one of case_id, company_id, task_id, user_id or general may be used to filter communications, got: %s",
			strings.Join(supplied, ", "),
		)
	}
	return nil
}

type TaskFilters struct {
	Origin     entities.TaskOrigin `json:"origin_type,omitempty"`
	CaseID     *uuid.UUID          `json:"case_id,omitempty"`
	CompanyID  *uuid.UUID          `json:"company_id,omitempty"`
	AssignedTo *uuid.UUID          `json:"assigned_to,omitempty"`
	CategoryID *uuid.UUID          `json:"category_id,omitempty"`
	Status     entities.TaskStatus `json:"status,omitempty"`
}

func (f TaskFilters) Params() url.Values {
	v := url.Values{}
	setString(v, "origin_type", string(f.Origin))
	setID(v, "case_id", f.CaseID)
	setID(v, "company_id", f.CompanyID)
	setID(v, "assigned_to", f.AssignedTo)
	setID(v, "category_id", f.CategoryID)
	setString(v, "status", string(f.Status))
	return v
}

type ServiceFilters struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

func (f ServiceFilters) Params() url.Values {
	v := url.Values{}
	setID(v, "category_id", f.CategoryID)
	return v
}

func setID(v url.Values, key string, id *uuid.UUID) {
	if id != nil {
		v.Set(key, id.String())
	}
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
