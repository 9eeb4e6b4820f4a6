package entities

// Enumerated column values. The store keeps them as plain varchar, so every
// value read back goes through ParseEnum before it reaches a domain entity.
type CaseStatus string
type DocumentStatus string
type PaymentStatus string
type CommunicationType string
type TaskStatus string
type TaskOrigin string
type UserRole string

const (
	// Case Status
	CaseNotStarted CaseStatus = "NOT_STARTED"
	CaseInProgress CaseStatus = "IN_PROGRESS"
	CaseCompleted  CaseStatus = "COMPLETED"
	CaseOnHold     CaseStatus = "ON_HOLD"
	CaseCancelled  CaseStatus = "CANCELLED"

	// Document Status
	DocNotSubmitted         DocumentStatus = "NOT_SUBMITTED"
	DocSubmitted            DocumentStatus = "SUBMITTED"
	DocUnderReview          DocumentStatus = "UNDER_REVIEW"
	DocApproved             DocumentStatus = "APPROVED"
	DocRejected             DocumentStatus = "REJECTED"
	DocClientActionRequired DocumentStatus = "CLIENT_ACTION_REQUIRED"

	// Payment Status
	PaymentDue       PaymentStatus = "DUE"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentPartial   PaymentStatus = "PARTIAL"
	PaymentUnpaid    PaymentStatus = "UNPAID"
	PaymentOverdue   PaymentStatus = "OVERDUE"
	PaymentWaived    PaymentStatus = "WAIVED"
	PaymentCancelled PaymentStatus = "CANCELLED"

	// Communication Types
	CommAnnouncement CommunicationType = "ANNOUNCEMENT"
	CommCase         CommunicationType = "CASE"
	CommClient       CommunicationType = "CLIENT"
	CommTask         CommunicationType = "TASK"
	CommMessage      CommunicationType = "MESSAGE"

	// Task Status
	TaskNotStarted TaskStatus = "NOT_STARTED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskBlocked    TaskStatus = "BLOCKED"
	TaskCancelled  TaskStatus = "CANCELLED"

	// Task Origins
	OriginPredefined TaskOrigin = "PREDEFINED"
	OriginCompany    TaskOrigin = "COMPANY"
	OriginCase       TaskOrigin = "CASE"

	// User Roles
	RoleAdmin              UserRole = "ADMIN"
	RoleManager            UserRole = "MANAGER"
	RoleOfficer            UserRole = "OFFICER"
	RoleStaff              UserRole = "STAFF"
	RoleClient             UserRole = "CLIENT"
	RoleAccountManager     UserRole = "ACCOUNT_MANAGER"
	RoleDocumentSpecialist UserRole = "DOCUMENT_SPECIALIST"
	RoleFinanceOfficer     UserRole = "FINANCE_OFFICER"
)

var (
	CaseStatuses = []CaseStatus{CaseNotStarted, CaseInProgress, CaseCompleted, CaseOnHold, CaseCancelled}

	DocumentStatuses = []DocumentStatus{
		DocNotSubmitted, DocSubmitted, DocUnderReview, DocApproved, DocRejected, DocClientActionRequired,
	}

	PaymentStatuses = []PaymentStatus{
		PaymentDue, PaymentPaid, PaymentPartial, PaymentUnpaid, PaymentOverdue, PaymentWaived, PaymentCancelled,
	}

	CommunicationTypes = []CommunicationType{CommAnnouncement, CommCase, CommClient, CommTask, CommMessage}

	TaskStatuses = []TaskStatus{TaskNotStarted, TaskInProgress, TaskCompleted, TaskBlocked, TaskCancelled}

	TaskOrigins = []TaskOrigin{OriginPredefined, OriginCompany, OriginCase}

	UserRoles = []UserRole{
		RoleAdmin, RoleManager, RoleOfficer, RoleStaff, RoleClient,
		RoleAccountManager, RoleDocumentSpecialist, RoleFinanceOfficer,
	}

	// PendingDocumentStatuses are the statuses that still need something from the client.
	PendingDocumentStatuses = []DocumentStatus{DocNotSubmitted, DocRejected, DocClientActionRequired}

	// OverdueEligibleStatuses can be moved to OVERDUE once the due date passes.
	OverdueEligibleStatuses = []PaymentStatus{PaymentDue, PaymentUnpaid, PaymentPartial}
)

// ParseEnum returns the candidate equal to value. The boolean is false when
// value is not a member, and callers must check it before using the result.
func ParseEnum[T ~string](candidates []T, value string) (T, bool) {
	for _, c := range candidates {
		if string(c) == value {
			return c, true
		}
	}
	var zero T
	return zero, false
}

// IsPending reports whether a document in this status still needs client action.
func (s DocumentStatus) IsPending() bool {
	for _, p := range PendingDocumentStatuses {
		if s == p {
			return true
		}
	}
	return false
}

func (r UserRole) IsStaff() bool {
	return r != RoleClient && r != ""
}
