package postgresql

import (
	"context"
	"strings"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/internal/infrastructure/database/models"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultCountry = "Saudi Arabia"

type CompanyRepository struct {
	baseRepository
}

func NewCompanyRepository(db *database.DB, log *logger.Logger) repositories.CompanyRepository {
	return &CompanyRepository{baseRepository: newBase(db, log, "companies")}
}

func (r *CompanyRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("AccountManager")
}

func (r *CompanyRepository) List(ctx context.Context, filters repositories.CompanyFilters) ([]entities.Company, error) {
	query := r.query(ctx).Model(&models.Company{})

	if filters.AccountManagerID != nil {
		query = query.Where("account_manager_id = ?", *filters.AccountManagerID)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "ILIKE"
		if r.db.IsSQLite() {
			// SQLite LIKE is already case-insensitive for ASCII
			like = "LIKE"
		}
		term := "%" + search + "%"
		query = query.Where("name "+like+" ? OR registration_number "+like+" ?", term, term)
	}

	var rows []models.Company
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, repositories.WrapStoreError("list companies", err)
	}

	tr := lenient(r.logger)
	out := make([]entities.Company, 0, len(rows))
	for i := range rows {
		out = append(out, tr.company(&rows[i]))
	}
	return out, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Company, error) {
	return r.get(ctx, id, lenient(r.logger))
}

func (r *CompanyRepository) get(ctx context.Context, id uuid.UUID, tr *transformer) (*entities.Company, error) {
	var row models.Company
	if err := r.query(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get company", err)
	}
	company := tr.company(&row)
	if tr.err != nil {
		return nil, tr.err
	}
	return &company, nil
}

// GetByUserID resolves a portal user's company by matching the user's
// e-mail against the company's primary contact.
func (r *CompanyRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Company, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get company for user", err)
	}
	if profile.Email == "" {
		return nil, nil
	}

	var row models.Company
	err := r.query(ctx).
		Where("LOWER(primary_contact_email) = ?", strings.ToLower(profile.Email)).
		Order("created_at ASC").
		First(&row).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, repositories.WrapStoreError("get company for user", err)
	}

	company := lenient(r.logger).company(&row)
	return &company, nil
}

func (r *CompanyRepository) Create(ctx context.Context, input repositories.CreateCompanyInput) (*entities.Company, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, &repositories.ValidationError{
			Message: "name is required",
			Fields:  map[string]string{"name": "name is required"},
		}
	}

	country := input.Country
	if country == "" {
		country = defaultCountry
	}
	row := models.Company{
		Name:                strings.TrimSpace(input.Name),
		LegalStructure:      input.LegalStructure,
		TaxID:               input.TaxID,
		RegistrationNumber:  input.RegistrationNumber,
		Country:             country,
		PrimaryContactName:  input.PrimaryContactName,
		PrimaryContactEmail: input.PrimaryContactEmail,
		PrimaryContactPhone: input.PrimaryContactPhone,
		AccountManagerID:    input.AccountManagerID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return nil, repositories.WrapStoreError("create company", err)
	}

	r.logger.Info("Company created", "company_id", row.ID)
	return r.reload(ctx, row.ID, "create company")
}

func (r *CompanyRepository) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateCompanyInput) (*entities.Company, error) {
	if err := repositories.Validate(input); err != nil {
		return nil, err
	}

	p := patch{}
	setIf(p, "name", input.Name)
	setIf(p, "legal_structure", input.LegalStructure)
	setIf(p, "tax_id", input.TaxID)
	setIf(p, "registration_number", input.RegistrationNumber)
	setIf(p, "country", input.Country)
	setIf(p, "primary_contact_name", input.PrimaryContactName)
	setIf(p, "primary_contact_email", input.PrimaryContactEmail)
	setIf(p, "primary_contact_phone", input.PrimaryContactPhone)
	setIf(p, "account_manager_id", input.AccountManagerID)

	if err := r.updateRow(ctx, &models.Company{}, "id", id, p, "update company"); err != nil {
		return nil, err
	}
	return r.reload(ctx, id, "update company")
}

func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.deleteRow(ctx, &models.Company{}, "id", id, "delete company"); err != nil {
		return err
	}
	r.logger.Info("Company deleted", "company_id", id)
	return nil
}

// reload reads a just-written row back with its joins, failing on any value
// that does not map onto the domain.
func (r *CompanyRepository) reload(ctx context.Context, id uuid.UUID, op string) (*entities.Company, error) {
	company, err := r.get(ctx, id, strict(r.logger))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, repositories.WrapStoreError(op, repositories.ErrNotFound)
	}
	return company, nil
}
