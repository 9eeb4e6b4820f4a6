package services

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk/internal/app/config"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/casedesk/casedesk/internal/infrastructure/auth/supabase"
	"github.com/casedesk/casedesk/internal/infrastructure/cache"
	"github.com/casedesk/casedesk/internal/infrastructure/database"
	"github.com/casedesk/casedesk/internal/infrastructure/repositories/postgresql"
	"github.com/casedesk/casedesk/internal/infrastructure/storage/local"
	supabasestorage "github.com/casedesk/casedesk/internal/infrastructure/storage/supabase"
	"github.com/casedesk/casedesk/pkg/logger"
)

// ServiceManager manages all application services
type ServiceManager struct {
	Config *config.Config

	// Infrastructure
	DB           *database.DB
	Repositories *postgresql.Repositories
	CacheService services.CacheService
	Storage      services.StorageService
	Auth         services.SupabaseAuthService

	// Shared query cache and toast channel
	Queries  *services.QueryClient
	Notifier *services.QueueNotifier

	// Domain services
	Profiles       *services.ProfileService
	Companies      *services.CompanyService
	Cases          *services.CaseService
	Documents      *services.DocumentService
	Payments       *services.PaymentService
	Communications *services.CommunicationService
	Tasks          *services.TaskService
	TaskCategories *services.TaskCategoryService
	Catalog        *services.CatalogService
	Admin          *services.AdminService
}

// Infrastructure holds the external collaborators. Tests substitute
// in-process versions.
type Infrastructure struct {
	Cache   services.CacheService
	Storage services.StorageService
	Auth    services.SupabaseAuthService
}

// NewServiceManager creates a new service manager
func NewServiceManager(cfg *config.Config, db *database.DB, log *logger.Logger) (*ServiceManager, error) {
	// Initialize cache service with Redis
	cacheService, err := cache.CreateCacheService(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache service: %w", err)
	}

	storage, err := newStorage(cfg)
	if err != nil {
		cacheService.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	auth, err := supabase.NewAuthService(supabase.Config{
		URL:        cfg.Supabase.URL,
		APIKey:     cfg.Supabase.APIKey,
		ServiceKey: cfg.Supabase.ServiceKey,
	})
	if err != nil {
		cacheService.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	return Assemble(cfg, db, Infrastructure{Cache: cacheService, Storage: storage, Auth: auth}, log), nil
}

// Assemble wires repositories and domain services on top of the given
// infrastructure.
func Assemble(cfg *config.Config, db *database.DB, infra Infrastructure, log *logger.Logger) *ServiceManager {
	repos := postgresql.NewRepositories(db, log)

	queries := services.NewQueryClient(infra.Cache, cfg.Cache.TTL, log)
	notifier := services.NewQueueNotifier(infra.Cache, log)
	deps := services.Deps{Queries: queries, Notifier: notifier, Logger: log}

	return &ServiceManager{
		Config:       cfg,
		DB:           db,
		Repositories: repos,
		CacheService: infra.Cache,
		Storage:      infra.Storage,
		Auth:         infra.Auth,
		Queries:      queries,
		Notifier:     notifier,

		Profiles:  services.NewProfileService(repos.ProfileRepo, deps),
		Companies: services.NewCompanyService(repos.CompanyRepo, deps),
		Cases: services.NewCaseService(
			repos.CaseRepo, repos.TaskRepo, repos.DocumentRepo, repos.CatalogRepo,
			deps, cfg.Cache.EnrichmentLimit,
		),
		Documents: services.NewDocumentService(repos.DocumentRepo, infra.Storage, deps, services.DocumentServiceConfig{
			MaxFileSize:      cfg.Limits.MaxFileSize,
			AllowedMimeTypes: cfg.Limits.AllowedMimeTypes,
			SignedURLExpiry:  cfg.Limits.SignedURLExpiry,
		}),
		Payments:       services.NewPaymentService(repos.PaymentRepo, deps),
		Communications: services.NewCommunicationService(repos.CommunicationRepo, deps),
		Tasks:          services.NewTaskService(repos.TaskRepo, deps),
		TaskCategories: services.NewTaskCategoryService(repos.TaskCategoryRepo, deps),
		Catalog:        services.NewCatalogService(repos.CatalogRepo, deps),
		Admin:          services.NewAdminService(repos.ProfileRepo, infra.Auth, deps),
	}
}

func newStorage(cfg *config.Config) (services.StorageService, error) {
	if cfg.UseLocalStorage() {
		return local.NewStorageService(cfg.Storage.Path), nil
	}

	key := cfg.Supabase.ServiceKey
	if key == "" {
		key = cfg.Supabase.APIKey
	}
	return supabasestorage.NewStorageService(supabasestorage.Config{
		URL:    cfg.Supabase.URL,
		APIKey: key,
		Bucket: cfg.Supabase.Bucket,
	})
}

// Health check for all services
func (sm *ServiceManager) HealthCheck(ctx context.Context) error {
	// Check database
	if err := sm.Repositories.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Check Redis cache
	if err := sm.CacheService.Ping(ctx); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}

	return nil
}

// Close gracefully shuts down all services
func (sm *ServiceManager) Close() error {
	// Close cache service
	if err := sm.CacheService.Close(); err != nil {
		return fmt.Errorf("failed to close cache service: %w", err)
	}

	// Close database connection
	if err := sm.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
