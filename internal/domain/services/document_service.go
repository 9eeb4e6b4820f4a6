package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
)

var (
	ErrDocumentTooLarge  = errors.New("document exceeds maximum size limit")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrNoFileAttached    = errors.New("document has no file attached")
)

// DocumentServiceConfig holds configuration for document files
type DocumentServiceConfig struct {
	MaxFileSize      int64 // bytes
	AllowedMimeTypes []string
	SignedURLExpiry  time.Duration
}

type DocumentService struct {
	base
	documents repositories.DocumentRepository
	storage   StorageService
	config    DocumentServiceConfig
}

func NewDocumentService(documents repositories.DocumentRepository, storage StorageService, deps Deps, config DocumentServiceConfig) *DocumentService {
	if config.SignedURLExpiry <= 0 {
		config.SignedURLExpiry = time.Hour
	}
	return &DocumentService{
		base:      newBase(deps, "document_service"),
		documents: documents,
		storage:   storage,
		config:    config,
	}
}

func (s *DocumentService) List(ctx context.Context, filters repositories.DocumentFilters) ([]entities.Document, error) {
	return Fetch(ctx, s.queries, querykeys.Documents.Lists(filters), func(ctx context.Context) ([]entities.Document, error) {
		return s.documents.List(ctx, filters)
	})
}

func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*entities.Document, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return Fetch(ctx, s.queries, querykeys.Documents.Detail(id.String()), func(ctx context.Context) (*entities.Document, error) {
		return s.documents.GetByID(ctx, id)
	})
}

func (s *DocumentService) Create(ctx context.Context, input repositories.CreateDocumentInput) (*entities.Document, error) {
	op := mutationOp{name: "create document", success: "Document created", failure: "Failed to create document"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Document, error) {
			return s.documents.Create(ctx, input)
		},
		func(d *entities.Document, fx *cacheEffects) {
			fx.Invalidate(querykeys.Documents.Lists(nil))
			documentRelated(fx, d.CaseID)
		},
	)
}

func (s *DocumentService) Update(ctx context.Context, id uuid.UUID, input repositories.UpdateDocumentInput) (*entities.Document, error) {
	op := mutationOp{name: "update document", success: "Document updated", failure: "Failed to update document"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Document, error) {
			return s.documents.Update(ctx, id, input)
		},
		s.updated(id),
	)
}

func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	op := mutationOp{name: "delete document", success: "Document deleted", failure: "Failed to delete document"}
	_, err := mutate(ctx, s.runner, op,
		deletion(func(ctx context.Context) error {
			return s.documents.Delete(ctx, id)
		}),
		func(_ struct{}, fx *cacheEffects) {
			fx.Remove(querykeys.Documents.Detail(id.String()))
			fx.Invalidate(
				querykeys.Documents.Lists(nil),
				querykeys.EnrichedCases(""),
				querykeys.Cases.Scoped(querykeys.ScopeDetail),
			)
		},
	)
	return err
}

// UploadFileParams describes a file attached to an existing document.
type UploadFileParams struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// UploadFile stores the file and marks the document SUBMITTED by the acting
// user. The stored object is removed again if the record update fails.
func (s *DocumentService) UploadFile(ctx context.Context, id uuid.UUID, params UploadFileParams) (*entities.Document, error) {
	op := mutationOp{name: "upload document file", success: "Document uploaded", failure: "Failed to upload document"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Document, error) {
			if s.config.MaxFileSize > 0 && params.Size > s.config.MaxFileSize {
				return nil, ErrDocumentTooLarge
			}
			if !s.isAllowedMimeType(params.ContentType) {
				return nil, ErrUnsupportedFormat
			}

			doc, err := s.documents.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if doc == nil {
				return nil, repositories.ErrNotFound
			}

			path, err := s.storage.Store(ctx, StorageParams{
				Folder:      storageFolder(doc),
				FileReader:  params.Reader,
				Filename:    params.Filename,
				ContentType: params.ContentType,
				Size:        params.Size,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to store file: %w", err)
			}

			status := entities.DocSubmitted
			now := time.Now().UTC()
			patch := repositories.UpdateDocumentInput{
				FilePath:    &path,
				Status:      &status,
				SubmittedAt: &now,
			}
			if actor, ok := ActorFromContext(ctx); ok {
				patch.SubmittedBy = &actor
			}

			updated, err := s.documents.Update(ctx, id, patch)
			if err != nil {
				if delErr := s.storage.Delete(ctx, path); delErr != nil {
					s.logger.Warn("Failed to clean up orphaned file", "path", path, "error", delErr)
				}
				return nil, err
			}
			return updated, nil
		},
		s.updated(id),
	)
}

// FileURL returns a time-limited download link for the document's file.
func (s *DocumentService) FileURL(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", repositories.ErrNotFound
	}
	if doc.FilePath == "" {
		return "", ErrNoFileAttached
	}
	return s.storage.GeneratePresignedURL(ctx, doc.FilePath, s.config.SignedURLExpiry)
}

func (s *DocumentService) updated(id uuid.UUID) func(*entities.Document, *cacheEffects) {
	return func(d *entities.Document, fx *cacheEffects) {
		fx.Invalidate(querykeys.Documents.Lists(nil), querykeys.Documents.Detail(id.String()))
		documentRelated(fx, d.CaseID)
	}
}

func (s *DocumentService) isAllowedMimeType(contentType string) bool {
	if len(s.config.AllowedMimeTypes) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedMimeTypes {
		if strings.HasPrefix(contentType, allowed) {
			return true
		}
	}
	return false
}

func documentRelated(fx *cacheEffects, caseID *uuid.UUID) {
	fx.Invalidate(querykeys.EnrichedCases(""))
	if caseID != nil {
		fx.Invalidate(querykeys.Cases.Detail(caseID.String()))
	}
}

func storageFolder(doc *entities.Document) string {
	switch {
	case doc.CaseID != nil:
		return "cases/" + doc.CaseID.String()
	case doc.CompanyID != nil:
		return "companies/" + doc.CompanyID.String()
	default:
		return "general"
	}
}
