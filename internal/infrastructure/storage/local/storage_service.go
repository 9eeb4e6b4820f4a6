package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/google/uuid"
)

// ErrInvalidPath is returned for paths that would leave the storage root.
var ErrInvalidPath = errors.New("invalid storage path")

// StorageService keeps files on the local disk. It is used in development
// and tests; downloads go through the API's file route.
type StorageService struct {
	basePath  string
	urlPrefix string
}

func NewStorageService(basePath string) *StorageService {
	return &StorageService{
		basePath:  basePath,
		urlPrefix: "/api/v1/files/",
	}
}

// resolve maps a relative storage path onto the disk, refusing anything
// outside basePath.
func (s *StorageService) resolve(rel string) (string, error) {
	clean := filepath.Clean("/" + rel)
	if clean == "/" {
		return "", ErrInvalidPath
	}
	full := filepath.Join(s.basePath, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.basePath)+string(os.PathSeparator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

func (s *StorageService) Store(ctx context.Context, params services.StorageParams) (string, error) {
	rel := filepath.ToSlash(filepath.Join(params.Folder, uuid.New().String()+filepath.Ext(params.Filename)))
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	file, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, params.FileReader); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write file content: %w", err)
	}

	return rel, nil
}

func (s *StorageService) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *StorageService) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GeneratePresignedURL returns an API-relative URL. Local files are served
// to authenticated users only, so the expiry is informational.
func (s *StorageService) GeneratePresignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	if _, err := s.resolve(path); err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("expires", fmt.Sprint(time.Now().Add(expiry).Unix()))
	return s.urlPrefix + path + "?" + q.Encode(), nil
}
