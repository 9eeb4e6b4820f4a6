package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/google/uuid"
	supabase "github.com/nedpals/supabase-go"
)

// unfiledFolder holds documents stored without a case or company
const unfiledFolder = "unfiled"

// StorageService keeps document files in one Supabase Storage bucket, laid
// out as <folder>/<uuid><ext>.
type StorageService struct {
	client *supabase.Client
	bucket string
}

type Config struct {
	URL    string
	APIKey string
	Bucket string
}

func NewStorageService(config Config) (*StorageService, error) {
	switch {
	case config.URL == "":
		return nil, errors.New("supabase url is required for bucket storage")
	case config.Bucket == "":
		return nil, errors.New("storage bucket is required")
	}

	return &StorageService{
		client: supabase.CreateClient(config.URL, config.APIKey),
		bucket: config.Bucket,
	}, nil
}

// Store uploads the file without overwriting and returns its object path.
func (s *StorageService) Store(ctx context.Context, params services.StorageParams) (string, error) {
	// the client needs the whole body up front
	content, err := io.ReadAll(params.FileReader)
	if err != nil {
		return "", fmt.Errorf("failed to read upload %s: %w", params.Filename, err)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("refusing to store empty file %s", params.Filename)
	}

	object := objectPath(params.Folder, params.Filename)
	resp := s.client.Storage.From(s.bucket).Upload(object, bytes.NewReader(content), &supabase.FileUploadOptions{
		ContentType: params.ContentType,
	})
	if resp.Key == "" {
		return "", fmt.Errorf("bucket %s rejected upload of %s: %s", s.bucket, object, resp.Message)
	}
	return object, nil
}

func (s *StorageService) Get(ctx context.Context, object string) (io.ReadCloser, error) {
	content, err := s.client.Storage.From(s.bucket).Download(object)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s from bucket %s: %w", object, s.bucket, err)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// Delete removes an object. A response without a key but with a message is
// a refusal; an empty response means there was nothing to remove.
func (s *StorageService) Delete(ctx context.Context, object string) error {
	resp := s.client.Storage.From(s.bucket).Remove([]string{object})
	if resp.Key == "" && resp.Message != "" {
		return fmt.Errorf("bucket %s refused to remove %s: %s", s.bucket, object, resp.Message)
	}
	return nil
}

func (s *StorageService) GeneratePresignedURL(ctx context.Context, object string, expiry time.Duration) (string, error) {
	seconds := int(expiry / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	signed := s.client.Storage.From(s.bucket).CreateSignedUrl(object, seconds)
	if signed.SignedUrl == "" {
		return "", fmt.Errorf("bucket %s did not sign %s", s.bucket, object)
	}
	return signed.SignedUrl, nil
}

// objectPath places a file under its folder with a fresh name. The folder
// is reduced to a relative path so it cannot climb out of the bucket root.
func objectPath(folder, filename string) string {
	folder = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(folder, "\\", "/")), "/")
	if folder == "" {
		folder = unfiledFolder
	}
	return path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
}
