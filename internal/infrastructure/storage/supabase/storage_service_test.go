package supabase

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageService_RequiresURLAndBucket(t *testing.T) {
	_, err := NewStorageService(Config{Bucket: "documents"})
	assert.Error(t, err)

	_, err = NewStorageService(Config{URL: "https://example.supabase.co"})
	assert.Error(t, err)

	svc, err := NewStorageService(Config{URL: "https://example.supabase.co", APIKey: "key", Bucket: "documents"})
	require.NoError(t, err)
	assert.Equal(t, "documents", svc.bucket)
}

func TestObjectPath(t *testing.T) {
	got := objectPath("case-1", "Passport.PDF")
	assert.Equal(t, "case-1", path.Dir(got))
	assert.True(t, strings.HasSuffix(got, ".pdf"))
	assert.NotEqual(t, got, objectPath("case-1", "Passport.PDF"))

	assert.Equal(t, "unfiled", path.Dir(objectPath("", "a.txt")))
	assert.Equal(t, "unfiled", path.Dir(objectPath("../..", "a.txt")))
	assert.Equal(t, "etc", path.Dir(objectPath("../../etc", "a.txt")))
	assert.Equal(t, "a/b", path.Dir(objectPath(`a\b`, "noext")))
}
