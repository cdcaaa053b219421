package repositories

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/ledger/internal/config"
)

func testR2Store() *R2BlobStore {
	return NewR2BlobStore(config.R2Config{
		AccountID:       "acct",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "ledger",
		Region:          "auto",
	})
}

func TestR2PresignGet(t *testing.T) {
	store := testR2Store()

	raw, err := store.PresignGet(context.Background(), "abc-logo.png", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "acct.r2.cloudflarestorage.com", u.Host)
	assert.Equal(t, "/ledger/abc-logo.png", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.True(t, strings.HasPrefix(u.Query().Get("X-Amz-Credential"), "key/"))
}

func TestR2PutRejectsTraversal(t *testing.T) {
	store := testR2Store()

	err := store.Put(context.Background(), "../escape", strings.NewReader("x"), 1, "text/plain")
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestR2ImplementsPresigner(t *testing.T) {
	var blobs BlobStore = testR2Store()
	_, ok := blobs.(Presigner)
	assert.True(t, ok)
}
