package storage

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T, handler http.HandlerFunc) *minioStorage {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return &minioStorage{MinioClient: client, Log: zap.NewNop()}
}

func TestMinioStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Upload Puts Object", func(t *testing.T) {
		var gotPath, gotType string
		var gotBody []byte
		s := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPut {
				gotPath = r.URL.Path
				gotType = r.Header.Get("Content-Type")
				buf := new(bytes.Buffer)
				_, _ = buf.ReadFrom(r.Body)
				gotBody = []byte(buf.String())
				w.Header().Set("ETag", `"abc"`)
			}
			w.WriteHeader(http.StatusOK)
		})

		key, err := s.UploadObject(ctx, "documents", "client-1/doc.pdf", "application/pdf", []byte("%PDF-1.4"))
		require.NoError(t, err)
		assert.Equal(t, "client-1/doc.pdf", key)
		assert.Equal(t, "/documents/client-1/doc.pdf", gotPath)
		assert.Equal(t, "application/pdf", gotType)
		assert.Contains(t, string(gotBody), "%PDF-1.4")
	})

	t.Run("Empty Upload Is Rejected", func(t *testing.T) {
		s := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})
		_, err := s.UploadObject(ctx, "documents", "x.pdf", "application/pdf", nil)
		assert.Error(t, err)
	})

	t.Run("Presigned URL Is Local", func(t *testing.T) {
		s := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		u, err := s.GetObjectUrlWithExpiryTime(ctx, "documents", "client-1/doc.pdf", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, u, "/documents/client-1/doc.pdf")
		assert.Contains(t, u, "X-Amz-Expires=900")
		assert.Contains(t, u, "response-content-disposition")
	})
}
