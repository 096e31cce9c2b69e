package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadDownloadDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	docID := uuid.New()
	path, err := store.Upload(context.Background(), docID, "exhibit A.pdf", strings.NewReader("exhibit bytes"))
	require.NoError(t, err)
	assert.Contains(t, path, docID.String())
	assert.NotContains(t, path, " ")
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	reader, err := store.Download(context.Background(), path)
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Equal(t, "exhibit bytes", string(data))

	require.NoError(t, store.Delete(context.Background(), path))

	_, err = store.Download(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found")

	// Deleting a document that is already gone is not an error.
	assert.NoError(t, store.Delete(context.Background(), path))
}

func TestUploadText_ArchivesAssembledFiling(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	docID := uuid.New()
	path, err := UploadText(context.Background(), store, docID, "filing.txt", "IN THE FAMILY COURT")
	require.NoError(t, err)

	reader, err := store.Download(context.Background(), path)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "IN THE FAMILY COURT", string(data))
}

func TestDocumentContentType(t *testing.T) {
	assert.Equal(t, "text/plain", documentContentType("filing.txt"))
	assert.Equal(t, "application/x-tex", documentContentType("draft.tex"))
	assert.Equal(t, "application/pdf", documentContentType("exhibit_a.pdf"))
	assert.Equal(t, "application/octet-stream", documentContentType("scan.tiff"))
}
