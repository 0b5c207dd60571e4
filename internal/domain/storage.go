package domain

import (
	"context"
	"io"
)

// StoredObject is the object store's receipt for one uploaded file.
type StoredObject struct {
	URL       string
	StorageID string
}

// ObjectStore is the external document store (Cloudinary in production).
// Uploads have no transactional semantics across files; callers that write
// multiple objects must implement their own compensating deletes on
// partial failure.
type ObjectStore interface {
	Upload(ctx context.Context, content io.Reader, folder, filename string) (*StoredObject, error)

	// Delete removes a previously uploaded object. Best effort: cleanup
	// callers log failures instead of propagating them.
	Delete(ctx context.Context, storageID string) error
}
