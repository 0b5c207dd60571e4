// Package storage decides which uploaded documents are acceptable and
// stores accepted ones in Cloudinary.
package storage

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/Sekyls/job-recruitment-backend/internal/domain"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type, only pdf/doc/docx/txt allowed")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
)

// admittedTypes is the fixed set of extensions we accept. The normalized
// tag derived here is what gets persisted, never the uploader's
// content-type claim.
var admittedTypes = map[string]domain.FileType{
	"pdf":  domain.FileTypePDF,
	"doc":  domain.FileTypeDOC,
	"docx": domain.FileTypeDOCX,
	"txt":  domain.FileTypeTXT,
}

// AdmissionPolicy decides accept/reject for a proposed upload. Pure
// decision function: it never touches the object store.
type AdmissionPolicy struct {
	MaxSizeBytes int64
}

func NewAdmissionPolicy(maxSizeBytes int64) AdmissionPolicy {
	return AdmissionPolicy{MaxSizeBytes: maxSizeBytes}
}

// Admit checks the filename's extension (lower-cased) against the admitted
// set and the declared size against the limit. Both checks run before any
// upload is attempted.
func (p AdmissionPolicy) Admit(filename string, sizeBytes int64) (domain.FileType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	fileType, ok := admittedTypes[ext]
	if !ok {
		return "", ErrUnsupportedType
	}
	if sizeBytes > p.MaxSizeBytes {
		return "", ErrFileTooLarge
	}
	return fileType, nil
}
