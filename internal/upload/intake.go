// Package upload turns multipart file parts into stored, sanitized
// attachment inputs.
package upload

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/whistleblow-portal/internal/config"
	"github.com/spec-kit/whistleblow-portal/internal/storage"
	apperrors "github.com/spec-kit/whistleblow-portal/pkg/util"
)

// StoredFile describes one file that survived filtering and was written to
// the blob store.
type StoredFile struct {
	StorageKey  string
	DisplayName string
	MimeType    string
	SizeBytes   int64
}

// Intake validates, filters and stores uploaded files.
type Intake struct {
	store    storage.Storage
	logger   *zap.Logger
	maxFiles int
	maxSize  int64
}

// NewIntake constructs the intake with configured caps.
func NewIntake(store storage.Storage, logger *zap.Logger, cfg config.UploadConfig) *Intake {
	maxFiles := cfg.MaxFiles
	if maxFiles <= 0 {
		maxFiles = 5
	}
	maxSize := cfg.MaxFileSizeByte
	if maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}
	return &Intake{store: store, logger: logger, maxFiles: maxFiles, maxSize: maxSize}
}

// Process stores every allow-listed file under a generated key. Files with a
// disallowed content type are dropped silently; an oversized file or too
// many files reject the request.
func (i *Intake) Process(ctx context.Context, headers []*multipart.FileHeader) ([]StoredFile, error) {
	if len(headers) > i.maxFiles {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("at most %d files per message", i.maxFiles), nil)
	}

	var stored []StoredFile
	for _, header := range headers {
		if header.Size > i.maxSize {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("file %s exceeds the size limit", SanitizeDisplayName(header.Filename)), nil)
		}

		mimeType := header.Header.Get("Content-Type")
		if !MimeAllowed(mimeType) {
			i.logger.Info("dropping file with disallowed content type",
				zap.String("mime_type", mimeType))
			continue
		}

		file, err := header.Open()
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}

		key := uuid.NewString() + SafeExtension(header.Filename)
		err = i.store.Save(ctx, key, file, header.Size, mimeType)
		file.Close()
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}

		stored = append(stored, StoredFile{
			StorageKey:  key,
			DisplayName: SanitizeDisplayName(header.Filename),
			MimeType:    mimeType,
			SizeBytes:   header.Size,
		})
	}
	return stored, nil
}
