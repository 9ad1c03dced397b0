package usecase

import (
	"context"
	"io"

	"spark/internal/domain/entity"

	"github.com/google/uuid"
)

// UploadImageInput is an uploaded image file.
type UploadImageInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageUsecase defines profile image operations.
type ImageUsecase interface {
	Upload(ctx context.Context, accountID uuid.UUID, input *UploadImageInput) (*entity.Image, error)
	ListOwn(ctx context.Context, accountID uuid.UUID) ([]*entity.Image, error)
	// Open returns the image and its content. Only the owner and mutual matches may read it.
	// The caller closes the reader.
	Open(ctx context.Context, accountID, imageID uuid.UUID) (*entity.Image, io.ReadCloser, error)
}
