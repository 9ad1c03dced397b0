package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"spark/config"
	deliverycontext "spark/internal/delivery/context"
	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/domain/repository"
	"spark/internal/domain/service"
	"spark/internal/usecase"
	"spark/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// imageService implements the ImageUsecase interface.
type imageService struct {
	repos   repository.RepositoryFactory
	storage service.ImageStorage
	prefix  string
	maxSize int64
	logger  *slog.Logger
	now     func() time.Time
}

// ImageServiceParams holds dependencies for ImageService, injected by Fx.
type ImageServiceParams struct {
	fx.In

	Repositories repository.RepositoryFactory
	Storage      service.ImageStorage
	Config       *config.Config
	Logger       *slog.Logger
}

// NewImageService is the constructor for imageService.
func NewImageService(params ImageServiceParams) usecase.ImageUsecase {
	return &imageService{
		repos:   params.Repositories,
		storage: params.Storage,
		prefix:  params.Config.Images.Prefix,
		maxSize: params.Config.Images.MaxSize,
		logger:  params.Logger,
		now:     time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *imageService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Upload stores the image object and attaches it to the caller's profile.
func (srv *imageService) Upload(ctx context.Context, accountID uuid.UUID, input *usecase.UploadImageInput) (*entity.Image, error) {
	if input.Body == nil {
		return nil, domainerrors.ErrMissingField.WithDetails("image is required")
	}
	if input.Size > srv.maxSize {
		return nil, domainerrors.ErrImageTooLarge.WithDetails("limit is " + util.FormatBytes(srv.maxSize))
	}

	profile, err := findOwnProfile(ctx, srv.repos.NewProfileRepository(), accountID)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, srv.maxSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image")
	}
	if int64(len(data)) > srv.maxSize {
		return nil, domainerrors.ErrImageTooLarge.WithDetails("limit is " + util.FormatBytes(srv.maxSize))
	}
	if len(data) == 0 {
		return nil, domainerrors.ErrMissingField.WithDetails("image is empty")
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unsupported content type " + contentType)
	}

	checksum, err := util.Checksum(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	image := &entity.Image{
		ID:          uuid.New(),
		ProfileID:   profile.ID,
		ContentType: contentType,
		Size:        int64(len(data)),
		Checksum:    checksum,
		CreatedAt:   srv.now(),
	}
	image.Key = srv.objectKey(image.ID, input.Filename)

	if err := srv.storage.Put(ctx, image.Key, contentType, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(err, "failed to store image object")
	}

	if err := srv.repos.NewImageRepository().Create(ctx, image); err != nil {
		if delErr := srv.storage.Delete(ctx, image.Key); delErr != nil {
			srv.log(ctx).Error("Failed to remove orphaned image object", slog.String("key", image.Key), slog.Any("error", delErr))
		}

		return nil, errors.Wrap(err, "failed to create image record")
	}

	srv.log(ctx).Info("Image uploaded",
		slog.Any("imageID", image.ID),
		slog.String("size", util.FormatBytes(image.Size)),
		slog.String("contentType", contentType),
	)

	return image, nil
}

// ListOwn returns the caller's images, oldest first.
func (srv *imageService) ListOwn(ctx context.Context, accountID uuid.UUID) ([]*entity.Image, error) {
	profile, err := findOwnProfile(ctx, srv.repos.NewProfileRepository(), accountID)
	if err != nil {
		return nil, err
	}

	images, err := srv.repos.NewImageRepository().ListByProfileID(ctx, profile.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list images")
	}

	return images, nil
}

// Open returns an image readable by the caller: their own or a mutual match's.
func (srv *imageService) Open(ctx context.Context, accountID, imageID uuid.UUID) (*entity.Image, io.ReadCloser, error) {
	viewer, err := findOwnProfile(ctx, srv.repos.NewProfileRepository(), accountID)
	if err != nil {
		return nil, nil, err
	}

	image, err := srv.repos.NewImageRepository().FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return nil, nil, errors.Wrap(domainerrors.ErrImageNotFound, "open failed")
		}

		return nil, nil, errors.Wrap(err, "failed to find image")
	}

	if image.ProfileID != viewer.ID {
		matched, err := isMutualMatch(ctx, srv.repos.NewSwipeRepository(), viewer.ID, image.ProfileID)
		if err != nil {
			return nil, nil, err
		}
		if !matched {
			return nil, nil, errors.Wrap(domainerrors.ErrNotMatched, "open failed")
		}
	}

	body, err := srv.storage.Open(ctx, image.Key)
	if err != nil {
		if errors.Is(err, service.ErrObjectNotFound) {
			return nil, nil, errors.Wrap(domainerrors.ErrImageNotFound, "object missing")
		}

		return nil, nil, errors.Wrap(err, "failed to open image object")
	}

	return image, body, nil
}

// objectKey builds <prefix>/<id><ext>, keeping the uploaded file's extension.
func (srv *imageService) objectKey(id uuid.UUID, filename string) string {
	return path.Join(srv.prefix, id.String()+strings.ToLower(filepath.Ext(filename)))
}
