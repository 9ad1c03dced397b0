package handler

import (
	"log/slog"
	"net/http"

	"spark/internal/delivery/http/response"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const imageFormField = "image"

// ImageHandlerParams holds dependencies for ImageHandler, injected by Fx.
type ImageHandlerParams struct {
	fx.In

	ImageUC usecase.ImageUsecase
	Logger  *slog.Logger
}

// ImageHandler serves profile image uploads and downloads.
type ImageHandler struct {
	imageUC usecase.ImageUsecase
	logger  *slog.Logger
}

// NewImageHandler is the constructor for ImageHandler.
func NewImageHandler(params ImageHandlerParams) *ImageHandler {
	return &ImageHandler{
		imageUC: params.ImageUC,
		logger:  params.Logger,
	}
}

// Upload stores the multipart "image" file on the caller's profile.
func (h *ImageHandler) Upload(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile(imageFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return response.HandleAppError(c, domainerrors.ErrMissingField.WithDetails("image is required"))
		}

		return response.HandleAppError(c, domainerrors.ErrValidationFailed.WithDetails("malformed multipart body"))
	}

	src, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer src.Close()

	image, err := h.imageUC.Upload(c.Request().Context(), accountID, &usecase.UploadImageInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newImagePayload(image))
}

// List returns the caller's images.
func (h *ImageHandler) List(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	images, err := h.imageUC.ListOwn(c.Request().Context(), accountID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(images, newImagePayload))
}

// Download streams an image the caller is allowed to see.
func (h *ImageHandler) Download(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	imageID, err := pathID(c, "id", domainerrors.ErrImageNotFound)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	image, body, err := h.imageUC.Open(c.Request().Context(), accountID, imageID)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer body.Close()

	c.Response().Header().Set("X-Content-Type-Options", "nosniff")

	return c.Stream(http.StatusOK, image.ContentType, body)
}
