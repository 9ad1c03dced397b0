package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"spark/config"
	"spark/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"gocloud.dev/blob/memblob"
)

func TestBlobStorage_PutOpenDelete(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	storage := NewBlobStorage(bucket)
	ctx := context.Background()

	require.NoError(t, storage.Put(ctx, "images/a.png", "image/png", strings.NewReader("png-bytes")))

	attrs, err := bucket.Attributes(ctx, "images/a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", attrs.ContentType)

	r, err := storage.Open(ctx, "images/a.png")
	require.NoError(t, err)
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "png-bytes", string(body))

	require.NoError(t, storage.Delete(ctx, "images/a.png"))

	_, err = storage.Open(ctx, "images/a.png")
	assert.ErrorIs(t, err, service.ErrObjectNotFound)
}

func TestBlobStorage_DeleteMissingIsNotAnError(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	assert.NoError(t, NewBlobStorage(bucket).Delete(context.Background(), "nope"))
}

func TestNew_OpensBucketFromConfig(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	storage, err := New(Params{
		Lc:     lc,
		Config: &config.Config{Images: &config.ImagesConfig{BucketURL: "mem://"}},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	require.NotNil(t, storage)

	lc.RequireStart()
	lc.RequireStop()
}

func TestNew_RejectsUnknownScheme(t *testing.T) {
	_, err := New(Params{
		Lc:     fxtest.NewLifecycle(t),
		Config: &config.Config{Images: &config.ImagesConfig{BucketURL: "bogus://bucket"}},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	assert.Error(t, err)
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "s3", scheme("s3://bucket?region=us-east-1"))
	assert.Equal(t, "mem", scheme("mem://"))
}
