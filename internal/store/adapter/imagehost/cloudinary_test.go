package imagehost_test

import (
	"context"
	"testing"
	"time"

	"artdash/internal/store/adapter/imagehost"
	"artdash/internal/store/config"

	"github.com/stretchr/testify/assert"
)

func newHost() *imagehost.CloudinaryHost {
	return imagehost.NewCloudinaryHost(&config.Config{
		UploadTimeout: time.Second,
	})
}

func TestUpload_PassesThroughExistingURLs(t *testing.T) {
	host := newHost()

	for _, u := range []string{
		"http://res.cloudinary.com/demo/image/upload/sample.jpg",
		"https://res.cloudinary.com/demo/image/upload/sample.jpg",
	} {
		got, err := host.Upload(context.Background(), u)
		assert.NoError(t, err)
		assert.Equal(t, u, got)
	}
}

func TestUpload_RejectsEmptyImage(t *testing.T) {
	_, err := newHost().Upload(context.Background(), "")
	assert.ErrorIs(t, err, imagehost.ErrEmptyImage)
}

func TestUpload_RejectsNonDataURL(t *testing.T) {
	_, err := newHost().Upload(context.Background(), "just some text")
	assert.ErrorIs(t, err, imagehost.ErrUnsupportedImage)
}

func TestUpload_RequiresCredentialsForDataURLs(t *testing.T) {
	_, err := newHost().Upload(context.Background(), "data:image/png;base64,iVBORw0KGgo=")
	assert.ErrorIs(t, err, imagehost.ErrUploadsDisabled)
}
