package imagehost

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"artdash/internal/store/config"
)

var (
	ErrEmptyImage       = errors.New("no image data provided")
	ErrUnsupportedImage = errors.New("image must be an http(s) URL or a base64 data URL")
	ErrUploadsDisabled  = errors.New("image uploads are not configured")
)

// CloudinaryHost uploads base64 data URLs to Cloudinary's signed-upload REST
// endpoint. Existing http(s) URLs are passed through untouched so edits do
// not re-upload images that are already hosted.
type CloudinaryHost struct {
	cfg    *config.Config
	client *http.Client
	now    func() time.Time
}

// NewCloudinaryHost creates a new Cloudinary image host.
func NewCloudinaryHost(cfg *config.Config) *CloudinaryHost {
	return &CloudinaryHost{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.UploadTimeout},
		now:    time.Now,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload resolves an image reference to a hosted URL.
func (h *CloudinaryHost) Upload(ctx context.Context, image string) (string, error) {
	if image == "" {
		return "", ErrEmptyImage
	}
	if strings.HasPrefix(image, "http") {
		return image, nil
	}
	if !strings.HasPrefix(image, "data:image/") {
		return "", ErrUnsupportedImage
	}
	if !h.cfg.UploadsEnabled() {
		return "", ErrUploadsDisabled
	}

	timestamp := strconv.FormatInt(h.now().Unix(), 10)

	form := url.Values{}
	form.Set("file", image)
	form.Set("api_key", h.cfg.CloudinaryAPIKey)
	form.Set("timestamp", timestamp)
	form.Set("folder", h.cfg.CloudinaryFolder)
	form.Set("signature", h.signature(timestamp))

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", h.cfg.CloudinaryCloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if result.Error.Message != "" {
			return "", fmt.Errorf("image upload failed: %s", result.Error.Message)
		}
		return "", fmt.Errorf("image upload failed with status %d", resp.StatusCode)
	}

	return result.SecureURL, nil
}

// signature computes the SHA-1 request signature over the signed parameters,
// sorted by name, followed by the API secret.
func (h *CloudinaryHost) signature(timestamp string) string {
	payload := fmt.Sprintf("folder=%s&timestamp=%s%s", h.cfg.CloudinaryFolder, timestamp, h.cfg.CloudinaryAPISecret)
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
