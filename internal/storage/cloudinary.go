package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/Sekyls/job-recruitment-backend/internal/metrics"
	"github.com/Sekyls/job-recruitment-backend/internal/platform/retry"
	"github.com/jonboulle/clockwork"
)

const (
	cloudinaryBaseURL = "https://api.cloudinary.com/v1_1"
	uploadTimeout     = 30 * time.Second
)

// CloudinaryClient implements domain.ObjectStore against the Cloudinary
// upload REST API. Documents are stored as raw resources.
type CloudinaryClient struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	clock      clockwork.Clock
	policy     retry.Policy
}

var _ domain.ObjectStore = (*CloudinaryClient)(nil)

func NewCloudinaryClient(cloudName, apiKey, apiSecret string, clock clockwork.Clock) *CloudinaryClient {
	return &CloudinaryClient{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    cloudinaryBaseURL,
		httpClient: &http.Client{Timeout: uploadTimeout},
		clock:      clock,
		policy: retry.Policy{
			MaxAttempts:      3,
			InitialBackoff:   200 * time.Millisecond,
			RateLimitBackoff: 2 * time.Second,
			OnRetry: func(attempt int, err error, backoff time.Duration) {
				slog.Warn("Retrying Cloudinary call", "attempt", attempt, "backoff", backoff, "error", err)
			},
		},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type apiStatusError struct {
	status int
	body   string
}

func (e *apiStatusError) Error() string {
	return fmt.Sprintf("cloudinary returned status %d: %s", e.status, e.body)
}

// classify treats 5xx and transport errors as transient, 420/429 as rate
// limiting, and everything else as permanent.
func classify(err error) retry.Action {
	var statusErr *apiStatusError
	if !errors.As(err, &statusErr) {
		return retry.Retry
	}
	switch {
	case statusErr.status == http.StatusTooManyRequests || statusErr.status == 420:
		return retry.After
	case statusErr.status >= 500:
		return retry.Retry
	default:
		return retry.Stop
	}
}

// Upload stores the content as a raw resource under the given folder and
// returns the location Cloudinary assigned. The content is buffered in
// memory so the call can be retried; the admission policy has already
// bounded its size.
func (c *CloudinaryClient) Upload(ctx context.Context, content io.Reader, folder, filename string) (*domain.StoredObject, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}

	start := c.clock.Now()
	result, err := retry.Do(ctx, c.policy, classify, func() (*uploadResponse, error) {
		return c.doUpload(ctx, data, folder, filename)
	})
	metrics.ObjectStoreOpDuration.WithLabelValues("upload").Observe(c.clock.Since(start).Seconds())
	if err != nil {
		metrics.ObjectStoreOpsTotal.WithLabelValues("upload", "error").Inc()
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}

	metrics.ObjectStoreOpsTotal.WithLabelValues("upload", "success").Inc()
	return &domain.StoredObject{URL: result.SecureURL, StorageID: result.PublicID}, nil
}

func (c *CloudinaryClient) doUpload(ctx context.Context, data []byte, folder, filename string) (*uploadResponse, error) {
	timestamp := strconv.FormatInt(c.clock.Now().Unix(), 10)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write file content: %w", err)
	}

	fields := map[string]string{
		"api_key":   c.apiKey,
		"folder":    folder,
		"timestamp": timestamp,
		"signature": c.sign("folder=" + folder + "&timestamp=" + timestamp),
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/raw/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &apiStatusError{status: resp.StatusCode, body: string(raw)}
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.PublicID == "" || result.SecureURL == "" {
		return nil, fmt.Errorf("upload response missing public_id or secure_url")
	}
	return &result, nil
}

// Delete destroys a previously uploaded raw resource. Callers running
// compensating cleanup treat failures as best effort.
func (c *CloudinaryClient) Delete(ctx context.Context, storageID string) error {
	err := retry.DoVoid(ctx, c.policy, classify, func() error {
		return c.doDelete(ctx, storageID)
	})
	if err != nil {
		metrics.ObjectStoreOpsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	metrics.ObjectStoreOpsTotal.WithLabelValues("delete", "success").Inc()
	return nil
}

func (c *CloudinaryClient) doDelete(ctx context.Context, storageID string) error {
	timestamp := strconv.FormatInt(c.clock.Now().Unix(), 10)

	form := url.Values{}
	form.Set("public_id", storageID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign("public_id="+storageID+"&timestamp="+timestamp))

	endpoint := fmt.Sprintf("%s/%s/raw/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("destroy request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &apiStatusError{status: resp.StatusCode, body: string(raw)}
	}

	var result struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode destroy response: %w", err)
	}
	// "not found" counts as deleted: the object is gone either way.
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("destroy rejected: %s", result.Result)
	}
	return nil
}

// sign produces Cloudinary's request signature: the SHA-1 hex digest of
// the sorted parameter string concatenated with the API secret.
func (c *CloudinaryClient) sign(params string) string {
	digest := sha1.Sum([]byte(params + c.apiSecret))
	return hex.EncodeToString(digest[:])
}
