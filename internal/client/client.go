package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockview/internal/models"
	"stockview/internal/viewer"
)

// Client talks to the inventory backend over HTTP
type Client struct {
	resolver   EndpointResolver
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a backend client. A zero timeout leaves requests bounded
// only by their context.
func NewClient(resolver EndpointResolver, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		resolver:   resolver,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// do sends a request tagged with a fresh request id
func (c *Client) do(ctx context.Context, method, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("url", url),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

// FetchDocument loads the current inventory document. The URL carries a
// timestamp so intermediaries never answer from cache.
func (c *Client) FetchDocument(ctx context.Context) (*models.InventoryDocument, error) {
	url := c.resolver.URL(EndpointDocument) + "?" + strconv.FormatInt(c.now().UnixMilli(), 10)

	resp, err := c.do(ctx, http.MethodGet, url, "", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", viewer.ErrLoadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w", viewer.ErrLoadFailed, &viewer.RemoteError{Status: resp.StatusCode})
	}

	var doc models.InventoryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode document: %w", viewer.ErrLoadFailed, err)
	}
	return &doc, nil
}

// Ingest uploads a spreadsheet as the multipart field "file". It returns the
// converted document when the backend sends it inline, nil otherwise.
func (c *Client) Ingest(ctx context.Context, filename string, r io.Reader) (*models.InventoryDocument, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", viewer.ErrIngestionFailed, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", viewer.ErrIngestionFailed, filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", viewer.ErrIngestionFailed, err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.resolver.URL(EndpointUpload), mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", viewer.ErrIngestionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", viewer.ErrIngestionFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(body)
		if msg == "" {
			msg = fmt.Sprintf("Upload thất bại (%d)", resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %w", viewer.ErrIngestionFailed, &viewer.RemoteError{Status: resp.StatusCode, Message: msg})
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		// valid JSON that is not an object carries no inline data
		if json.Valid(body) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: decode response: %w", viewer.ErrIngestionFailed, err)
	}
	if len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
		return nil, nil
	}

	var doc models.InventoryDocument
	if err := json.Unmarshal(envelope.Data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode inline data: %w", viewer.ErrIngestionFailed, err)
	}
	return &doc, nil
}

// SaveShelfLife persists one shelf-life override. Success requires a 2xx
// status and a JSON body.
func (c *Client) SaveShelfLife(ctx context.Context, req models.ShelfLifeRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %w", viewer.ErrPersistFailed, err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.resolver.URL(EndpointShelfLife), "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", viewer.ErrPersistFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", viewer.ErrPersistFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: %w", viewer.ErrPersistFailed, &viewer.RemoteError{Status: resp.StatusCode, Message: msg})
	}
	if !json.Valid(body) {
		return fmt.Errorf("%w: response is not JSON", viewer.ErrPersistFailed)
	}
	return nil
}

// errorMessage extracts "message" from a JSON error body, if any
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
