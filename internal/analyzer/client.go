// Package analyzer is the HTTP client for the external skill analyzer.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/logger"
)

// maxResponseBytes caps how much of an analyzer response is read
const maxResponseBytes = 16 << 20

// Client talks to the analyzer over HTTP
type Client struct {
	config     *Config
	client     *http.Client
	baseURL    *url.URL
	normalizer ResponseNormalizer
	log        *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithNormalizer replaces the configured response normalizer
func WithNormalizer(n ResponseNormalizer) Option {
	return func(c *Client) {
		if n != nil {
			c.normalizer = n
		}
	}
}

// WithLogger sets the client logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates an analyzer client
func New(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	normalizer, err := NewNormalizer(config.ResponseShape)
	if err != nil {
		return nil, err
	}

	c := &Client{
		config:     config,
		client:     &http.Client{Timeout: config.Timeout},
		baseURL:    baseURL,
		normalizer: normalizer,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the analyzer base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Normalizer returns the active response normalizer
func (c *Client) Normalizer() ResponseNormalizer {
	return c.normalizer
}

// Analyze uploads a resume and the required skills and returns normalized findings.
// Every failure is a *common.ConsoleError.
func (c *Client) Analyze(ctx context.Context, req *common.AnalysisRequest) (*Result, error) {
	if req == nil || req.Resume.Size() == 0 {
		return nil, common.NewValidationError(common.MsgNoFile)
	}
	if c.config.MaxUploadBytes > 0 && int64(req.Resume.Size()) > c.config.MaxUploadBytes {
		return nil, common.NewValidationError(common.MsgTooLarge)
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	fields := []logger.Field{logger.RequestID(requestID)}

	body, contentType, err := encodeMultipart(req)
	if err != nil {
		return nil, common.NewTransportError("", 0, fmt.Errorf("failed to encode request: %w", err))
	}

	endpoint := c.baseURL.JoinPath("/analyze")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return nil, common.NewTransportError("", 0, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	c.log.DebugWithFields("sending analysis request to %s", append(fields,
		logger.F("skills", len(req.RequiredSkills)),
		logger.F("bytes", req.Resume.Size()),
	), endpoint.String())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.WarnWithFields("analysis request failed", append(fields, logger.Error(err)))
		return nil, classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, fmt.Errorf("failed to read response: %w", err))
	}

	fields = append(fields, logger.Status(resp.StatusCode), logger.Duration(time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := detailMessage(raw)
		c.log.WarnWithFields("analyzer rejected request: %s", fields, msg)
		return nil, common.NewTransportError(msg, resp.StatusCode, fmt.Errorf("analyzer returned status %d", resp.StatusCode))
	}

	result, err := c.normalizer.Normalize(raw)
	if err != nil {
		c.log.WarnWithFields("malformed analyzer response", append(fields, logger.Error(err)))
		return nil, common.NewMalformedError(err)
	}
	result.RequestID = requestID
	if result.Dropped > 0 {
		c.log.WarnWithFields("dropped invalid finding locations", append(fields, logger.Count(result.Dropped)))
	}

	c.log.InfoWithFields("analysis complete", append(fields, logger.Count(len(result.Findings))))
	return result, nil
}

// Health checks the analyzer /health endpoint
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	endpoint := c.baseURL.JoinPath("/health")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, common.NewTransportError("", 0, fmt.Errorf("failed to create health request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, common.NewTransportError(
			fmt.Sprintf("health check failed with status %d", resp.StatusCode),
			resp.StatusCode, nil)
	}

	var status HealthStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&status); err != nil {
		return nil, common.NewMalformedError(fmt.Errorf("failed to decode health response: %w", err))
	}
	return &status, nil
}

func encodeMultipart(req *common.AnalysisRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, req.Resume.BaseName()))
	header.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Resume.Data); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("job_skills", req.JobSkillsField()); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// detailMessage returns the analyzer's detail string, or the generic failure
// text when detail is absent, not a string, or the body is not JSON
func detailMessage(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return common.MsgGenericFailure
	}
	if detail, ok := errResp.Detail.(string); ok && strings.TrimSpace(detail) != "" {
		return detail
	}
	return common.MsgGenericFailure
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return common.NewTimeoutError(common.MsgTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return common.NewTimeoutError(common.MsgTimeout, err)
	}
	return common.NewTransportError("", 0, err)
}
