package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/pkg/requestid"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// Client talks to a running estimator API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ResponseError is returned when the server answers with a non-2xx status.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

func (c *Client) Estimate(ctx context.Context, req v1alpha1.EstimateRequest) (*v1alpha1.EstimateResponse, error) {
	var envelope v1alpha1.Envelope[v1alpha1.EstimateResponse]
	if err := c.do(ctx, http.MethodPost, "/api/estimate", req, &envelope); err != nil {
		return nil, errors.Wrap(err, "estimating")
	}
	return &envelope.Data, nil
}

func (c *Client) Compare(ctx context.Context, req v1alpha1.EstimateRequest) ([]v1alpha1.PackageEstimate, error) {
	var envelope v1alpha1.Envelope[[]v1alpha1.PackageEstimate]
	if err := c.do(ctx, http.MethodPost, "/api/estimate/compare", req, &envelope); err != nil {
		return nil, errors.Wrap(err, "comparing packages")
	}
	return envelope.Data, nil
}

// Export renders the estimate on the server and returns the document with its filename.
func (c *Client) Export(ctx context.Context, req v1alpha1.EstimateRequest, format string) ([]byte, string, error) {
	path := "/api/estimate/export?" + url.Values{"format": []string{format}}.Encode()
	resp, err := c.send(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, "", errors.Wrap(err, "exporting estimate")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading export")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", errors.Wrap(responseError(resp.StatusCode, body), "exporting estimate")
	}
	return body, attachmentName(resp.Header.Get("Content-Disposition")), nil
}

func (c *Client) GetConfiguration(ctx context.Context) (*estimation.Configuration, error) {
	var envelope v1alpha1.Envelope[estimation.Configuration]
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &envelope); err != nil {
		return nil, errors.Wrap(err, "reading configuration")
	}
	return &envelope.Data, nil
}

func (c *Client) Info(ctx context.Context) (*v1alpha1.Info, error) {
	var info v1alpha1.Info
	if err := c.do(ctx, http.MethodGet, "/api/info", nil, &info); err != nil {
		return nil, errors.Wrap(err, "reading server info")
	}
	return &info, nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return errors.Wrap(err, "health check")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Drain body to enable connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &ResponseError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, errors.Wrap(err, "marshalling request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestid.Propagate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "calling %s", c.baseURL)
	}
	return resp, nil
}

func responseError(status int, body []byte) error {
	var apiErr v1alpha1.Error
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return &ResponseError{StatusCode: status, Message: apiErr.Message}
	}
	return &ResponseError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

// attachmentName extracts the filename from a Content-Disposition header.
func attachmentName(header string) string {
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if name, ok := strings.CutPrefix(part, "filename="); ok {
			return strings.Trim(name, `"`)
		}
	}
	return ""
}
