package smoke

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// salaryPattern extracts the value after the currency prefix.
var salaryPattern = regexp.MustCompile(PredictionMarker + `\s*[^0-9\s-]*\s*(-?[0-9]+(?:\.[0-9]+)?)`)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout. Redirects are not
// followed so a 302 from the predict route is observed as such.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// response is a fully read reply.
type response struct {
	status int
	body   string
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, target string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

// PostForm submits a case as a urlencoded form.
func (c *HTTPClient) PostForm(ctx context.Context, target string, tc Case) (response, error) {
	form := url.Values{
		"experience":      {tc.Experience},
		"test_score":      {tc.TestScore},
		"interview_score": {tc.InterviewScore},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", formContentType)
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return response{}, fmt.Errorf("failed to read response body: %w", err)
	}
	return response{status: resp.StatusCode, body: string(body)}, nil
}

// extractSalary returns the rendered salary of a result page.
func extractSalary(body string) (float64, error) {
	m := salaryPattern.FindStringSubmatch(body)
	if m == nil {
		return 0, ErrNoSalary
	}
	return strconv.ParseFloat(m[1], 64)
}
