package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
)

const (
	csrfHeader      = "X-CSRFToken"
	requestIDHeader = "X-Request-ID"
	maxErrorText    = 200
)

// ClientConfig configures the backend connection.
type ClientConfig struct {
	BaseURL        string
	SearchPath     string
	Timeout        time.Duration
	CSRFCookieName string
	// CSRFToken seeds the cookie jar when the token is obtained out of band.
	CSRFToken string
}

// Client is the shared transport of every resource repository.
type Client struct {
	http       *resty.Client
	baseURL    *url.URL
	jar        http.CookieJar
	csrfCookie string
	searchPath string
}

// NewClient builds a Client for the backend at cfg.BaseURL.
func NewClient(cfg ClientConfig) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid backend base url: %q", cfg.BaseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}

	c := &Client{
		baseURL:    u,
		jar:        jar,
		csrfCookie: cfg.CSRFCookieName,
		searchPath: cfg.SearchPath,
	}
	if c.csrfCookie == "" {
		c.csrfCookie = "csrftoken"
	}
	if c.searchPath == "" {
		c.searchPath = "employee_search/"
	}
	if cfg.CSRFToken != "" {
		jar.SetCookies(u, []*http.Cookie{{Name: c.csrfCookie, Value: cfg.CSRFToken, Path: "/"}})
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(u.String(), "/")).
		SetCookieJar(jar).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		c.http.SetTimeout(cfg.Timeout)
	}
	return c, nil
}

// CSRFToken returns the token currently held in the cookie jar, or "".
func (c *Client) CSRFToken() string {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == c.csrfCookie {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) newRequest(ctx context.Context, mutating bool) *resty.Request {
	r := c.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())
	if mutating {
		token := c.CSRFToken()
		if token == "" {
			logger.WarnLog(ctx, "no %s cookie, sending empty CSRF token", c.csrfCookie)
		}
		r.SetHeader(csrfHeader, token)
	}
	return r
}

func (c *Client) newJSONRequest(ctx context.Context, body interface{}) *resty.Request {
	return c.newRequest(ctx, true).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
}

// do executes r and decodes a 2xx JSON body into out when out is not nil.
func (c *Client) do(r *resty.Request, method, path, op string, out interface{}) error {
	resp, err := r.Execute(method, path)
	if err != nil {
		return errors.Wrap(err, op)
	}
	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return decodeAPIError(op, status, resp.Header().Get("Content-Type"), resp.Body())
	}
	if out == nil || len(strings.TrimSpace(string(resp.Body()))) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &domain.APIError{
			Op:         op,
			StatusCode: status,
			Message:    "invalid JSON response: " + err.Error(),
			Body:       truncate(string(resp.Body())),
		}
	}
	return nil
}

// decodeAPIError prefers the body's "error" field, then DRF style detail or
// field errors, then raw text for non-JSON bodies.
func decodeAPIError(op string, status int, contentType string, body []byte) *domain.APIError {
	text := strings.TrimSpace(string(body))
	apiErr := &domain.APIError{
		Op:         op,
		StatusCode: status,
		Message:    op + " failed",
		Body:       truncate(text),
	}
	if text == "" {
		return apiErr
	}

	if isJSON(contentType) {
		var payload interface{}
		if err := json.Unmarshal(body, &payload); err == nil {
			if msg := messageFromPayload(payload); msg != "" {
				apiErr.Message = msg
			}
			return apiErr
		}
	}

	apiErr.Message = fmt.Sprintf("%s failed: %s", op, truncate(text))
	return apiErr
}

func messageFromPayload(payload interface{}) string {
	switch p := payload.(type) {
	case map[string]interface{}:
		for _, key := range []string{"error", "detail"} {
			if msg, ok := p[key].(string); ok && msg != "" {
				return msg
			}
		}
		return flattenFieldErrors(p)
	case []interface{}:
		return joinMessages(p)
	}
	return ""
}

func flattenFieldErrors(p map[string]interface{}) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		var msg string
		switch v := p[k].(type) {
		case string:
			msg = v
		case []interface{}:
			msg = joinMessages(v)
		}
		if msg != "" {
			parts = append(parts, k+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

func joinMessages(list []interface{}) string {
	var msgs []string
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			msgs = append(msgs, s)
		}
	}
	return strings.Join(msgs, " ")
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func truncate(s string) string {
	if len(s) <= maxErrorText {
		return s
	}
	return s[:maxErrorText] + "..."
}

func isStatus(err error, status int) bool {
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
