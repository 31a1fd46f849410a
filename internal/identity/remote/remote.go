// Package remote talks to the Bloom It server over HTTP. It implements the
// identity client Backend and fetches the catalog content.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"bloomit/internal/catalog"
	"bloomit/internal/identity/models"
	dErrors "bloomit/pkg/domain-errors"
	"bloomit/pkg/platform/httputil"
)

const maxErrorBody = 64 << 10

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	reads   *retryablehttp.Client
	writes  *retryablehttp.Client
	token   func() string
	logger  *slog.Logger
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.reads.HTTPClient = hc
		c.writes.HTTPClient = hc
	}
}

// WithRetries bounds how often an idempotent GET is retried and how long to
// wait between attempts.
func WithRetries(retries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.reads.RetryMax = retries
		c.reads.RetryWaitMin = waitMin
		c.reads.RetryWaitMax = waitMax
	}
}

// WithTokenSource supplies the bearer token for content calls that need one.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) {
		c.token = fn
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		reads:   retryablehttp.NewClient(),
		writes:  retryablehttp.NewClient(),
		token:   func() string { return "" },
		logger:  slog.Default(),
	}
	c.reads.RetryMax = 3
	c.writes.RetryMax = 0
	for _, opt := range opts {
		opt(c)
	}
	for _, hc := range []*retryablehttp.Client{c.reads, c.writes} {
		hc.Logger = c.logger
		hc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	}
	return c
}

func (c *Client) Register(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", accessToken, nil, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/reset-password", "", map[string]string{"email": email}, nil)
}

// ConfirmPasswordReset sets a new password with the code from the reset message.
func (c *Client) ConfirmPasswordReset(ctx context.Context, req models.ResetConfirmation) error {
	return c.do(ctx, http.MethodPost, "/auth/reset-password/confirm", "", req, nil)
}

func (c *Client) Verify(ctx context.Context, accessToken string) (*models.Identity, error) {
	var out models.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Home(ctx context.Context) (catalog.Home, error) {
	var out catalog.Home
	err := c.do(ctx, http.MethodGet, "/home", "", nil, &out)
	return out, err
}

// Plants returns the matching plants and, when there are none, a suggested
// name to search for instead.
func (c *Client) Plants(ctx context.Context, filter catalog.PlantFilter) ([]catalog.Plant, string, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", string(filter.Category))
	}
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}
	path := "/plants"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out struct {
		Plants     []catalog.Plant `json:"plants"`
		Suggestion string          `json:"suggestion"`
	}
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, "", err
	}
	return out.Plants, out.Suggestion, nil
}

func (c *Client) Plant(ctx context.Context, slug string) (*catalog.Plant, error) {
	var out catalog.Plant
	if err := c.do(ctx, http.MethodGet, "/plants/"+url.PathEscape(slug), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FAQ(ctx context.Context) (string, []catalog.FAQEntry, error) {
	var out struct {
		Intro   string             `json:"intro"`
		Entries []catalog.FAQEntry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, "/faq", "", nil, &out); err != nil {
		return "", nil, err
	}
	return out.Intro, out.Entries, nil
}

func (c *Client) About(ctx context.Context) (catalog.About, error) {
	var out catalog.About
	err := c.do(ctx, http.MethodGet, "/about", "", nil, &out)
	return out, err
}

func (c *Client) Opportunities(ctx context.Context) ([]catalog.Opportunity, error) {
	var out struct {
		Opportunities []catalog.Opportunity `json:"opportunities"`
	}
	if err := c.do(ctx, http.MethodGet, "/volunteering", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Opportunities, nil
}

// Join signs the bearer up for an opportunity and returns the confirmation.
func (c *Client) Join(ctx context.Context, opportunityID string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	path := "/volunteering/" + url.PathEscape(opportunityID) + "/join"
	if err := c.do(ctx, http.MethodPost, path, c.token(), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var raw []byte
	if body != nil {
		var err error
		if raw, err = json.Marshal(body); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request")
		}
	}

	var reqBody any
	if raw != nil {
		reqBody = bytes.NewReader(raw)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	hc := c.writes
	if method == http.MethodGet {
		hc = c.reads
	}
	resp, err := hc.Do(req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "request cancelled")
		}
		c.logger.WarnContext(ctx, "server unreachable", "method", method, "path", path, "error", err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "server unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "malformed server response")
	}
	return nil
}

var knownCodes = map[dErrors.Code]struct{}{
	dErrors.CodeBadRequest:   {},
	dErrors.CodeInvalidInput: {},
	dErrors.CodeUnauthorized: {},
	dErrors.CodeForbidden:    {},
	dErrors.CodeNotFound:     {},
	dErrors.CodeConflict:     {},
	dErrors.CodeInternal:     {},
	dErrors.CodeUnavailable:  {},

	dErrors.CodeTooManyRequests: {},
}

// decodeError turns the server's error envelope back into a coded error.
// Bodies without a recognised code fall back to the status.
func decodeError(resp *http.Response) error {
	var env httputil.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&env)

	code := dErrors.Code(env.Error)
	if _, ok := knownCodes[code]; !ok {
		code = dErrors.FromHTTPStatus(resp.StatusCode)
	}
	msg := env.Description
	if msg == "" {
		msg = strings.ToLower(http.StatusText(resp.StatusCode))
	}
	return dErrors.New(code, msg)
}
