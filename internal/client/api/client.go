package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/pvisualizer/internal/client/models"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
	"github.com/google/uuid"
)

const (
	RequestIDHeaderName = "X-Request-ID"

	maxBodyBytes  = 4 << 20
	maxErrorBytes = 256
)

type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  logging.Logger
}

// NewClient returns a client for the API rooted at baseURL. Every request
// is bounded by timeout; zero means no per-request bound.
func NewClient(baseURL string, timeout time.Duration, logger logging.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{},
		timeout: timeout,
		logger:  logger.With("component", "api"),
	}, nil
}

// endpoint appends path, which must already be escaped, to the base URL.
func (c *Client) endpoint(path string, query url.Values) (string, error) {
	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + path
	p, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return "", fmt.Errorf("build path %q: %w", path, err)
	}
	u.Path = p
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// do performs one request and returns the raw response body of a 2xx
// answer. token is sent as a bearer credential when non-empty.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target, err := c.endpoint(path, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(reqCtx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "request done", "method", method, "path", path, "request_id", requestID, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > maxErrorBytes {
			snippet = snippet[:maxErrorBytes]
		}
		return nil, mapStatus(resp.StatusCode, snippet)
	}
	return data, nil
}

func decodeJSON(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// decodeToken accepts the shapes the auth endpoints answer with: a JSON
// string, an object with a "token" or "access_token" field, or plain text.
func decodeToken(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty token", ErrBadResponse)
	}

	var token string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &token); err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
	case '{':
		var obj struct {
			Token       string `json:"token"`
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		token = obj.Token
		if token == "" {
			token = obj.AccessToken
		}
	default:
		token = string(data)
	}

	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrBadResponse)
	}
	return token, nil
}

// truthy reports whether a JSON payload is truthy: null, false, 0, "" and
// an empty body are falsy, everything else is truthy.
func truthy(data []byte) (bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return false, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case float64:
		return x != 0, nil
	case string:
		return x != "", nil
	default:
		return true, nil
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges email and password for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "/auth/login", nil, "", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	return decodeToken(data)
}

// Signup creates an account and returns its bearer token.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "/auth/signup", nil, "", req)
	if err != nil {
		return "", err
	}
	return decodeToken(data)
}

// Verify checks token against GET /auth/verify. It returns nil only for a
// 2xx answer with a truthy payload; a falsy payload yields ErrRejected.
func (c *Client) Verify(ctx context.Context, token string) error {
	data, err := c.do(ctx, http.MethodGet, "/auth/verify", nil, token, nil)
	if err != nil {
		return err
	}
	ok, err := truthy(data)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRejected
	}
	return nil
}

func (c *Client) Me(ctx context.Context, token string) (*models.Profile, error) {
	data, err := c.do(ctx, http.MethodGet, "/auth/me", nil, token, nil)
	if err != nil {
		return nil, err
	}
	var p models.Profile
	if err := decodeJSON(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/update", nil, token, upd)
	return err
}

// Ping probes the API root. Any 2xx answer means the server is up.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/", nil, "", nil)
	return err
}

func (c *Client) Strategies(ctx context.Context, token string) ([]models.Strategy, error) {
	data, err := c.do(ctx, http.MethodGet, "/strategy/all", nil, token, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Strategies []models.Strategy `json:"strategies"`
	}
	if err := decodeJSON(data, &resp); err != nil {
		return nil, err
	}
	return resp.Strategies, nil
}

// Strategy returns the undecoded analytics document of one model. Its
// shape varies between models, so callers extract fields by path.
func (c *Client) Strategy(ctx context.Context, token, id string) (any, error) {
	if id == "" {
		return nil, errors.New("strategy id is required")
	}
	data, err := c.do(ctx, http.MethodGet, "/strategy/"+url.PathEscape(id), nil, token, nil)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := decodeJSON(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// MonthlyStatsQuery mirrors the query parameters of /monthly-stats/all.
// Sort and Filter are sent JSON-encoded.
type MonthlyStatsQuery struct {
	Sort   map[string]string
	Filter map[string]any
	Limit  int
	Offset int
}

func (q MonthlyStatsQuery) values() (url.Values, error) {
	v := url.Values{}
	if len(q.Sort) > 0 {
		b, err := json.Marshal(q.Sort)
		if err != nil {
			return nil, err
		}
		v.Set("sort", string(b))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	v.Set("offset", strconv.Itoa(q.Offset))
	if len(q.Filter) > 0 {
		b, err := json.Marshal(q.Filter)
		if err != nil {
			return nil, err
		}
		v.Set("filter", string(b))
	}
	return v, nil
}

func (c *Client) MonthlyStats(ctx context.Context, token string, q MonthlyStatsQuery) ([]models.MonthlyStat, error) {
	values, err := q.values()
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	data, err := c.do(ctx, http.MethodGet, "/monthly-stats/all", values, token, nil)
	if err != nil {
		return nil, err
	}
	var rows []models.MonthlyStat
	if err := decodeJSON(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
