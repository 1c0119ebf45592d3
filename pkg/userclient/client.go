// Package userclient is the data layer for user-directory front-ends. It
// evaluates the shared userschema rules before any write leaves the process
// and turns every failure into an *APIError carrying the server's message.
package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"user-directory-api/pkg/userschema"
)

type (
	User struct {
		ID        string    `json:"id"`
		FirstName string    `json:"firstName"`
		LastName  string    `json:"lastName"`
		Email     string    `json:"email"`
		Mobile    string    `json:"mobile"`
		Gender    string    `json:"gender"`
		Status    string    `json:"status"`
		Location  string    `json:"location"`
		Profile    string    `json:"profile"`
		ProfileURL string    `json:"profileUrl,omitempty"`
		CreatedAt  time.Time `json:"createdAt"`
		UpdatedAt  time.Time `json:"updatedAt"`
	}

	Pagination struct {
		TotalItems  int64 `json:"totalItems"`
		TotalPages  int   `json:"totalPages"`
		CurrentPage int   `json:"currentPage"`
		Limit       int   `json:"limit"`
	}

	ListParams struct {
		Search string
		Page   int
		Limit  int
	}

	ListResult struct {
		Users      []User
		Pagination Pagination
	}

	Export struct {
		FileName string
		Data     []byte
	}
)

type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Count      int             `json:"count"`
	Pagination *Pagination     `json:"pagination"`
	Data       json.RawMessage `json:"data"`
}

type Client struct {
	baseURL      string
	http         *http.Client
	schema       *userschema.Schema
	token        string
	logger       *zap.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func WithToken(token string) Option { return func(c *Client) { c.token = token } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// WithSchema replaces the default schema, e.g. to match a server configured
// with a different gender set.
func WithSchema(s *userschema.Schema) Option { return func(c *Client) { c.schema = s } }

func WithTimeouts(read, write time.Duration) Option {
	return func(c *Client) {
		c.readTimeout = read
		c.writeTimeout = write
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{},
		schema:       userschema.New(),
		logger:       zap.NewNop(),
		readTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context, p ListParams) (*ListResult, error) {
	q := url.Values{}
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	path := "/api/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var users []User
	env, err := c.do(ctx, http.MethodGet, path, nil, &users)
	if err != nil {
		return nil, err
	}

	res := &ListResult{Users: users}
	if env.Pagination != nil {
		res.Pagination = *env.Pagination
	}
	return res, nil
}

func (c *Client) Get(ctx context.Context, id string) (*User, error) {
	u := new(User)
	if _, err := c.do(ctx, http.MethodGet, userPath(id), nil, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Create validates p locally first; a rejected payload returns
// userschema.ValidationErrors without a network call.
func (c *Client) Create(ctx context.Context, p userschema.Payload) (*User, error) {
	v, err := c.schema.Validate(p)
	if err != nil {
		return nil, err
	}

	u := new(User)
	if _, err = c.do(ctx, http.MethodPost, "/api/users", v, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) Update(ctx context.Context, id string, p userschema.Payload) (*User, error) {
	v, err := c.schema.Validate(p)
	if err != nil {
		return nil, err
	}

	u := new(User)
	if _, err = c.do(ctx, http.MethodPut, userPath(id), v, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) SetStatus(ctx context.Context, id, status string) (*User, error) {
	u := new(User)
	body := map[string]string{"status": status}
	if _, err := c.do(ctx, http.MethodPatch, userPath(id)+"/status", body, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete returns the server's confirmation message.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, userPath(id), nil, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) Export(ctx context.Context) (*Export, error) {
	resp, cancel, err := c.send(ctx, http.MethodGet, "/api/users/export", nil)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("read export: %v", err)}
	}

	name := "users-report.csv"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}

	return &Export{FileName: name, Data: data}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, data any) (*envelope, error) {
	resp, cancel, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}

	env := new(envelope)
	if err = json.NewDecoder(resp.Body).Decode(env); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if data != nil && len(env.Data) > 0 {
		if err = json.Unmarshal(env.Data, data); err != nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode data: %v", err)}
		}
	}

	return env, nil
}

// send returns the response together with the cancel func of its timeout;
// the caller releases both once the body has been read.
func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, context.CancelFunc, error) {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(raw)
	}

	timeout := c.readTimeout
	if method != http.MethodGet {
		timeout = c.writeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		c.logger.Warn("user api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, nil, &APIError{Message: err.Error(), cause: err}
	}

	c.logger.Debug("user api request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return resp, cancel, nil
}

func userPath(id string) string {
	return "/api/users/" + url.PathEscape(id)
}
