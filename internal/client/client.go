// Package client talks to the catalog API over HTTP and keeps the session
// state of a front end (the CLI) in a Store.
package client

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

	"github.com/rogerio-castellano/catalog-manager/internal/http/handlers"
)

const defaultTimeout = 10 * time.Second

// APIError is a non 2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	fields := make([]string, 0, len(e.Errors))
	for f, msg := range e.Errors {
		fields = append(fields, f+": "+msg)
	}
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(fields, "; "))
}

// IsUnauthenticated reports whether err is a 401 from the API.
func IsUnauthenticated(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

// ListParams mirrors the query string of GET /products. Zero values are not sent.
type ListParams struct {
	CategoryID *int
	Enabled    *bool
	Page       int
	PerPage    int
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.CategoryID != nil {
		v.Set("category_id", strconv.Itoa(*p.CategoryID))
	}
	if p.Enabled != nil {
		v.Set("enabled", strconv.FormatBool(*p.Enabled))
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return v
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp handlers.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, handlers.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp handlers.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/register", nil, body, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

// Logout revokes the current token on the server and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/logout", nil, nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) ListProducts(ctx context.Context, params ListParams) (handlers.ProductsPage, error) {
	var page handlers.ProductsPage
	err := c.do(ctx, http.MethodGet, "/products", params.values(), nil, &page)
	return page, err
}

func (c *Client) GetProduct(ctx context.Context, name string) (handlers.ProductResponse, error) {
	var product handlers.ProductResponse
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(name), nil, nil, &product)
	return product, err
}

// DeleteProducts soft deletes ids and returns how many rows the server removed.
func (c *Client) DeleteProducts(ctx context.Context, ids []int) (int, error) {
	var resp handlers.DeleteProductsResponse
	if err := c.do(ctx, http.MethodDelete, "/products", nil, map[string][]int{"ids": ids}, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]handlers.CategoryResponse, error) {
	var categories []handlers.CategoryResponse
	err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories)
	return categories, err
}

// Export streams the export file for ids (all live products when empty) to w.
func (c *Client) Export(ctx context.Context, format string, ids []int, w io.Writer) error {
	q := url.Values{}
	if format != "" {
		q.Set("format", format)
	}
	if len(ids) > 0 {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.Itoa(id)
		}
		q.Set("ids", strings.Join(parts, ","))
	}

	resp, err := c.send(ctx, http.MethodGet, "/products-export", q, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs the request and turns non 2xx answers into *APIError.
// The caller closes the body of a successful response.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, decodeAPIError(resp)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}
	apiErr.Message = body.Message
	apiErr.Errors = body.Errors
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
