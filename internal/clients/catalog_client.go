package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"product_manager/internal/domain"

	"github.com/sirupsen/logrus"
)

// CatalogClient is the remote product API. Every operation issues exactly one
// HTTP request and never retries.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, payload domain.CreatePayload) error
	UpdateProduct(ctx context.Context, id string, payload domain.UpdatePayload) error
	DeleteProduct(ctx context.Context, id string) error
}

// APIError is returned when the catalog API answers with a non-2xx status.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("catalog %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

const maxErrorBody = 512

type catalogHTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logrus.Logger
}

type Option func(*catalogHTTPClient)

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *catalogHTTPClient) { c.token = token }
}

func NewCatalogHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger, opts ...Option) CatalogClient {
	c := &catalogHTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *catalogHTTPClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.fetchList(ctx, "list products", c.baseURL+"/products")
}

func (c *catalogHTTPClient) SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	return c.fetchList(ctx, "search products", c.baseURL+"/search?"+q.Encode())
}

func (c *catalogHTTPClient) CreateProduct(ctx context.Context, payload domain.CreatePayload) error {
	c.log.Infof("CatalogClient: Creating product '%s'", payload.Name)
	return c.send(ctx, "create product", http.MethodPost, c.baseURL+"/product", payload)
}

func (c *catalogHTTPClient) UpdateProduct(ctx context.Context, id string, payload domain.UpdatePayload) error {
	c.log.Infof("CatalogClient: Updating product ID %s", id)
	return c.send(ctx, "update product", http.MethodPut, c.baseURL+"/update/products/"+url.PathEscape(id), payload)
}

func (c *catalogHTTPClient) DeleteProduct(ctx context.Context, id string) error {
	c.log.Infof("CatalogClient: Deleting product ID %s", id)
	return c.send(ctx, "delete product", http.MethodDelete, c.baseURL+"/delete/products/"+url.PathEscape(id), nil)
}

func (c *catalogHTTPClient) fetchList(ctx context.Context, op, target string) ([]domain.Product, error) {
	c.log.Debugf("CatalogClient: Requesting %s from URL: %s", op, target)
	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("CatalogClient: Failed to execute %s request: %v", op, err)
		return nil, fmt.Errorf("failed to communicate with catalog API: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		c.log.Errorf("CatalogClient: %v", err)
		return nil, err
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		c.log.Errorf("CatalogClient: Failed to decode %s response: %v", op, err)
		return nil, fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	// A JSON null means an empty catalog.
	if products == nil {
		products = []domain.Product{}
	}

	c.log.Infof("CatalogClient: %s returned %d products", op, len(products))
	return products, nil
}

func (c *catalogHTTPClient) send(ctx context.Context, op, method, target string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to prepare %s data: %w", op, err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := c.newRequest(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("CatalogClient: Failed to execute %s request: %v", op, err)
		return fmt.Errorf("failed to communicate with catalog API: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp); err != nil {
		c.log.Errorf("CatalogClient: %v", err)
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	c.log.Infof("CatalogClient: %s succeeded with status %d", op, resp.StatusCode)
	return nil
}

func (c *catalogHTTPClient) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
}
