package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"product_manager/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	b, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.requests = append(r.requests, recordedRequest{
		Method: req.Method,
		Path:   req.URL.EscapedPath(),
		Query:  req.URL.RawQuery,
		Auth:   req.Header.Get("Authorization"),
		Body:   string(b),
	})
	status, body := r.status, r.body
	r.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, rec *recorder, opts ...Option) CatalogClient {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	return NewCatalogHTTPClient(srv.URL+"/api/v1/", time.Second, quietLogger(), opts...)
}

func TestListProducts(t *testing.T) {
	rec := &recorder{body: `[{"_id":"1","name":"A","price":1000,"description":"d","image":"i"}]`}
	c := newTestClient(t, rec)

	got, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	require.Len(t, rec.requests, 1)
	assert.Equal(t, http.MethodGet, rec.requests[0].Method)
	assert.Equal(t, "/api/v1/products", rec.requests[0].Path)
}

func TestListProductsNullBodyIsEmpty(t *testing.T) {
	c := newTestClient(t, &recorder{body: `null`})

	got, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchProductsEncodesKeyword(t *testing.T) {
	rec := &recorder{body: `[]`}
	c := newTestClient(t, rec)

	_, err := c.SearchProducts(context.Background(), "áo & quần")
	require.NoError(t, err)
	require.Len(t, rec.requests, 1)
	assert.Equal(t, "/api/v1/search", rec.requests[0].Path)
	assert.Equal(t, "keyword=%C3%A1o+%26+qu%E1%BA%A7n", rec.requests[0].Query)
}

func TestCreateProductSendsPayload(t *testing.T) {
	rec := &recorder{status: http.StatusCreated, body: `{"_id":"new"}`}
	c := newTestClient(t, rec, WithToken("s3cret"))

	form := domain.ProductForm{Name: "n", Price: "10", Description: "d", Image: "i"}
	require.NoError(t, c.CreateProduct(context.Background(), form.CreatePayload()))

	require.Len(t, rec.requests, 1)
	r := rec.requests[0]
	assert.Equal(t, http.MethodPost, r.Method)
	assert.Equal(t, "/api/v1/product", r.Path)
	assert.Equal(t, "Bearer s3cret", r.Auth)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(r.Body), &body))
	assert.Equal(t, "10", body["priceGoc"])
	assert.Equal(t, float64(1), body["quantity"])
}

func TestUpdateAndDeleteEscapeID(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec)

	require.NoError(t, c.UpdateProduct(context.Background(), "a/b", domain.UpdatePayload{Name: "x"}))
	require.NoError(t, c.DeleteProduct(context.Background(), "a/b"))

	require.Len(t, rec.requests, 2)
	assert.Equal(t, http.MethodPut, rec.requests[0].Method)
	assert.Equal(t, "/api/v1/update/products/a%2Fb", rec.requests[0].Path)
	assert.JSONEq(t, `{"name":"x","price":"","description":"","image":""}`, rec.requests[0].Body)
	assert.Equal(t, http.MethodDelete, rec.requests[1].Method)
	assert.Equal(t, "/api/v1/delete/products/a%2Fb", rec.requests[1].Path)
	assert.Empty(t, rec.requests[1].Body)
}

func TestNon2xxReturnsAPIError(t *testing.T) {
	c := newTestClient(t, &recorder{status: http.StatusNotFound, body: `{"message":"not found"}`})

	err := c.DeleteProduct(context.Background(), "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "delete product", apiErr.Op)
	assert.Contains(t, apiErr.Error(), "not found")
}

func TestTransportErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewCatalogHTTPClient(base, time.Second, quietLogger())
	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to communicate with catalog API")
}

func TestMalformedListIsAnError(t *testing.T) {
	c := newTestClient(t, &recorder{body: `{"not":"a list"}`})
	_, err := c.ListProducts(context.Background())
	assert.ErrorContains(t, err, "failed to decode")
}
