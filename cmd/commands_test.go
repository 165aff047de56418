package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"product_manager/config"
	"product_manager/internal/cli"
	"product_manager/internal/clients"
	"product_manager/internal/domain"
	"product_manager/internal/mockapi"
	"product_manager/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, name string, price int64) mockapi.Record {
	rec := mockapi.Record{Quantity: 1, PriceGoc: decimal.NewFromInt(price)}
	rec.ID = id
	rec.Name = name
	rec.Price = decimal.NewFromInt(price)
	rec.Description = "mô tả " + name
	rec.Image = "http://img/" + id
	return rec
}

// setupCatalog starts a stand-in catalog API and points the CLI at it.
func setupCatalog(t *testing.T, seed ...mockapi.Record) mockapi.Store {
	t.Helper()
	t.Chdir(t.TempDir())

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	store := mockapi.NewMemoryStore(seed...)
	srv := httptest.NewServer(mockapi.NewRouter(store, "/api/v1", quiet))
	t.Cleanup(srv.Close)

	t.Setenv("CATALOG_API_URL", srv.URL+"/api/v1")
	t.Setenv("LOG_LEVEL", "info")
	return store
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func names(t *testing.T, store mockapi.Store) []string {
	t.Helper()
	recs, err := store.List(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name)
	}
	return out
}

func TestListCommand(t *testing.T) {
	setupCatalog(t, record("a1", "Áo thun", 120000), record("b2", "Quần jean", 350000))

	out, err := execute(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Áo thun")
	assert.Contains(t, out, "120.000đ")
	assert.Contains(t, out, "Quần jean")

	out, err = execute(t, "", "list", "--output", "json")
	require.NoError(t, err)
	var products []domain.Product
	require.NoError(t, json.Unmarshal([]byte(out), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "a1", products[0].ID)
}

func TestListEmptyCatalog(t *testing.T) {
	setupCatalog(t)
	out, err := execute(t, "", "list")
	require.NoError(t, err)
	assert.Equal(t, "Không có sản phẩm\n", out)
}

func TestListUnknownFormat(t *testing.T) {
	setupCatalog(t)
	_, err := execute(t, "", "list", "-o", "xml")
	var fe *cli.UnknownFormatError
	assert.ErrorAs(t, err, &fe)
}

func TestSearchCommand(t *testing.T) {
	setupCatalog(t, record("a1", "Áo thun", 120000), record("b2", "Quần jean", 350000))

	out, err := execute(t, "", "search", "jean")
	require.NoError(t, err)
	assert.Contains(t, out, "Quần jean")
	assert.NotContains(t, out, "Áo thun")
}

func TestAddCommand(t *testing.T) {
	store := setupCatalog(t)

	out, err := execute(t, "", "add", "--name", "Mũ len", "--price", "99000", "--description", "ấm", "--image", "http://img/mu")
	require.NoError(t, err)
	assert.Contains(t, out, "Đã thêm sản phẩm Mũ len")
	assert.Equal(t, []string{"Mũ len"}, names(t, store))
}

func TestAddCommandRequiresAllFields(t *testing.T) {
	store := setupCatalog(t)

	_, err := execute(t, "", "add", "--name", "Mũ len", "--price", "99000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.BlankFieldsMessage)
	assert.Contains(t, err.Error(), "description image")
	assert.Empty(t, names(t, store))

	_, err = execute(t, "", "add", "--name", "Mũ", "--price", "rẻ", "--description", "d", "--image", "i")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.InvalidPriceMessage)
}

func TestAddCommandPriceRule(t *testing.T) {
	tests := []struct {
		price string
		ok    bool
	}{
		{"120000", true},
		{"99.5", true},
		{"1e3", false},
		{"2E5", false},
		{"abc", false},
		{"12,000", false},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			store := setupCatalog(t)
			_, err := execute(t, "", "add", "--name", "Mũ", "--price", tt.price, "--description", "len", "--image", "http://img/mu")
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, []string{"Mũ"}, names(t, store))
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), domain.InvalidPriceMessage)
			assert.Empty(t, names(t, store))
		})
	}
}

func TestEditCommandKeepsUnsetFields(t *testing.T) {
	store := setupCatalog(t, record("a1", "Áo thun", 120000))

	out, err := execute(t, "", "edit", "a1", "--price", "150000")
	require.NoError(t, err)
	assert.Contains(t, out, "Đã lưu sản phẩm a1")

	recs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Áo thun", recs[0].Name)
	assert.Equal(t, "mô tả Áo thun", recs[0].Description)
	assert.True(t, recs[0].Price.Equal(decimal.NewFromInt(150000)))
}

func TestEditCommandUnknownProduct(t *testing.T) {
	setupCatalog(t, record("a1", "Áo thun", 120000))
	_, err := execute(t, "", "edit", "zz", "--name", "x")
	assert.EqualError(t, err, "product zz not found")
}

func TestDeleteCommand(t *testing.T) {
	store := setupCatalog(t, record("a1", "Áo thun", 120000), record("b2", "Quần jean", 350000))

	_, err := execute(t, "y\n", "delete", "a1")
	assert.ErrorIs(t, err, cli.ErrNotInteractive, "piped input cannot confirm")
	assert.Len(t, names(t, store), 2)

	out, err := execute(t, "", "delete", "a1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Đã xóa sản phẩm a1")
	assert.Equal(t, []string{"Quần jean"}, names(t, store))

	_, err = execute(t, "", "delete", "a1", "--yes")
	var apiErr *clients.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestAPIURLFlagOverridesEnv(t *testing.T) {
	setupCatalog(t, record("a1", "Áo thun", 120000))
	good := os.Getenv("CATALOG_API_URL")
	t.Setenv("CATALOG_API_URL", "http://127.0.0.1:1/api/v1")

	out, err := execute(t, "", "list", "--api-url", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Áo thun")
}

func TestServeUntilDoneStopsOnCancel(t *testing.T) {
	cfg = &config.Config{CatalogAPIURL: "http://catalog"}
	logger = logrus.New()
	logger.SetOutput(io.Discard)

	sessions := usecase.NewSessions(nil, time.Minute, logger)
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, srv, sessions) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
