package turn14

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xndroli/lucrative-growth-app/internal/logger"
	"github.com/xndroli/lucrative-growth-app/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, srv.URL, logger.New("error"))
	return c, srv
}

func TestAuthenticate_Success(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","expires_in":3600}`))
	}))

	err := c.Authenticate(context.Background(), "key", "secret", models.Turn14EnvProduction)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", c.token)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := c.Authenticate(context.Background(), "bad", "creds", models.Turn14EnvSandbox)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestGet_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"unauthorized", http.StatusUnauthorized, func(t *testing.T, err error) {
			var e *AuthError
			assert.True(t, errors.As(err, &e))
		}},
		{"not found", http.StatusNotFound, func(t *testing.T, err error) {
			var e *NotFoundError
			assert.True(t, errors.As(err, &e))
		}},
		{"rate limited", http.StatusTooManyRequests, func(t *testing.T, err error) {
			var e *RateLimitError
			assert.True(t, errors.As(err, &e))
		}},
		{"server error", http.StatusBadGateway, func(t *testing.T, err error) {
			var e *TransientError
			assert.True(t, errors.As(err, &e))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			_, err := c.GetProduct(context.Background(), "A100")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestGet_NetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := NewClient(srv.URL, srv.URL, logger.New("error"))
	srv.Close() // connection refused from here on

	_, err := c.ListBrands(context.Background())

	var e *TransientError
	require.ErrorAs(t, err, &e)
}

func TestListInventory_Paging(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, "Borla", r.URL.Query().Get("brand"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"data":[{"sku":"B200","brand":"Borla","product_name":"Exhaust","price":499.99,"stock":3}],"page":2,"total_pages":3}`))
	}))

	page, err := c.ListInventory(context.Background(), InventoryFilter{Brand: "Borla"}, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "B200", page.Items[0].SKU)
	assert.True(t, page.HasMore())
}

func TestGetStockAndPricing(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inventory":
			assert.Equal(t, "A100,B200", r.URL.Query().Get("skus"))
			w.Write([]byte(`{"data":{"A100":0,"B200":12}}`))
		case "/pricing":
			w.Write([]byte(`{"data":{"A100":19.99}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	stock, err := c.GetStock(context.Background(), []string{"A100", "B200"})
	require.NoError(t, err)
	assert.Equal(t, 0, stock["A100"])
	assert.Equal(t, 12, stock["B200"])

	pricing, err := c.GetPricing(context.Background(), []string{"A100"})
	require.NoError(t, err)
	assert.Equal(t, 19.99, pricing["A100"])
}

func TestGetCompatibility(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/A100/fitments", r.URL.Path)
		w.Write([]byte(`{"data":[{"year":2018,"make":"Honda","model":"Civic","submodel":"Si"},{"is_universal":true}]}`))
	}))

	fitments, err := c.GetCompatibility(context.Background(), "A100")
	require.NoError(t, err)
	require.Len(t, fitments, 2)
	assert.Equal(t, 2018, fitments[0].Year)
	assert.True(t, fitments[1].IsUniversal)
}
