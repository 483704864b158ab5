package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogListItems(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/catalog", NewCatalogHandler().ListItems)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []struct {
			ID       string  `json:"id"`
			PriceBGN float64 `json:"price_bgn"`
			PriceEUR float64 `json:"price_eur"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Items)

	for _, item := range resp.Items {
		assert.Greater(t, item.PriceBGN, 0.0)
		// EUR derived at the fixed rate, rounded to cents.
		assert.InDelta(t, item.PriceBGN/1.95583, item.PriceEUR, 0.01)
	}
}
