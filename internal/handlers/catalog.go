package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-chat-service/internal/models"
)

// catalogItems is the fixed product list. Prices are authored in BGN; the
// EUR price is derived at the fixed conversion rate.
var catalogItems = []models.CatalogItem{
	{ID: "m06", Name: "Chronograph Steel 42", Description: "Stainless case, sapphire glass, tachymeter bezel.", PriceBGN: 1325, Image: "/models/m06.png"},
	{ID: "m05", Name: "Diver Automatic 300m", Description: "Unidirectional bezel, luminous dial, rubber strap.", PriceBGN: 1147, Image: "/models/m05.png"},
	{ID: "m04", Name: "GMT Traveller", Description: "Dual time zone, jubilee bracelet.", PriceBGN: 1460, Image: "/models/m04.png"},
	{ID: "m02", Name: "Dress Classic 38", Description: "Slim case, leather strap, date at six.", PriceBGN: 1182, Image: "/models/m02.png"},
	{ID: "m03", Name: "Pilot Day-Date", Description: "Oversized crown, anti-magnetic movement.", PriceBGN: 1286, Image: "/models/m03.png"},
	{ID: "m01", Name: "Field Ranger 40", Description: "Matte dial, fixed bars, nylon strap.", PriceBGN: 1182, Image: "/models/m01.png"},
	{ID: "q07", Name: "Quartz Sport", PriceBGN: 550, Image: "/models/m07.png"},
	{ID: "q03", Name: "Quartz Diver Look", PriceBGN: 550, Image: "/models/m03.png"},
	{ID: "q01", Name: "Quartz Field", PriceBGN: 550, Image: "/models/m01.png"},
	{ID: "q04", Name: "Quartz GMT Look", PriceBGN: 550, Image: "/models/m04.png"},
}

// CatalogHandler serves the fixed watch catalog.
type CatalogHandler struct{}

// NewCatalogHandler builds a CatalogHandler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListItems returns all catalog items with derived EUR pricing.
func (h *CatalogHandler) ListItems(c *gin.Context) {
	items := make([]models.CatalogItem, len(catalogItems))
	copy(items, catalogItems)
	for i := range items {
		items[i].PriceEUR = math.Round(items[i].PriceBGN/models.EURRate*100) / 100
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
