package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodtracker/internal/services"
)

// SearchHandler proxies product searches to the external product database.
type SearchHandler struct {
	searcher services.ProductSearcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher services.ProductSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// SearchProducts searches OpenFoodFacts
// @Summary     Search external products
// @Description Full-text search in OpenFoodFacts. The query needs at least 3 characters.
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       q query string true "Search query"
// @Success     200 {array}  openfoodfacts.SearchResult "Matching products"
// @Failure     400 {object} ErrorResponse "Query too short"
// @Failure     502 {object} ErrorResponse "Upstream error"
// @Failure     503 {object} ErrorResponse "Upstream unavailable"
// @Router      /external-products/search [get]
func (h *SearchHandler) SearchProducts(c *gin.Context) {
	results, err := h.searcher.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": results})
}
