// Package mockapi is a stand-in for the remote catalog API. It serves the same
// five endpoints so the manager can be developed and tested offline.
package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	store Store
	log   *logrus.Logger
}

func NewHandler(store Store, logger *logrus.Logger) *Handler {
	return &Handler{store: store, log: logger}
}

// RegisterRoutes mounts the catalog endpoints under prefix (for example
// "/api/v1").
func (h *Handler) RegisterRoutes(router gin.IRouter, prefix string) {
	api := router.Group(prefix)
	{
		api.GET("/products", h.ListProducts)
		api.GET("/search", h.SearchProducts)
		api.POST("/product", h.CreateProduct)
		api.PUT("/update/products/:id", h.UpdateProduct)
		api.DELETE("/delete/products/:id", h.DeleteProduct)
	}
}

// NewRouter builds a standalone engine serving the stand-in API.
func NewRouter(store Store, prefix string, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	NewHandler(store, logger).RegisterRoutes(router, prefix)
	return router
}

type createRequest struct {
	Name        string          `json:"name"        binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	PriceGoc    decimal.Decimal `json:"priceGoc"`
	Quantity    json.Number     `json:"quantity"`
}

type updateRequest struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
}

type recordResponse struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Price       json.RawMessage `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	PriceGoc    json.RawMessage `json:"priceGoc"`
	Quantity    int             `json:"quantity"`
}

func toResponse(rec Record) recordResponse {
	return recordResponse{
		ID:          rec.ID,
		Name:        rec.Name,
		Price:       json.RawMessage(rec.Price.String()),
		Description: rec.Description,
		Image:       rec.Image,
		PriceGoc:    json.RawMessage(rec.PriceGoc.String()),
		Quantity:    rec.Quantity,
	}
}

func toResponses(recs []Record) []recordResponse {
	out := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toResponse(rec))
	}
	return out
}

func (h *Handler) ListProducts(c *gin.Context) {
	recs, err := h.store.List(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not list products"})
		return
	}
	h.log.Infof("Retrieved %d products", len(recs))
	c.JSON(http.StatusOK, toResponses(recs))
}

func (h *Handler) SearchProducts(c *gin.Context) {
	keyword := c.Query("keyword")
	recs, err := h.store.Search(c.Request.Context(), keyword)
	if err != nil {
		h.log.Errorf("Failed to search products for '%s': %v", keyword, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not search products"})
		return
	}
	h.log.Infof("Search '%s' matched %d products", keyword, len(recs))
	c.JSON(http.StatusOK, toResponses(recs))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for create product: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "price cannot be negative"})
		return
	}

	quantity := 0
	if req.Quantity != "" {
		q, err := req.Quantity.Int64()
		if err != nil || q < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "quantity must be a non-negative integer"})
			return
		}
		quantity = int(q)
	}

	rec := Record{PriceGoc: req.PriceGoc, Quantity: quantity}
	rec.Name = req.Name
	rec.Price = req.Price
	rec.Description = req.Description
	rec.Image = req.Image

	created, err := h.store.Create(c.Request.Context(), rec)
	if err != nil {
		h.log.Errorf("Failed to create product '%s': %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create product"})
		return
	}
	h.log.Infof("Product created successfully: ID %s, Name %s", created.ID, created.Name)
	c.JSON(http.StatusCreated, toResponse(created))
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for update product ID %s: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}
	if req.Price != nil && req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "price cannot be negative"})
		return
	}

	updated, err := h.store.Update(c.Request.Context(), id, Changes(req))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	if err != nil {
		h.log.Errorf("Failed to update product ID %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update product"})
		return
	}
	h.log.Infof("Product updated successfully: ID %s", id)
	c.JSON(http.StatusOK, toResponse(updated))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	if err != nil {
		h.log.Errorf("Failed to delete product ID %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not delete product"})
		return
	}
	h.log.Infof("Product deleted successfully: ID %s", id)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
