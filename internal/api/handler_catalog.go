package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storage-reservation-backend/internal/store"
)

// GetCatalog handles GET /api/catalog.
func (h *Handler) GetCatalog(c *gin.Context) {
	groups, err := h.store.ListCatalog(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

type createCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// CreateCategory handles POST /api/catalog/categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.store.CreateCategory(c.Request.Context(), req.Category)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Category '" + category.Category + "' created successfully",
		"category": category,
	})
}

type createCatalogItemRequest struct {
	ItemType  string `json:"itemType" binding:"required"`
	ItemName  string `json:"itemName" binding:"required"`
	ImageURL  string `json:"imageUrl"`
	ManualURL string `json:"manualUrl"`
}

// CreateCatalogItem handles POST /api/catalog/items.
func (h *Handler) CreateCatalogItem(c *gin.Context) {
	var req createCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.store.CreateCatalogItem(c.Request.Context(), store.CreateCatalogItemInput{
		ItemType:  req.ItemType,
		ItemName:  req.ItemName,
		ImageURL:  req.ImageURL,
		ManualURL: req.ManualURL,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Item '" + item.ItemName + "' added to the catalog",
		"item":    item,
	})
}

// DeleteCatalogItem handles DELETE /api/catalog/items/:name.
func (h *Handler) DeleteCatalogItem(c *gin.Context) {
	name := c.Param("name")
	if err := h.store.DeleteCatalogItem(c.Request.Context(), name); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item '" + name + "' deleted from the catalog"})
}

// DeleteCategory handles DELETE /api/catalog/categories/:name. Every
// item under the category is removed with it.
func (h *Handler) DeleteCategory(c *gin.Context) {
	name := c.Param("name")
	if err := h.store.DeleteCategory(c.Request.Context(), name); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category '" + name + "' and its items deleted"})
}
