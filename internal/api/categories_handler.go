package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gosignal/internal/models"
)

// listCategories returns all categories
// GET /api/v1/categories?active_only=true
func (r *Router) listCategories(c *gin.Context) {
	ctx := c.Request.Context()

	activeOnly := c.Query("active_only") == "true"

	categories, err := r.content.ListCategories(ctx, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// createCategory creates a new category
// POST /api/v1/categories
func (r *Router) createCategory(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	category, err := r.content.CreateCategory(ctx, &req)
	if err != nil {
		handleRepositoryError(c, err, "category", "create")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// getCategory retrieves a category by ID
// GET /api/v1/categories/:id
func (r *Router) getCategory(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "category")
	if !ok {
		return
	}

	category, err := r.content.GetCategory(ctx, id)
	if err != nil {
		handleRepositoryError(c, err, "category", "get")
		return
	}

	c.JSON(http.StatusOK, category)
}

// updateCategory updates a category
// PUT /api/v1/categories/:id
func (r *Router) updateCategory(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "category")
	if !ok {
		return
	}

	var req models.CategoryUpdateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": bindErr.Error(),
		})
		return
	}

	if validateErr := req.Validate(); validateErr != nil {
		handleValidationError(c, validateErr)
		return
	}

	category, err := r.content.UpdateCategory(ctx, id, &req)
	if err != nil {
		handleRepositoryError(c, err, "category", "update")
		return
	}

	c.JSON(http.StatusOK, category)
}

// deleteCategory deletes a category
// DELETE /api/v1/categories/:id
func (r *Router) deleteCategory(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "category")
	if !ok {
		return
	}

	if err := r.content.DeleteCategory(ctx, id); err != nil {
		handleRepositoryError(c, err, "category", "delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}
