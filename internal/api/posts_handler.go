//nolint:dupl // Similar structure to signals_handler.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gosignal/internal/models"
)

// listBlogPosts returns blog posts
// GET /api/v1/posts?published=true&limit=50&offset=0
func (r *Router) listBlogPosts(c *gin.Context) {
	ctx := c.Request.Context()

	posts, err := r.content.ListBlogPosts(ctx, parseListFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list blog posts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"count": len(posts),
	})
}

// createBlogPost creates a new blog post
// POST /api/v1/posts
func (r *Router) createBlogPost(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.BlogPostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	post, err := r.content.CreateBlogPost(ctx, &req)
	if err != nil {
		handleRepositoryError(c, err, "blog post", "create")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// getBlogPost retrieves a blog post by ID
// GET /api/v1/posts/:id
func (r *Router) getBlogPost(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "blog post")
	if !ok {
		return
	}

	post, err := r.content.GetBlogPost(ctx, id)
	if err != nil {
		handleRepositoryError(c, err, "blog post", "get")
		return
	}

	c.JSON(http.StatusOK, post)
}

// getBlogPostBySlug retrieves a blog post by slug
// GET /api/v1/posts/slug/:slug
func (r *Router) getBlogPostBySlug(c *gin.Context) {
	ctx := c.Request.Context()

	post, err := r.content.GetBlogPostBySlug(ctx, c.Param("slug"))
	if err != nil {
		handleRepositoryError(c, err, "blog post", "get")
		return
	}

	c.JSON(http.StatusOK, post)
}

// updateBlogPost updates a blog post
// PUT /api/v1/posts/:id
func (r *Router) updateBlogPost(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "blog post")
	if !ok {
		return
	}

	var req models.BlogPostUpdateRequest
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

	post, err := r.content.UpdateBlogPost(ctx, id, &req)
	if err != nil {
		handleRepositoryError(c, err, "blog post", "update")
		return
	}

	c.JSON(http.StatusOK, post)
}

// deleteBlogPost deletes a blog post
// DELETE /api/v1/posts/:id
func (r *Router) deleteBlogPost(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "blog post")
	if !ok {
		return
	}

	if err := r.content.DeleteBlogPost(ctx, id); err != nil {
		handleRepositoryError(c, err, "blog post", "delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Blog post deleted successfully",
	})
}
