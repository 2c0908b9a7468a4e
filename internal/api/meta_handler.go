package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gosignal/internal/logger"
)

// getBlogPostMeta returns meta tags and JSON-LD for a blog post page
// GET /api/v1/meta/posts/:slug
func (r *Router) getBlogPostMeta(c *gin.Context) {
	ctx := c.Request.Context()

	post, err := r.content.GetBlogPostBySlug(ctx, c.Param("slug"))
	if err != nil {
		handleRepositoryError(c, err, "blog post", "get")
		return
	}

	ld, err := r.seo.BlogPostingLD(post)
	if err != nil {
		r.logger.Error("Failed to build structured data",
			logger.Error(err),
			logger.String("slug", post.Slug),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build structured data",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta":    r.seo.MetaForBlogPost(post),
		"json_ld": ld,
	})
}

// getSignalMeta returns meta tags for a signal page
// GET /api/v1/meta/signals/:slug
func (r *Router) getSignalMeta(c *gin.Context) {
	ctx := c.Request.Context()

	signal, err := r.content.GetSignalBySlug(ctx, c.Param("slug"))
	if err != nil {
		handleRepositoryError(c, err, "signal", "get")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta": r.seo.MetaForSignal(signal),
	})
}

// getCategoryMeta returns meta tags for a category listing page
// GET /api/v1/meta/categories/:slug
func (r *Router) getCategoryMeta(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := r.content.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		handleRepositoryError(c, err, "category", "get")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta": r.seo.MetaForCategory(category),
	})
}

// getSiteMeta returns site-wide JSON-LD documents
// GET /api/v1/meta/site
func (r *Router) getSiteMeta(c *gin.Context) {
	website, err := r.seo.WebSiteLD()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build structured data",
		})
		return
	}

	organization, err := r.seo.OrganizationLD()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build structured data",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"website":      website,
		"organization": organization,
	})
}
