//nolint:dupl // Similar structure to posts_handler.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gosignal/internal/models"
)

// listSignals returns trading signals
// GET /api/v1/signals?published=true&limit=50&offset=0
func (r *Router) listSignals(c *gin.Context) {
	ctx := c.Request.Context()

	signals, err := r.content.ListSignals(ctx, parseListFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list signals",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"signals": signals,
		"count":   len(signals),
	})
}

// createSignal creates a new trading signal
// POST /api/v1/signals
func (r *Router) createSignal(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.SignalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	signal, err := r.content.CreateSignal(ctx, &req)
	if err != nil {
		handleRepositoryError(c, err, "signal", "create")
		return
	}

	c.JSON(http.StatusCreated, signal)
}

// getSignal retrieves a signal by ID
// GET /api/v1/signals/:id
func (r *Router) getSignal(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "signal")
	if !ok {
		return
	}

	signal, err := r.content.GetSignal(ctx, id)
	if err != nil {
		handleRepositoryError(c, err, "signal", "get")
		return
	}

	c.JSON(http.StatusOK, signal)
}

// getSignalBySlug retrieves a signal by slug
// GET /api/v1/signals/slug/:slug
func (r *Router) getSignalBySlug(c *gin.Context) {
	ctx := c.Request.Context()

	signal, err := r.content.GetSignalBySlug(ctx, c.Param("slug"))
	if err != nil {
		handleRepositoryError(c, err, "signal", "get")
		return
	}

	c.JSON(http.StatusOK, signal)
}

// updateSignal updates a signal
// PUT /api/v1/signals/:id
func (r *Router) updateSignal(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "signal")
	if !ok {
		return
	}

	var req models.SignalUpdateRequest
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

	signal, err := r.content.UpdateSignal(ctx, id, &req)
	if err != nil {
		handleRepositoryError(c, err, "signal", "update")
		return
	}

	c.JSON(http.StatusOK, signal)
}

// deleteSignal deletes a signal
// DELETE /api/v1/signals/:id
func (r *Router) deleteSignal(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseUUID(c, "id", "signal")
	if !ok {
		return
	}

	if err := r.content.DeleteSignal(ctx, id); err != nil {
		handleRepositoryError(c, err, "signal", "delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signal deleted successfully",
	})
}
