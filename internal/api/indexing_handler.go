package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gosignal/internal/logger"
)

const defaultHistoryLimit = 100

type submitRequest struct {
	URLs []string `json:"urls" binding:"required,min=1"`
}

// submitURLs pushes a list of URLs to the search engines
// POST /api/v1/indexing/submit
func (r *Router) submitURLs(c *gin.Context) {
	ctx := c.Request.Context()

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	records := r.indexer.SubmitURLs(ctx, req.URLs)

	successful := 0
	for _, rec := range records {
		if rec.Success {
			successful++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results":    records,
		"count":      len(records),
		"successful": successful,
		"failed":     len(records) - successful,
	})
}

// resubmitAll triggers a full resubmission of every published URL
// POST /api/v1/indexing/resubmit
func (r *Router) resubmitAll(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := r.content.ResubmitAll(ctx)
	if err != nil {
		r.logger.Error("Full resubmission failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resubmit site URLs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Resubmission completed",
		"total":   total,
	})
}

// getIndexingStats returns aggregate submission statistics
// GET /api/v1/indexing/stats
func (r *Router) getIndexingStats(c *gin.Context) {
	c.JSON(http.StatusOK, r.indexer.Statistics(c.Request.Context()))
}

// getIndexingHistory returns recent submission records, newest first
// GET /api/v1/indexing/history?limit=100
func (r *Router) getIndexingHistory(c *gin.Context) {
	limit := parseLimit(c, defaultHistoryLimit)

	records := r.indexer.History(limit)
	c.JSON(http.StatusOK, gin.H{
		"history": records,
		"count":   len(records),
	})
}

// getIndexNowKeyInfo returns the active IndexNow key and its location
// GET /api/v1/indexing/key
func (r *Router) getIndexNowKeyInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"key":          r.indexer.Key(),
		"key_location": r.indexer.KeyLocation(),
	})
}
