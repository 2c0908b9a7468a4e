package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gosignal/internal/logger"
)

const (
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeRSS  = "application/rss+xml; charset=utf-8"
	contentTypeAtom = "application/atom+xml; charset=utf-8"
)

// getSitemap serves the sitemap
// GET /sitemap.xml
func (r *Router) getSitemap(c *gin.Context) {
	body, err := r.seo.Sitemap(c.Request.Context())
	if err != nil {
		r.logger.Error("Failed to render sitemap", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to render sitemap",
		})
		return
	}
	c.Data(http.StatusOK, contentTypeXML, []byte(body))
}

// getRSS serves the RSS feed
// GET /rss.xml
func (r *Router) getRSS(c *gin.Context) {
	body, err := r.seo.RSS(c.Request.Context())
	if err != nil {
		r.logger.Error("Failed to render RSS feed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to render RSS feed",
		})
		return
	}
	c.Data(http.StatusOK, contentTypeRSS, []byte(body))
}

// getAtom serves the Atom feed
// GET /atom.xml
func (r *Router) getAtom(c *gin.Context) {
	body, err := r.seo.Atom(c.Request.Context())
	if err != nil {
		r.logger.Error("Failed to render Atom feed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to render Atom feed",
		})
		return
	}
	c.Data(http.StatusOK, contentTypeAtom, []byte(body))
}

// getRobots serves robots.txt pointing crawlers at the sitemap
// GET /robots.txt
func (r *Router) getRobots(c *gin.Context) {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + r.seo.URLs().Static("/sitemap.xml") + "\n"
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

// getIndexNowKey serves the IndexNow key verification file
// GET /<key>.txt
func (r *Router) getIndexNowKey(c *gin.Context) {
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(r.indexer.Key()))
}
