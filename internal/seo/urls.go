// Package seo renders the site's search-engine artifacts: sitemap XML,
// RSS/Atom feeds, JSON-LD structured data, and meta tags. Sitemap and feed
// output is cached in Redis with a TTL and invalidated on content mutation.
package seo

import (
	"github.com/jonesrussell/gosignal/internal/models"
)

// StaticRoutes are the fixed site paths included in the sitemap and in
// full resubmissions.
var StaticRoutes = []string{"/", "/blog", "/signals", "/about", "/contact"}

// URLBuilder computes canonical absolute URLs for site content.
type URLBuilder struct {
	base string
}

// NewURLBuilder creates a URL builder. base must not end with a slash.
func NewURLBuilder(base string) *URLBuilder {
	return &URLBuilder{base: base}
}

// Base returns the site root URL.
func (b *URLBuilder) Base() string {
	return b.base
}

// BlogPost returns the canonical URL of a blog post.
func (b *URLBuilder) BlogPost(post *models.BlogPost) string {
	return b.base + "/blog/" + post.Slug
}

// Signal returns the canonical URL of a signal page.
func (b *URLBuilder) Signal(signal *models.Signal) string {
	return b.base + "/signals/" + signal.Slug
}

// Category returns the canonical URL of a category listing.
func (b *URLBuilder) Category(category *models.Category) string {
	return b.base + "/category/" + category.Slug
}

// Static returns the absolute URL of a fixed site path.
func (b *URLBuilder) Static(path string) string {
	if path == "/" {
		return b.base + "/"
	}
	return b.base + path
}
