package seo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonesrussell/gosignal/internal/models"
)

const schemaContext = "https://schema.org"

// BlogPostingLD returns the JSON-LD structured data for a blog post.
func (s *Service) BlogPostingLD(post *models.BlogPost) (string, error) {
	doc := map[string]any{
		"@context":         schemaContext,
		"@type":            "BlogPosting",
		"headline":         post.Title,
		"description":      post.Excerpt,
		"url":              s.urls.BlogPost(post),
		"mainEntityOfPage": s.urls.BlogPost(post),
		"dateModified":     post.UpdatedAt.Format(time.RFC3339),
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  s.site.Name,
			"url":   s.site.BaseURL + "/",
		},
	}

	if post.Author != "" {
		doc["author"] = map[string]any{
			"@type": "Person",
			"name":  post.Author,
		}
	}
	if post.PublishedAt != nil {
		doc["datePublished"] = post.PublishedAt.Format(time.RFC3339)
	}

	return marshalLD(doc)
}

// WebSiteLD returns the JSON-LD structured data for the site itself.
func (s *Service) WebSiteLD() (string, error) {
	return marshalLD(map[string]any{
		"@context":    schemaContext,
		"@type":       "WebSite",
		"name":        s.site.Name,
		"description": s.site.Description,
		"url":         s.site.BaseURL + "/",
	})
}

// OrganizationLD returns the JSON-LD structured data for the publisher.
func (s *Service) OrganizationLD() (string, error) {
	return marshalLD(map[string]any{
		"@context": schemaContext,
		"@type":    "Organization",
		"name":     s.site.Name,
		"url":      s.site.BaseURL + "/",
	})
}

func marshalLD(doc map[string]any) (string, error) {
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal structured data: %w", err)
	}
	return string(out), nil
}
