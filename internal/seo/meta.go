package seo

import (
	"fmt"

	"github.com/jonesrussell/gosignal/internal/models"
)

// MetaTags holds the per-page head tags the site templates render.
type MetaTags struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Canonical     string `json:"canonical"`
	OGTitle       string `json:"og_title"`
	OGDescription string `json:"og_description"`
	OGType        string `json:"og_type"`
	OGURL         string `json:"og_url"`
	TwitterCard   string `json:"twitter_card"`
}

// MetaForBlogPost builds meta tags for a blog post page. OG fields fall
// back to the canonical values when no dedicated copy exists.
func (s *Service) MetaForBlogPost(post *models.BlogPost) MetaTags {
	description := post.Excerpt
	if description == "" {
		description = s.site.Description
	}

	canonical := s.urls.BlogPost(post)
	return MetaTags{
		Title:         fmt.Sprintf("%s | %s", post.Title, s.site.Name),
		Description:   description,
		Canonical:     canonical,
		OGTitle:       post.Title,
		OGDescription: description,
		OGType:        "article",
		OGURL:         canonical,
		TwitterCard:   "summary_large_image",
	}
}

// MetaForSignal builds meta tags for a signal page.
func (s *Service) MetaForSignal(signal *models.Signal) MetaTags {
	description := fmt.Sprintf("%s %s signal at %.5f", signal.Pair, signal.Direction, signal.EntryPrice)
	canonical := s.urls.Signal(signal)
	return MetaTags{
		Title:         fmt.Sprintf("%s | %s", signal.Title, s.site.Name),
		Description:   description,
		Canonical:     canonical,
		OGTitle:       signal.Title,
		OGDescription: description,
		OGType:        "article",
		OGURL:         canonical,
		TwitterCard:   "summary",
	}
}

// MetaForCategory builds meta tags for a category listing page.
func (s *Service) MetaForCategory(category *models.Category) MetaTags {
	description := category.Description
	if description == "" {
		description = s.site.Description
	}

	canonical := s.urls.Category(category)
	return MetaTags{
		Title:         fmt.Sprintf("%s | %s", category.Name, s.site.Name),
		Description:   description,
		Canonical:     canonical,
		OGTitle:       category.Name,
		OGDescription: description,
		OGType:        "website",
		OGURL:         canonical,
		TwitterCard:   "summary",
	}
}
