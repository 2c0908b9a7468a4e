package seo

import (
	"time"

	"github.com/gorilla/feeds"

	"github.com/jonesrussell/gosignal/internal/models"
)

// feedSource wraps gorilla/feeds with the site identity filled in.
type feedSource struct {
	feed *feeds.Feed
}

func (s *Service) buildFeed(posts []models.BlogPost) *feedSource {
	now := time.Now()
	feed := &feeds.Feed{
		Title:       s.site.Name,
		Link:        &feeds.Link{Href: s.site.BaseURL + "/"},
		Description: s.site.Description,
		Created:     now,
	}

	if len(posts) > 0 && posts[0].PublishedAt != nil {
		feed.Updated = *posts[0].PublishedAt
	}

	for i := range posts {
		post := &posts[i]

		created := post.CreatedAt
		if post.PublishedAt != nil {
			created = *post.PublishedAt
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          s.urls.BlogPost(post),
			Title:       post.Title,
			Link:        &feeds.Link{Href: s.urls.BlogPost(post)},
			Description: post.Excerpt,
			Author:      &feeds.Author{Name: post.Author},
			Created:     created,
			Updated:     post.UpdatedAt,
		})
	}

	return &feedSource{feed: feed}
}

// ToRSS renders the feed as RSS 2.0.
func (f *feedSource) ToRSS() (string, error) {
	return f.feed.ToRss()
}

// ToAtom renders the feed as Atom.
func (f *feedSource) ToAtom() (string, error) {
	return f.feed.ToAtom()
}
