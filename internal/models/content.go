// Package models defines the content entities and request payloads shared by
// the repository, service, and API layers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost represents a long-form article on the marketing site
type BlogPost struct {
	ID          uuid.UUID  `db:"id"           json:"id"`
	Title       string     `db:"title"        json:"title"`
	Slug        string     `db:"slug"         json:"slug"`
	Body        string     `db:"body"         json:"body"`
	Excerpt     string     `db:"excerpt"      json:"excerpt"`
	CategoryID  *uuid.UUID `db:"category_id"  json:"category_id,omitempty"`
	Author      string     `db:"author"       json:"author"`
	Published   bool       `db:"published"    json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"   json:"updated_at"`
}

// Signal represents a published trade-signal entry (pair, direction, levels)
type Signal struct {
	ID          uuid.UUID  `db:"id"           json:"id"`
	Title       string     `db:"title"        json:"title"`
	Slug        string     `db:"slug"         json:"slug"`
	Pair        string     `db:"pair"         json:"pair"`      // e.g., "EURUSD"
	Direction   string     `db:"direction"    json:"direction"` // "buy" or "sell"
	EntryPrice  float64    `db:"entry_price"  json:"entry_price"`
	StopLoss    float64    `db:"stop_loss"    json:"stop_loss"`
	TakeProfit  float64    `db:"take_profit"  json:"take_profit"`
	Analysis    string     `db:"analysis"     json:"analysis"`
	Published   bool       `db:"published"    json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"   json:"updated_at"`
}

// Category groups blog posts and signals on the public site
type Category struct {
	ID          uuid.UUID `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	Slug        string    `db:"slug"        json:"slug"`
	Description string    `db:"description" json:"description"`
	Active      bool      `db:"active"      json:"active"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}

// BlogPostCreateRequest represents the request payload for creating a blog post
type BlogPostCreateRequest struct {
	Title      string     `binding:"required,min=1,max=255" json:"title"`
	Slug       string     `binding:"required,min=1,max=255" json:"slug"`
	Body       string     `binding:"required"               json:"body"`
	Excerpt    string     `json:"excerpt"`
	CategoryID *uuid.UUID `json:"category_id"`
	Author     string     `json:"author"`
	Published  *bool      `json:"published"` // Pointer to allow omission (defaults to false)
}

// BlogPostUpdateRequest represents the request payload for updating a blog post
type BlogPostUpdateRequest struct {
	Title      *string    `binding:"omitempty,min=1,max=255" json:"title"`
	Slug       *string    `binding:"omitempty,min=1,max=255" json:"slug"`
	Body       *string    `json:"body"`
	Excerpt    *string    `json:"excerpt"`
	CategoryID *uuid.UUID `json:"category_id"`
	Author     *string    `json:"author"`
	Published  *bool      `json:"published"`
}

// Validate validates the blog post update request
func (r *BlogPostUpdateRequest) Validate() error {
	if r.Title == nil && r.Slug == nil && r.Body == nil && r.Excerpt == nil &&
		r.CategoryID == nil && r.Author == nil && r.Published == nil {
		return ErrNoFieldsToUpdate
	}
	return nil
}

// SignalCreateRequest represents the request payload for creating a signal
type SignalCreateRequest struct {
	Title      string  `binding:"required,min=1,max=255"     json:"title"`
	Slug       string  `binding:"required,min=1,max=255"     json:"slug"`
	Pair       string  `binding:"required,min=1,max=20"      json:"pair"`
	Direction  string  `binding:"required,oneof=buy sell"    json:"direction"`
	EntryPrice float64 `binding:"required"                   json:"entry_price"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	Analysis   string  `json:"analysis"`
	Published  *bool   `json:"published"`
}

// SignalUpdateRequest represents the request payload for updating a signal
type SignalUpdateRequest struct {
	Title      *string  `binding:"omitempty,min=1,max=255"  json:"title"`
	Slug       *string  `binding:"omitempty,min=1,max=255"  json:"slug"`
	Pair       *string  `binding:"omitempty,min=1,max=20"   json:"pair"`
	Direction  *string  `binding:"omitempty,oneof=buy sell" json:"direction"`
	EntryPrice *float64 `json:"entry_price"`
	StopLoss   *float64 `json:"stop_loss"`
	TakeProfit *float64 `json:"take_profit"`
	Analysis   *string  `json:"analysis"`
	Published  *bool    `json:"published"`
}

// Validate validates the signal update request
func (r *SignalUpdateRequest) Validate() error {
	if r.Title == nil && r.Slug == nil && r.Pair == nil && r.Direction == nil &&
		r.EntryPrice == nil && r.StopLoss == nil && r.TakeProfit == nil &&
		r.Analysis == nil && r.Published == nil {
		return ErrNoFieldsToUpdate
	}
	return nil
}

// CategoryCreateRequest represents the request payload for creating a category
type CategoryCreateRequest struct {
	Name        string `binding:"required,min=1,max=255" json:"name"`
	Slug        string `binding:"required,min=1,max=255" json:"slug"`
	Description string `json:"description"`
	Active      *bool  `json:"active"` // Pointer to allow omission (defaults to true)
}

// CategoryUpdateRequest represents the request payload for updating a category
type CategoryUpdateRequest struct {
	Name        *string `binding:"omitempty,min=1,max=255" json:"name"`
	Slug        *string `binding:"omitempty,min=1,max=255" json:"slug"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// Validate validates the category update request
func (r *CategoryUpdateRequest) Validate() error {
	if r.Name == nil && r.Slug == nil && r.Description == nil && r.Active == nil {
		return ErrNoFieldsToUpdate
	}
	return nil
}

// ListFilter carries limit/offset pagination for list queries
type ListFilter struct {
	Limit         int
	Offset        int
	PublishedOnly bool
}
