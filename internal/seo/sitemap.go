package seo

import (
	"encoding/xml"
	"fmt"
	"time"
)

const sitemapDateFormat = "2006-01-02"

// xmlURLSet is the root element of a sitemap XML file.
type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []xmlURL `xml:"url"`
}

// xmlURL is a single <url> entry inside a <urlset>.
type xmlURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SitemapEntry is one URL to include in the rendered sitemap.
type SitemapEntry struct {
	Loc        string
	LastMod    *time.Time
	ChangeFreq string
	Priority   string
}

// RenderSitemap serializes the entries as sitemap XML.
func RenderSitemap(entries []SitemapEntry) (string, error) {
	set := xmlURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]xmlURL, 0, len(entries)),
	}

	for i := range entries {
		entry := &entries[i]
		u := xmlURL{
			Loc:        entry.Loc,
			ChangeFreq: entry.ChangeFreq,
			Priority:   entry.Priority,
		}
		if entry.LastMod != nil {
			u.LastMod = entry.LastMod.UTC().Format(sitemapDateFormat)
		}
		set.URLs = append(set.URLs, u)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sitemap: %w", err)
	}

	return xml.Header + string(out), nil
}
