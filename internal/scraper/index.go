package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IndexScraper walks the paginated listing-index pages and yields references
// to individual detail pages.
type IndexScraper struct {
	fetcher *Fetcher
	config  *Config
}

// NewIndexScraper creates an index scraper sharing the given fetcher.
func NewIndexScraper(fetcher *Fetcher, config *Config) *IndexScraper {
	return &IndexScraper{fetcher: fetcher, config: config}
}

// ScrapePage fetches index page `page` and extracts listing references. A
// fetch failure yields an empty slice, which callers treat as "no more
// pages". Boxes without a usable title href are dropped.
func (s *IndexScraper) ScrapePage(ctx context.Context, page int) []ListingRef {
	pageURL := fmt.Sprintf("%s?page=%d", s.config.IndexURL, page)
	log.Printf("Scraping listings page: %s", pageURL)

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("Failed to parse index page %d: %v", page, err)
		return nil
	}

	var refs []ListingRef
	doc.Find("div.licitatie-box").Each(func(i int, box *goquery.Selection) {
		href, ok := box.Find("a.licitatie-box-title").First().Attr("href")
		if !ok || href == "" {
			return
		}

		ref := ListingRef{DetailURL: absoluteURL(s.config.BaseURL, href)}
		if cat := box.Find("div.licitatie-box-category a").First(); cat.Length() > 0 {
			ref.Category = strings.TrimSpace(cat.Text())
		}
		refs = append(refs, ref)
	})

	return refs
}

// absoluteURL resolves href against the site base when it is relative.
func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
