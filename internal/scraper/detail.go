package scraper

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// knownSpecLabels is the fixed vocabulary of spec-table rows worth keeping.
// Rows with any other label are ignored, except free-text "Observații".
var knownSpecLabels = map[string]bool{
	"Marca":                     true,
	"Model":                     true,
	"Tipul":                     true,
	"Numărul de identificare":   true,
	"Data primei înmatriculări": true,
	"Capacitate cilindrică":     true,
	"Putere":                    true,
	"Nr. de locuri":             true,
	"Sursa de energie":          true,
	"Culoare":                   true,
	"Rulaj estimat":             true,
	"Înmatriculat":              true,
	"Carte de identitate":       true,
	"Certificat înmatriculare":  true,
	"Număr chei":                true,
}

const maxDescriptionLen = 5000

// DetailScraper extracts a full listing record from one detail page.
type DetailScraper struct {
	fetcher *Fetcher
	config  *Config
	now     func() time.Time
}

// NewDetailScraper creates a detail scraper sharing the given fetcher.
func NewDetailScraper(fetcher *Fetcher, config *Config) *DetailScraper {
	return &DetailScraper{fetcher: fetcher, config: config, now: time.Now}
}

// labelRule pairs the candidate label strings for one field (spelling and
// diacritic variants) with the function that stores its value. Rules are
// tried independently; a missing label just leaves the field unset.
type labelRule struct {
	labels []string
	apply  func(d *ListingData, value string)
}

var labelRules = []labelRule{
	{[]string{"Pret"}, func(d *ListingData, v string) { d.StartingPrice = v }},
	{[]string{"Garantie", "Garanție"}, func(d *ListingData, v string) { d.GuaranteeAmount = v }},
	{[]string{"Tip licitatie", "Tip licitație"}, func(d *ListingData, v string) { d.AuctionType = v }},
	{[]string{"Numar oferte", "Număr oferte"}, func(d *ListingData, v string) { d.BidCount = parseBidCount(v) }},
	// "Publicata la" is the closest thing the site has to a start date.
	{[]string{"Publicata la"}, func(d *ListingData, v string) { d.AuctionStartDate = ParseDate(v) }},
	{[]string{"Expira la"}, func(d *ListingData, v string) { d.AuctionEndDate = ParseDate(v) }},
	{[]string{"Termen limita", "Termen limită"}, func(d *ListingData, v string) { d.RegistrationDeadline = ParseDate(v) }},
	{[]string{"Termen vizionare", "Vizionare pana la"}, func(d *ListingData, v string) { d.ViewingDeadline = ParseDate(v) }},
	{[]string{"Loc predare"}, applyLocation},
	{[]string{"Categorie"}, func(d *ListingData, v string) { d.Category = v }},
}

// applyLocation splits "City, County" handover locations; a single part is
// taken as the county. The raw string doubles as the address.
func applyLocation(d *ListingData, v string) {
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) >= 2 {
		d.City = parts[0]
		d.County = parts[1]
	} else if len(parts) == 1 {
		d.County = parts[0]
	}
	d.Address = v
}

// ScrapeDetail fetches and extracts one listing. Only a fetch failure aborts
// the scrape; individual fields are best-effort and stay unset when their
// labels cannot be located.
func (s *DetailScraper) ScrapeDetail(ctx context.Context, url string) (*ListingData, error) {
	log.Printf("Scraping detail page: %s", url)

	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	data := &ListingData{DetailURL: url}

	// Title: primary heading, falling back one level
	title := doc.Find("h1").First()
	if title.Length() == 0 {
		title = doc.Find("h2").First()
	}
	data.Title = strings.TrimSpace(title.Text())

	for _, rule := range labelRules {
		if value, ok := extractByLabel(doc, rule.labels); ok {
			rule.apply(data, value)
		}
	}

	data.CurrentOffer = extractCurrentOffer(doc)

	s.extractContact(doc, data)
	s.applyStatus(doc, data)

	if data.Category == "" {
		data.Category = breadcrumbCategory(doc)
	}

	detail := doc.Find("div.ads-detail").First()
	if detail.Length() > 0 {
		data.Description = truncate(strings.TrimSpace(detail.Text()), maxDescriptionLen)
	}

	data.Images = s.extractImages(doc)
	data.Documents = s.extractDocuments(doc)

	if specs := extractSpecs(detail); len(specs) > 0 {
		block := strings.Join(specs, "\n")
		if data.Description != "" {
			data.Description = block + "\n\n" + data.Description
		} else {
			data.Description = block
		}
	}

	return data, nil
}

// extractByLabel scans the "info name" spans for the first one whose text
// contains any of the candidate labels (case-insensitive) and returns the
// text of the paired "info value" span that follows it.
func extractByLabel(doc *goquery.Document, labels []string) (string, bool) {
	var value string
	var found bool

	doc.Find("span.ad-info-name").EachWithBreak(func(i int, name *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(name.Text()))
		for _, label := range labels {
			if !strings.Contains(text, strings.ToLower(label)) {
				continue
			}
			pair := name.NextAllFiltered("span.ad-info-value").First()
			if pair.Length() > 0 {
				value = strings.TrimSpace(pair.Text())
				found = true
				return false
			}
		}
		return true
	})

	return value, found
}

// extractCurrentOffer reads the sidebar "Oferta actuala" header, whose right
// span carries the running offer.
func extractCurrentOffer(doc *goquery.Document) string {
	var offer string
	doc.Find("h3").EachWithBreak(func(i int, h3 *goquery.Selection) bool {
		if !strings.Contains(h3.Text(), "Oferta actuala") {
			return true
		}
		offer = strings.TrimSpace(h3.Find("span.right").First().Text())
		return false
	})
	return offer
}

// extractContact pulls phone, email and contact person out of the sidebar
// contact block, each located by its icon.
func (s *DetailScraper) extractContact(doc *goquery.Document, data *ListingData) {
	info := doc.Find("div.sidebar-user-info").First()
	if info.Length() == 0 {
		return
	}
	if icon := info.Find("i.fa-phone").First(); icon.Length() > 0 {
		data.ContactPhone = strings.TrimSpace(icon.Parent().Text())
	}
	if icon := info.Find("i.fa-at").First(); icon.Length() > 0 {
		data.ContactEmail = strings.TrimSpace(icon.Parent().Text())
	}
	if icon := info.Find("i.fa-map-marker").First(); icon.Length() > 0 {
		data.ContactPerson = strings.TrimSpace(icon.Parent().Text())
	}
}

// applyStatus runs the ordered status pipeline: base title inference, then
// the countdown widget, then the closing-text override. Later stages win on
// conflicting fields.
func (s *DetailScraper) applyStatus(doc *goquery.Document, data *ListingData) {
	info := inferBaseStatus(data.Title)

	countdown := doc.Find("div.countdown").First()
	if countdown.Length() > 0 {
		info = applyCountdownOverride(info, countdown.HasClass("notstarted"))
		s.applyCountdownDeadline(countdown, data)
	}

	pageText := doc.Text()
	if strings.Contains(pageText, "Licitatie incheiata") || strings.Contains(pageText, "Licitație încheiată") {
		info = applyClosedOverride(info)
	}

	data.Status = info.Status
	data.AuctionStatus = info.AuctionStatus
	data.IsActive = info.IsActive
	data.IsSold = info.IsSold
}

// applyCountdownDeadline extracts the timestamp the countdown counts toward.
// The machine-readable data-expire-date attribute wins and always means the
// registration deadline; the rendered text is a fallback, routed by whether
// it mentions registration.
func (s *DetailScraper) applyCountdownDeadline(countdown *goquery.Selection, data *ListingData) {
	text := strings.TrimSpace(countdown.Text())

	if attr, ok := countdown.Attr("data-expire-date"); ok && attr != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", attr, time.Local); err == nil {
			data.RegistrationDeadline = &t
			return
		}
		log.Printf("Warning: could not parse data-expire-date %q", attr)
		if t := parseCountdown(text, s.now()); t != nil {
			data.RegistrationDeadline = t
		}
		return
	}

	if t := parseCountdown(text, s.now()); t != nil {
		if strings.Contains(strings.ToLower(text), "inregistra") {
			data.RegistrationDeadline = t
		} else {
			data.AuctionEndDate = t
		}
	}
}

// breadcrumbCategory falls back to the second breadcrumb entry, which is the
// category on Home > Category > Listing trails.
func breadcrumbCategory(doc *goquery.Document) string {
	items := doc.Find("ol.breadcrumb li")
	if items.Length() > 1 {
		return strings.TrimSpace(items.Eq(1).Text())
	}
	return ""
}

// extractImages collects gallery image sources, absolutized.
func (s *DetailScraper) extractImages(doc *goquery.Document) []string {
	var images []string
	doc.Find("div.fotorama img").Each(func(i int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && src != "" {
			images = append(images, absoluteURL(s.config.BaseURL, src))
		}
	})
	return images
}

// extractDocuments collects PDF links labelled as downloads.
func (s *DetailScraper) extractDocuments(doc *goquery.Document) []string {
	var documents []string
	doc.Find("a").Each(func(i int, a *goquery.Selection) {
		if !strings.Contains(strings.ToLower(a.Text()), "descarca") {
			return
		}
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		href = absoluteURL(s.config.BaseURL, href)
		if strings.HasSuffix(href, ".pdf") {
			documents = append(documents, href)
		}
	})
	return documents
}

// extractSpecs scans the in-page specification table for rows whose label is
// in the known vocabulary and renders them as "Label: Value" lines.
func extractSpecs(detail *goquery.Selection) []string {
	if detail == nil || detail.Length() == 0 {
		return nil
	}
	table := detail.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	var specs []string
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(j int, td *goquery.Selection) {
			if text := strings.TrimSpace(td.Text()); text != "" {
				cells = append(cells, text)
			}
		})
		if len(cells) < 2 {
			return
		}

		label := strings.ReplaceAll(cells[0], ":", "")
		value := cells[1]
		if knownSpecLabels[label] || label == "Observații" {
			specs = append(specs, label+": "+value)
		}
	})
	return specs
}

// truncate limits s to max runes without splitting a multi-byte character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
