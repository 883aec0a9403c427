package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarianRusoiu99/auction-scraper/internal/db"
)

const detailPageHTML = `<html><body>
<ol class="breadcrumb"><li><a href="/">Acasa</a></li><li><a href="/cat/auto">Autovehicule</a></li><li>Anunt</li></ol>
<h1>Autoturism PORSCHE Cayenne - NEADJUDECAT</h1>
<p><span class="ad-info-name">Pret de pornire:</span> <span class="ad-info-value">1.200,50 lei</span></p>
<p><span class="ad-info-name">Garanție:</span> <span class="ad-info-value">500 lei</span></p>
<p><span class="ad-info-name">Tip licitatie:</span> <span class="ad-info-value">Licitatie publica cu strigare</span></p>
<p><span class="ad-info-name">Numar oferte:</span> <span class="ad-info-value">7 oferte</span></p>
<p><span class="ad-info-name">Publicata la:</span> <span class="ad-info-value">01.11.2025 09:30</span></p>
<p><span class="ad-info-name">Expira la:</span> <span class="ad-info-value">29.11.2025 10:00</span></p>
<p><span class="ad-info-name">Termen limita:</span> <span class="ad-info-value">01.12.2025</span></p>
<p><span class="ad-info-name">Termen vizionare:</span> <span class="ad-info-value">25.11.2025</span></p>
<p><span class="ad-info-name">Loc predare:</span> <span class="ad-info-value">Bragadiru, Ilfov</span></p>
<h3><span class="left">Oferta actuala:</span> <span class="right">1,815.00 lei</span></h3>
<div class="countdown" data-expire-date="2025-11-25 15:00:00">2 zile 3h</div>
<div class="sidebar-user-info">
  <p><i class="fa fa-phone"></i> 0721 000 000</p>
  <p><i class="fa fa-at"></i> office@anabi.just.ro</p>
  <p><i class="fa fa-map-marker"></i> ANABI Bucuresti</p>
</div>
<div class="ads-detail">
  <p>Autoturism second hand, stare buna.</p>
  <table>
    <tr><td>Marca:</td><td>PORSCHE</td></tr>
    <tr><td>Model</td><td>Cayenne</td></tr>
    <tr><td>Serie sasiu</td><td>WP1ZZZ</td></tr>
    <tr><td>Observații</td><td>Zgarieturi minore</td></tr>
  </table>
</div>
<div class="fotorama">
  <img src="/storage/img1.jpg">
  <img src="https://cdn.anabi.example.com/img2.jpg">
</div>
<a href="/docs/caiet-sarcini.pdf">Descarca caietul de sarcini</a>
<a href="/docs/anunt.doc">Descarca anuntul</a>
<a href="/docs/alt.pdf">Detalii</a>
</body></html>`

func newDetailServer(t *testing.T, html string) (*httptest.Server, *DetailScraper) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)

	config := testConfig(server.URL)
	return server, NewDetailScraper(NewFetcher(config), config)
}

func TestScrapeDetailFields(t *testing.T) {
	server, detail := newDetailServer(t, detailPageHTML)

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/123")
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, server.URL+"/ads/123", data.DetailURL)
	assert.Equal(t, "Autoturism PORSCHE Cayenne - NEADJUDECAT", data.Title)

	assert.Equal(t, "1.200,50 lei", data.StartingPrice)
	assert.Equal(t, "1,815.00 lei", data.CurrentOffer)
	assert.Equal(t, "500 lei", data.GuaranteeAmount)
	assert.Equal(t, "Licitatie publica cu strigare", data.AuctionType)
	assert.Equal(t, 7, data.BidCount)

	require.NotNil(t, data.AuctionStartDate)
	assert.Equal(t, time.Date(2025, 11, 1, 9, 30, 0, 0, time.Local), *data.AuctionStartDate)
	require.NotNil(t, data.AuctionEndDate)
	assert.Equal(t, time.Date(2025, 11, 29, 10, 0, 0, 0, time.Local), *data.AuctionEndDate)
	require.NotNil(t, data.ViewingDeadline)
	assert.Equal(t, time.Date(2025, 11, 25, 0, 0, 0, 0, time.Local), *data.ViewingDeadline)

	// The countdown's machine-readable expiry beats the label-based deadline
	require.NotNil(t, data.RegistrationDeadline)
	assert.Equal(t, time.Date(2025, 11, 25, 15, 0, 0, 0, time.Local), *data.RegistrationDeadline)

	assert.Equal(t, "Bragadiru", data.City)
	assert.Equal(t, "Ilfov", data.County)
	assert.Equal(t, "Bragadiru, Ilfov", data.Address)

	assert.Equal(t, "0721 000 000", data.ContactPhone)
	assert.Equal(t, "office@anabi.just.ro", data.ContactEmail)
	assert.Equal(t, "ANABI Bucuresti", data.ContactPerson)

	// No "Categorie" label, so the breadcrumb supplies the category
	assert.Equal(t, "Autovehicule", data.Category)

	assert.Equal(t, db.StatusNotAdjudicated, data.Status)
	assert.Equal(t, db.AuctionActive, data.AuctionStatus)
	assert.True(t, data.IsActive)
	assert.False(t, data.IsSold)
}

func TestScrapeDetailDescriptionAndSpecs(t *testing.T) {
	server, detail := newDetailServer(t, detailPageHTML)

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/123")
	require.NoError(t, err)

	// Known spec rows are prepended to the description, unknown rows dropped
	// from the prepended block (the raw table text still sits in the body)
	assert.True(t, strings.HasPrefix(data.Description,
		"Marca: PORSCHE\nModel: Cayenne\nObservații: Zgarieturi minore\n\n"))
	specsBlock := strings.SplitN(data.Description, "\n\n", 2)[0]
	assert.NotContains(t, specsBlock, "Serie sasiu")
	assert.Contains(t, data.Description, "Autoturism second hand, stare buna.")
}

func TestScrapeDetailMedia(t *testing.T) {
	server, detail := newDetailServer(t, detailPageHTML)

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/123")
	require.NoError(t, err)

	require.Len(t, data.Images, 2)
	assert.Equal(t, server.URL+"/storage/img1.jpg", data.Images[0])
	assert.Equal(t, "https://cdn.anabi.example.com/img2.jpg", data.Images[1])

	// Only "Descarca" links ending in .pdf count as documents
	require.Len(t, data.Documents, 1)
	assert.Equal(t, server.URL+"/docs/caiet-sarcini.pdf", data.Documents[0])
}

func TestScrapeDetailDeterministic(t *testing.T) {
	server, detail := newDetailServer(t, detailPageHTML)

	first, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/123")
	require.NoError(t, err)
	second, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/123")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScrapeDetailFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	config := testConfig(server.URL)
	detail := NewDetailScraper(NewFetcher(config), config)

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/gone")
	assert.Error(t, err)
	assert.Nil(t, data)
}

func TestScrapeDetailSparsePage(t *testing.T) {
	server, detail := newDetailServer(t, `<html><body><h2>Teren intravilan</h2></body></html>`)

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/9")
	require.NoError(t, err)

	// Heading fallback plus base status; every optional field stays unset
	assert.Equal(t, "Teren intravilan", data.Title)
	assert.Equal(t, db.StatusActive, data.Status)
	assert.Empty(t, data.AuctionStatus)
	assert.True(t, data.IsActive)
	assert.False(t, data.IsSold)
	assert.Empty(t, data.StartingPrice)
	assert.Nil(t, data.AuctionEndDate)
	assert.Zero(t, data.BidCount)
	assert.Empty(t, data.Images)
	assert.Empty(t, data.Documents)
}

func TestScrapeDetailCountdownTextFallback(t *testing.T) {
	html := `<html><body>
<h1>Autoturism DACIA</h1>
<div class="countdown">2 zile 3h 15m</div>
</body></html>`
	server, detail := newDetailServer(t, html)

	now := time.Date(2025, 11, 20, 12, 0, 0, 0, time.Local)
	detail.now = func() time.Time { return now }

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/5")
	require.NoError(t, err)

	// No registration wording, so the countdown feeds the end date
	require.NotNil(t, data.AuctionEndDate)
	assert.Equal(t, now.Add(51*time.Hour+15*time.Minute), *data.AuctionEndDate)
	assert.Nil(t, data.RegistrationDeadline)
	assert.Equal(t, db.AuctionActive, data.AuctionStatus)
}

func TestScrapeDetailCountdownRegistrationWording(t *testing.T) {
	html := `<html><body>
<h1>Autoturism DACIA</h1>
<div class="countdown">Inregistrare: 1 zi 2h</div>
</body></html>`
	server, detail := newDetailServer(t, html)

	now := time.Date(2025, 11, 20, 12, 0, 0, 0, time.Local)
	detail.now = func() time.Time { return now }

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/5")
	require.NoError(t, err)

	require.NotNil(t, data.RegistrationDeadline)
	assert.Equal(t, now.Add(26*time.Hour), *data.RegistrationDeadline)
	assert.Nil(t, data.AuctionEndDate)
}

func TestScrapeDetailNotStartedCountdown(t *testing.T) {
	html := `<html><body>
<h1>Apartament 3 camere</h1>
<div class="countdown notstarted" data-expire-date="2025-12-01 10:00:00"></div>
</body></html>`
	server, detail := newDetailServer(t, html)

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/7")
	require.NoError(t, err)

	assert.Equal(t, db.AuctionNotStarted, data.AuctionStatus)
	assert.False(t, data.IsActive)
	require.NotNil(t, data.RegistrationDeadline)
}

func TestScrapeDetailClosedText(t *testing.T) {
	html := `<html><body>
<h1>Autoturism BMW</h1>
<p>Licitatie incheiata</p>
</body></html>`
	server, detail := newDetailServer(t, html)

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/8")
	require.NoError(t, err)

	assert.Equal(t, db.AuctionClosed, data.AuctionStatus)
	assert.False(t, data.IsActive)
	assert.False(t, data.IsSold)
}

// A closed auction whose title carries the adjudicated marker stays sold.
func TestScrapeDetailClosedAdjudicatedStaysSold(t *testing.T) {
	html := `<html><body>
<h1>Autoturism BMW - ADJUDECAT</h1>
<p>Licitație încheiată</p>
</body></html>`
	server, detail := newDetailServer(t, html)

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/8")
	require.NoError(t, err)

	assert.Equal(t, db.StatusAdjudicated, data.Status)
	assert.Equal(t, db.AuctionClosed, data.AuctionStatus)
	assert.True(t, data.IsSold)
	assert.False(t, data.IsActive)
}

func TestScrapeDetailCategoryLabelWins(t *testing.T) {
	html := `<html><body>
<ol class="breadcrumb"><li>Acasa</li><li>Diverse</li></ol>
<h1>Generator electric</h1>
<p><span class="ad-info-name">Categorie:</span> <span class="ad-info-value">Echipamente</span></p>
</body></html>`
	server, detail := newDetailServer(t, html)

	data, err := detail.ScrapeDetail(context.Background(), server.URL+"/ads/2")
	require.NoError(t, err)
	assert.Equal(t, "Echipamente", data.Category)
}
