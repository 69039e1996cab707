package sites

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
	"iisempleos/internal/fetch"
	"iisempleos/internal/scraper"
)

// Safety cap on detail pages visited per run; the index sometimes links the
// whole archive.
const ibisMaxDetails = 40

// IbisSevilla follows the offer detail links under
// /ofertas-de-empleo-ibis/ on ibis-sevilla.es, skipping navigation anchors
// and the index page itself.
type IbisSevilla struct {
	client *fetch.Client
}

func NewIbisSevilla(client *fetch.Client) *IbisSevilla { return &IbisSevilla{client: client} }

func (s *IbisSevilla) Name() string { return "ibis_sevilla" }

var ibisAnchorWords = []string{"convocatoria", "oferta", "empleo", "plaza"}
var ibisNavWords = []string{"inicio", "contacto", "aviso", "politica", "cookies"}

func (s *IbisSevilla) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		text := dates.Fold(scraper.Clean(a.Text()))
		if text == "" || text == "ofertas de empleo" {
			return
		}
		if !containsAny(text, ibisAnchorWords) || containsAny(text, ibisNavWords) {
			return
		}
		href, _ := a.Attr("href")
		abs := scraper.AbsURL(site.URL, href)
		if !strings.Contains(abs, "/ofertas-de-empleo-ibis/") {
			return
		}
		if isIbisIndex(abs) || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})

	if len(links) > ibisMaxDetails {
		links = links[:ibisMaxDetails]
	}

	var postings []scraper.Posting
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return postings, err
		}
		if p, ok := fetchDetail(ctx, s.client, site, link); ok {
			postings = append(postings, p)
		}
	}

	return scraper.Dedupe(postings), nil
}

func isIbisIndex(url string) bool {
	trimmed := strings.TrimRight(url, "/")
	return strings.HasSuffix(trimmed, "/ofertas-de-empleo-ibis") ||
		strings.HasSuffix(trimmed, "/ofertas-empleo")
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
