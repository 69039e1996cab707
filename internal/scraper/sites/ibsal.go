package sites

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/fetch"
	"iisempleos/internal/scraper"
)

// Ibsal walks the WordPress listing at ibsal.es. Offers live behind
// /convocatorias/ref-* detail pages, so each candidate link is followed and
// parsed there.
type Ibsal struct {
	client *fetch.Client
}

func NewIbsal(client *fetch.Client) *Ibsal { return &Ibsal{client: client} }

func (b *Ibsal) Name() string { return "ibsal" }

func (b *Ibsal) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if scraper.Clean(a.Text()) == "" {
			return
		}
		href, _ := a.Attr("href")
		abs := scraper.AbsURL(site.URL, href)
		if !strings.Contains(abs, "/convocatorias/ref-") || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})

	var postings []scraper.Posting
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return postings, err
		}
		if p, ok := fetchDetail(ctx, b.client, site, link); ok {
			postings = append(postings, p)
		}
	}

	return scraper.Dedupe(postings), nil
}
