package sites

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
	"iisempleos/internal/scraper"
)

// Imib reads the browser-rendered PrimeFaces table on
// imib.es/rrhh/ofertasDeEmpleo.jsf: first cell holds the offer link, the
// second the application window text.
type Imib struct{}

func NewImib() *Imib { return &Imib{} }

func (m *Imib) Name() string { return "imib" }

func (m *Imib) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	var postings []scraper.Posting
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		link := cells.Eq(0).Find("a[href]").First()
		title := scraper.Clean(link.Text())
		if title == "" {
			title = scraper.Clean(cells.Eq(0).Text())
		}
		if len(title) < 5 {
			return
		}

		p := scraper.Posting{Site: site.Name, Title: title}
		if href, ok := link.Attr("href"); ok {
			p.Link = scraper.AbsURL(site.URL, href)
		}

		// The window column mixes prose with one or two dates; the latest
		// one is the deadline.
		if found := dates.ExtractAll(cells.Eq(1).Text()); len(found) > 0 {
			deadline := found[0]
			for _, d := range found[1:] {
				if d.After(deadline) {
					deadline = d
				}
			}
			if !dates.IsOpen(deadline, time.Now()) {
				return
			}
			p.Deadline = &deadline
		}

		postings = append(postings, p)
	})

	return scraper.Dedupe(postings), nil
}
