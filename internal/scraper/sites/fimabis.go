package sites

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
	"iisempleos/internal/scraper"
)

// Fimabis parses the Fundanet convocatoria tables FIMABIS publishes. The
// listing URL already filters to Estado=A, so every row is an open call.
type Fimabis struct{}

func NewFimabis() *Fimabis { return &Fimabis{} }

func (f *Fimabis) Name() string { return "fimabis" }

func (f *Fimabis) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	var postings []scraper.Posting
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}

		titleCell := cells.First()
		title := scraper.Clean(titleCell.Text())
		if len(title) < 5 || isTableHeading(title) || scraper.IsGrantCall(title) {
			return
		}

		p := scraper.Posting{
			Site:   site.Name,
			Title:  title,
			Status: "Abierta",
		}
		if href, ok := titleCell.Find("a[href]").First().Attr("href"); ok {
			p.Link = scraper.AbsURL(site.URL, href)
		}

		// Row layout: Título | F.Inicio | F.Fin
		if cells.Length() >= 3 {
			if opened, err := dates.Parse(cells.Eq(1).Text()); err == nil {
				p.OpenedAt = &opened
			}
			if deadline, err := dates.Parse(cells.Eq(2).Text()); err == nil {
				if !dates.IsOpen(deadline, time.Now()) {
					return
				}
				p.Deadline = &deadline
			}
		}

		postings = append(postings, p)
	})

	return scraper.Dedupe(postings), nil
}

func isTableHeading(title string) bool {
	folded := dates.Fold(title)
	for _, w := range []string{"titulo", "title", "cabecera", "header", "f.inicio", "f.fin"} {
		if folded == w {
			return true
		}
	}
	return false
}
