package sites

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
	"iisempleos/internal/scraper"
)

// Biobizkaia parses the Fundanet board at gestiononline.bioef.eus. Rows
// carry Título | F.Inicio | F.Fin | Estado, with the detail link anywhere
// in the row.
type Biobizkaia struct{}

func NewBiobizkaia() *Biobizkaia { return &Biobizkaia{} }

func (b *Biobizkaia) Name() string { return "biobizkaia" }

func (b *Biobizkaia) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	var postings []scraper.Posting
	doc.Find("table").First().Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header
		}
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}

		title := scraper.Clean(cells.Eq(0).Text())
		if len(title) < 5 || scraper.IsGrantCall(title) {
			return
		}

		p := scraper.Posting{Site: site.Name, Title: title}
		if cells.Length() > 1 {
			if opened, err := dates.Parse(cells.Eq(1).Text()); err == nil {
				p.OpenedAt = &opened
			}
		}
		if cells.Length() > 2 {
			if deadline, err := dates.Parse(cells.Eq(2).Text()); err == nil {
				if !dates.IsOpen(deadline, time.Now()) {
					return
				}
				p.Deadline = &deadline
			}
		}
		if cells.Length() > 3 {
			p.Status = scraper.Clean(cells.Eq(3).Text())
			if scraper.StatusClosed(p.Status) {
				return
			}
		}
		if href, ok := row.Find("a[href]").First().Attr("href"); ok {
			p.Link = scraper.AbsURL(site.URL, href)
		}

		postings = append(postings, p)
	})

	return scraper.Dedupe(postings), nil
}
