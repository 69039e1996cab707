package sites

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
	"iisempleos/internal/scraper"
)

// PuertaHierro parses the offer table on investigacionpuertadehierro.com.
// Wide rows are Referencia | Título | Convocatoria | F.Inicio | F.Fin |
// Estado | Resolución; a narrow variant drops the Convocatoria column.
type PuertaHierro struct{}

func NewPuertaHierro() *PuertaHierro { return &PuertaHierro{} }

func (p *PuertaHierro) Name() string { return "puerta_hierro" }

func (p *PuertaHierro) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	var postings []scraper.Posting
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}
		rows.Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header
			}
			if posting, ok := p.parseRow(site, row); ok {
				postings = append(postings, posting)
			}
		})
	})

	return scraper.Dedupe(postings), nil
}

func (p *PuertaHierro) parseRow(site config.Site, row *goquery.Selection) (scraper.Posting, bool) {
	cells := row.Find("td, th")
	if cells.Length() < 5 {
		return scraper.Posting{}, false
	}

	posting := scraper.Posting{
		Site:      site.Name,
		Reference: scraper.Clean(cells.Eq(0).Text()),
		Title:     scraper.Clean(cells.Eq(1).Text()),
	}

	openedIdx, deadlineIdx, statusIdx := 2, 3, 4
	if cells.Length() >= 7 {
		// Wide layout: the Convocatoria column holds the detail link.
		openedIdx, deadlineIdx, statusIdx = 3, 4, 5
		if href, ok := cells.Eq(2).Find("a[href]").First().Attr("href"); ok {
			posting.Link = scraper.AbsURL(site.URL, href)
		}
	}

	if opened, err := dates.Parse(cells.Eq(openedIdx).Text()); err == nil {
		posting.OpenedAt = &opened
	}
	if deadline, err := dates.Parse(cells.Eq(deadlineIdx).Text()); err == nil {
		posting.Deadline = &deadline
	}
	posting.Status = scraper.Clean(cells.Eq(statusIdx).Text())

	if !scraper.StatusOpen(posting.Status) {
		return scraper.Posting{}, false
	}
	if posting.Deadline != nil && !dates.IsOpen(*posting.Deadline, time.Now()) {
		return scraper.Posting{}, false
	}
	if len(posting.Title) < 5 || scraper.IsGrantCall(posting.Title) {
		return scraper.Posting{}, false
	}
	return posting, true
}
