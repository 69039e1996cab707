package sites

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
	"iisempleos/internal/scraper"
)

// Ciberisciii reads the browser-rendered ciberisciii.es/empleo page. Offers
// sit in three sections (general, tasa de reposición, tasa de
// estabilización), each a table with the layout Área | Convocatoria | Desde
// | Hasta | Estado | Provincia | Categoría | Titulación | Centro | Detalle.
type Ciberisciii struct{}

func NewCiberisciii() *Ciberisciii { return &Ciberisciii{} }

func (c *Ciberisciii) Name() string { return "ciberisciii" }

var ciberSections = []string{
	"#divOfertasEmpleo",
	"#divOfertasEmpleoReposicion",
	"#divOfertasEmpleoEstabilizacion",
}

func (c *Ciberisciii) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	var postings []scraper.Posting
	for _, sel := range ciberSections {
		doc.Find(sel).Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header
			}
			if p, ok := c.parseRow(site, row); ok {
				postings = append(postings, p)
			}
		})
	}

	return scraper.Dedupe(postings), nil
}

func (c *Ciberisciii) parseRow(site config.Site, row *goquery.Selection) (scraper.Posting, bool) {
	cells := row.Find("td")
	if cells.Length() < 10 {
		return scraper.Posting{}, false
	}

	p := scraper.Posting{
		Site:   site.Name,
		Title:  scraper.Clean(cells.Eq(1).Text()),
		Status: scraper.Clean(cells.Eq(4).Text()),
	}
	// Short codes like "UT" are real titles on this board.
	if len(p.Title) < 2 {
		return scraper.Posting{}, false
	}
	if p.Status != "" && !scraper.StatusOpen(p.Status) {
		return scraper.Posting{}, false
	}

	if opened, err := dates.Parse(cells.Eq(2).Text()); err == nil {
		p.OpenedAt = &opened
	}
	if deadline, err := dates.Parse(cells.Eq(3).Text()); err == nil {
		if !dates.IsOpen(deadline, time.Now()) {
			return scraper.Posting{}, false
		}
		p.Deadline = &deadline
	}
	if href, ok := cells.Eq(9).Find("a[href]").First().Attr("href"); ok {
		p.Link = scraper.AbsURL(site.URL, href)
	}
	return p, true
}
