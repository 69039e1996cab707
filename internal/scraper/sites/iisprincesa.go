package sites

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
	"iisempleos/internal/scraper"
)

// IisPrincesa parses iis-princesa.org: open offers are the PDF download
// links under the "Ofertas Disponibles" heading, up to the next heading.
// The title comes from the surrounding text, falling back to the PDF file
// name.
type IisPrincesa struct{}

func NewIisPrincesa() *IisPrincesa { return &IisPrincesa{} }

func (p *IisPrincesa) Name() string { return "iis_princesa" }

func (p *IisPrincesa) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	var heading *goquery.Selection
	doc.Find("h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(dates.Fold(h.Text()), "disponibles") {
			heading = h
			return false
		}
		return true
	})
	if heading == nil {
		return nil, nil
	}

	var postings []scraper.Posting
	heading.NextUntil("h3").Each(func(_ int, section *goquery.Selection) {
		section.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			if !strings.Contains(dates.Fold(a.Text()), "descargar") {
				return
			}
			href, _ := a.Attr("href")
			link := scraper.AbsURL(site.URL, href)
			if !strings.HasSuffix(strings.ToLower(link), ".pdf") {
				return
			}

			title := princesaTitle(a, link)
			if len(title) < 5 {
				return
			}
			postings = append(postings, scraper.Posting{
				Site:  site.Name,
				Title: title,
				Link:  link,
			})
		})
	})

	return scraper.Dedupe(postings), nil
}

func princesaTitle(a *goquery.Selection, link string) string {
	context := scraper.Clean(a.Parent().Text())
	context = scraper.Clean(strings.ReplaceAll(context, "Descargar oferta", ""))
	context = scraper.Clean(strings.ReplaceAll(context, "Descargar", ""))
	if len(context) > 20 {
		runes := []rune(context)
		if len(runes) > 100 {
			return string(runes[:100]) + "..."
		}
		return context
	}

	// Fall back to the PDF file name.
	name := link[strings.LastIndex(link, "/")+1:]
	name = strings.TrimSuffix(name, ".pdf")
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return scraper.Clean(name)
}
