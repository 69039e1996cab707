package sites

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
	"iisempleos/internal/scraper"
)

// Iisgm parses iisgm.com/ofertas-de-empleo/. Offers are links grouped with
// a status paragraph; only links whose block carries an open status count.
type Iisgm struct{}

func NewIisgm() *Iisgm { return &Iisgm{} }

func (g *Iisgm) Name() string { return "iisgm" }

func (g *Iisgm) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	var postings []scraper.Posting
	doc.Find("div").Each(func(_ int, div *goquery.Selection) {
		status := div.Find(`p[class*="status"]`)
		links := div.Find("a[href]")
		if status.Length() == 0 || links.Length() == 0 {
			return
		}

		links.Each(func(_ int, a *goquery.Selection) {
			if !iisgmLinkOpen(a) {
				return
			}
			title := scraper.Clean(a.Text())
			if len(title) < 5 || scraper.IsGrantCall(title) {
				return
			}
			p := scraper.Posting{Site: site.Name, Title: title, Status: "Abierta"}
			if href, ok := a.Attr("href"); ok {
				p.Link = scraper.AbsURL(site.URL, href)
			}
			if deadline, err := dates.Parse(a.Parent().Text()); err == nil {
				p.Deadline = &deadline
			}
			postings = append(postings, p)
		})
	})

	return scraper.Dedupe(postings), nil
}

// iisgmLinkOpen looks for an "Abierta" status paragraph next to the link:
// in its parent block first, then among direct siblings.
func iisgmLinkOpen(a *goquery.Selection) bool {
	statusText := func(s *goquery.Selection) bool {
		found := false
		s.Find(`p[class*="status"]`).Each(func(_ int, p *goquery.Selection) {
			if scraper.StatusOpen(p.Text()) {
				found = true
			}
		})
		return found
	}

	if parent := a.Parent(); parent.Length() > 0 {
		if statusText(parent) {
			return true
		}
	}
	open := false
	a.Siblings().Each(func(_ int, sib *goquery.Selection) {
		if sib.Is(`p[class*="status"]`) && scraper.StatusOpen(sib.Text()) {
			open = true
		}
	})
	return open
}
