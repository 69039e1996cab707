package sites

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/scraper"
)

// Igtp parses the Personio job board at igtp.jobs.personio.com. Personio
// lists positions as links without deadlines, so postings here never carry
// one.
type Igtp struct{}

func NewIgtp() *Igtp { return &Igtp{} }

func (g *Igtp) Name() string { return "igtp" }

// Personio has shipped several list layouts; try the specific ones first.
var igtpSelectors = []string{
	"a.job-list-item",
	".job-item a[href]",
	".position-item a[href]",
	`a[href*="/job/"]`,
	`a[href*="/jobs/"]`,
	`a[href*="/position/"]`,
}

func (g *Igtp) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	var links *goquery.Selection
	for _, sel := range igtpSelectors {
		found := doc.Find(sel)
		if found.Length() > 0 {
			links = found
			break
		}
	}
	if links == nil {
		return nil, nil
	}

	var postings []scraper.Posting
	links.Each(func(_ int, a *goquery.Selection) {
		title := scraper.Clean(a.Find("h1, h2, h3, h4, h5, h6").First().Text())
		if title == "" {
			title = scraper.Clean(a.Text())
		}
		if len(title) < 5 {
			return
		}

		p := scraper.Posting{Site: site.Name, Title: title}
		if href, ok := a.Attr("href"); ok {
			p.Link = scraper.AbsURL(site.URL, href)
		}
		if p.Link == "" {
			return
		}
		postings = append(postings, p)
	})

	return scraper.Dedupe(postings), nil
}
