package sites

import (
	"context"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
	"iisempleos/internal/fetch"
	"iisempleos/internal/scraper"
)

// Listing pages fetched per run; the board rarely has open offers past the
// first few pages.
const laFeMaxPages = 3

// IisLaFe parses iislafe.es/es/talento/empleo/: offer cards are
// div.empleo-item blocks with an explicit open/closed status span, paginated
// with ?page=N.
type IisLaFe struct {
	client *fetch.Client
}

func NewIisLaFe(client *fetch.Client) *IisLaFe { return &IisLaFe{client: client} }

func (l *IisLaFe) Name() string { return "iis_la_fe" }

var laFeTitleWords = []string{"contratacion", "tecnico", "investigador", "personal"}

func (l *IisLaFe) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	doc, err := scraper.Doc(content)
	if err != nil {
		return nil, err
	}

	maxPages := 1
	doc.Find(".pagination a").Each(func(_ int, a *goquery.Selection) {
		if n, err := strconv.Atoi(scraper.Clean(a.Text())); err == nil && n > maxPages {
			maxPages = n
		}
	})
	if maxPages > laFeMaxPages {
		maxPages = laFeMaxPages
	}

	postings := l.extractPage(site, doc)
	for page := 2; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return postings, err
		}
		html, err := l.client.Get(ctx, fmt.Sprintf("%s?page=%d", site.URL, page))
		if err != nil {
			continue // later pages are best effort
		}
		pageDoc, err := scraper.Doc(html)
		if err != nil {
			continue
		}
		postings = append(postings, l.extractPage(site, pageDoc)...)
	}

	return scraper.Dedupe(postings), nil
}

func (l *IisLaFe) extractPage(site config.Site, doc *goquery.Document) []scraper.Posting {
	var postings []scraper.Posting
	doc.Find("div.empleo-item").Each(func(_ int, item *goquery.Selection) {
		status := item.Find("span.status--open").First()
		if status.Length() == 0 || !scraper.StatusOpen(status.Text()) {
			return
		}

		item.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			title := scraper.Clean(a.Text())
			if !containsAny(dates.Fold(title), laFeTitleWords) {
				return true // inscription and share links, keep looking
			}
			p := scraper.Posting{
				Site:   site.Name,
				Title:  title,
				Status: scraper.Clean(status.Text()),
			}
			if href, ok := a.Attr("href"); ok {
				p.Link = scraper.AbsURL(site.URL, href)
			}
			if deadline, err := dates.Parse(item.Text()); err == nil {
				p.Deadline = &deadline
			}
			postings = append(postings, p)
			return false
		})
	})
	return postings
}
