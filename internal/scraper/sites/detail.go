package sites

import (
	"context"
	"time"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
	"iisempleos/internal/fetch"
	"iisempleos/internal/scraper"
)

// fetchDetail follows a listing link to its detail page and builds a posting
// from it: headline selectors for the title, the earliest and latest dates in
// the text for the window, and open/closed keywords for the status. Used by
// the WordPress-style boards (IBSAL, IBIS Sevilla) whose listing pages carry
// links only.
func fetchDetail(ctx context.Context, client *fetch.Client, site config.Site, url string) (scraper.Posting, bool) {
	html, err := client.Get(ctx, url)
	if err != nil {
		return scraper.Posting{}, false
	}
	doc, err := scraper.Doc(html)
	if err != nil {
		return scraper.Posting{}, false
	}

	p := scraper.Posting{Site: site.Name, Link: url}

	for _, sel := range []string{"h1", ".entry-title", "h2", ".title"} {
		if title := scraper.Clean(doc.Find(sel).First().Text()); title != "" {
			p.Title = title
			break
		}
	}
	text := scraper.Clean(doc.Find("body").Text())
	if p.Title == "" {
		if text == "" {
			return scraper.Posting{}, false
		}
		runes := []rune(text)
		if len(runes) > 120 {
			runes = runes[:120]
		}
		p.Title = string(runes)
	}

	if found := dates.ExtractAll(text); len(found) > 0 {
		earliest, latest := found[0], found[0]
		for _, d := range found[1:] {
			if d.Before(earliest) {
				earliest = d
			}
			if d.After(latest) {
				latest = d
			}
		}
		p.OpenedAt = &earliest
		p.Deadline = &latest
	}

	if scraper.StatusOpen(text) {
		p.Status = "Abierta"
	} else if scraper.StatusClosed(text) {
		return scraper.Posting{}, false
	}

	if p.Deadline != nil && !dates.IsOpen(*p.Deadline, time.Now()) {
		return scraper.Posting{}, false
	}
	if len(p.Title) < 5 {
		return scraper.Posting{}, false
	}
	return p, true
}
