package sites

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"

	"iisempleos/internal/config"
	"iisempleos/internal/scraper"
)

// Feed handles institutes that publish their offers as an RSS/Atom feed.
// Unlike the HTML extractors it is shared: the feed format already carries
// title, link and publication date in one shape.
type Feed struct {
	parser *gofeed.Parser
}

func NewFeed() *Feed { return &Feed{parser: gofeed.NewParser()} }

func (f *Feed) Name() string { return "feed" }

func (f *Feed) Extract(ctx context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	feed, err := f.parser.ParseString(content)
	if err != nil {
		return nil, err
	}

	var postings []scraper.Posting
	for _, item := range feed.Items {
		title := scraper.Clean(item.Title)
		if len(title) < 5 || scraper.IsGrantCall(title) {
			continue
		}
		p := scraper.Posting{
			Site:  site.Name,
			Title: title,
			Link:  strings.TrimSpace(item.Link),
		}
		if item.PublishedParsed != nil {
			opened := item.PublishedParsed.UTC()
			p.OpenedAt = &opened
		}
		postings = append(postings, p)
	}

	return scraper.Dedupe(postings), nil
}
