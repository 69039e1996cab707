// Package report presents new postings to the user: a human-readable console
// block always, and a Telegram message per posting when a bot is configured.
package report

import (
	"fmt"
	"io"

	"iisempleos/internal/dates"
	"iisempleos/internal/scraper"
)

// Console writes postings as plain text blocks.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Posting prints one new posting.
func (c *Console) Posting(p scraper.Posting) error {
	deadline := "sin fecha límite conocida"
	if p.Deadline != nil {
		deadline = "hasta " + dates.Display(*p.Deadline)
	}
	link := p.Link
	if link == "" {
		link = "-"
	}
	_, err := fmt.Fprintf(c.out, "[%s] %s | %s | %s\n", p.Site, p.Title, deadline, link)
	return err
}

// SiteSummary prints the per-site line of the run report.
func (c *Console) SiteSummary(site string, newCount int, failed bool) error {
	status := fmt.Sprintf("%d nuevas", newCount)
	if failed {
		status = "error"
	}
	_, err := fmt.Fprintf(c.out, "%s: %s\n", site, status)
	return err
}
