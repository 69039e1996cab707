// Package scraper defines the Posting model, the per-site Extractor contract
// and the HTML helpers the site extractors share.
package scraper

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"iisempleos/internal/config"
	"iisempleos/internal/dates"
)

// Posting is one job offer extracted from an institute's listing page.
// Only Site, Title and Link are required; the rest depends on what the
// markup exposes.
type Posting struct {
	Site      string     `json:"site"`
	Title     string     `json:"title"`
	Link      string     `json:"link,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	OpenedAt  *time.Time `json:"opened_at,omitempty"`
	Reference string     `json:"reference,omitempty"`
	Status    string     `json:"status,omitempty"`
}

// ID returns the stable identifier used by the seen-postings ledger: the
// link when the site publishes one, otherwise a hash of site and title.
func (p Posting) ID() string {
	if link := strings.TrimSpace(p.Link); link != "" {
		return strings.TrimRight(link, "/")
	}
	sum := sha256.Sum256([]byte(p.Site + "\n" + strings.TrimSpace(p.Title)))
	return hex.EncodeToString(sum[:])
}

// Extractor turns fetched page content into candidate postings. Rows it
// cannot parse are skipped, never fatal; a missing deadline stays nil.
type Extractor interface {
	// Extract parses the page content retrieved for site.
	Extract(ctx context.Context, site config.Site, content string) ([]Posting, error)

	// Name is the extractor key referenced from the site config.
	Name() string
}

// Doc parses page content for the goquery-based extractors.
func Doc(content string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}

var spaces = regexp.MustCompile(`\s+`)

// Clean collapses runs of whitespace and trims the result.
func Clean(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// AbsURL resolves href against the page URL, tolerating already-absolute
// links and protocol-relative ones.
func AbsURL(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// StatusOpen reports whether a textual estado means the call is still open.
func StatusOpen(status string) bool {
	folded := dates.Fold(status)
	for _, open := range []string{"abierta", "abierto", "publicada", "vigente", "open"} {
		if strings.Contains(folded, open) {
			return true
		}
	}
	return false
}

// StatusClosed reports whether a textual estado explicitly closes the call.
func StatusClosed(status string) bool {
	folded := dates.Fold(status)
	for _, closed := range []string{"cerrada", "cerrado", "finalizada", "resuelta"} {
		if strings.Contains(folded, closed) {
			return true
		}
	}
	return false
}

var grantWords = []string{
	"ayudas para la intensificacion",
	"intensificacion de la actividad investigadora",
	"convocatoria de ayudas",
	"intensificacion investigadora",
	"becas",
	"subvenciones",
}

// IsGrantCall filters convocatorias that are funding calls rather than job
// offers; several institutes mix both on the same board.
func IsGrantCall(title string) bool {
	folded := dates.Fold(title)
	for _, w := range grantWords {
		if strings.Contains(folded, w) {
			return true
		}
	}
	return false
}

// Dedupe drops postings whose id repeats, keeping first occurrence order.
func Dedupe(postings []Posting) []Posting {
	seen := make(map[string]bool, len(postings))
	unique := make([]Posting, 0, len(postings))
	for _, p := range postings {
		id := p.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, p)
	}
	return unique
}
