// Package sites holds one extractor per institute. Every board publishes its
// offers with different markup, so there is no shared algorithm here, only
// the shared Posting output shape.
package sites

import (
	"iisempleos/internal/fetch"
	"iisempleos/internal/scraper"
)

// All returns every known extractor keyed by the name used in the site
// config. Extractors that follow detail links get the fetch client.
func All(client *fetch.Client) map[string]scraper.Extractor {
	extractors := []scraper.Extractor{
		NewBiobizkaia(),
		NewCiberisciii(),
		NewFimabis(),
		NewIbisSevilla(client),
		NewIbsal(client),
		NewIgtp(),
		NewIisLaFe(client),
		NewIisPrincesa(),
		NewIisgm(),
		NewImib(),
		NewPuertaHierro(),
		NewFeed(),
	}
	byName := make(map[string]scraper.Extractor, len(extractors))
	for _, e := range extractors {
		byName[e.Name()] = e
	}
	return byName
}
