// Package runner drives one scrape run: fetch and extract each active site
// in config order, diff the postings against the seen ledger, report the new
// ones, and persist the ledger once at the end.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"iisempleos/internal/config"
	"iisempleos/internal/ledger"
	"iisempleos/internal/report"
	"iisempleos/internal/scraper"
)

// StaticFetcher fetches a page with a plain HTTP GET. Feed-mode sites use it
// too, since a feed is just another URL.
type StaticFetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// DynamicFetcher renders a page in a headless browser.
type DynamicFetcher interface {
	Render(ctx context.Context, url string) (string, error)
	Close() error
}

// Notifier pushes new postings somewhere the user will see them between runs.
type Notifier interface {
	SendPosting(p scraper.Posting) error
	SendStatus(message string) error
}

// SiteResult is the outcome for one site in one run.
type SiteResult struct {
	Site string            `json:"site"`
	New  []scraper.Posting `json:"new_postings"`
	Err  string            `json:"error,omitempty"`
}

// Summary describes a whole run.
type Summary struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Sites      []SiteResult `json:"sites"`
	TotalNew   int          `json:"total_new"`
	Failed     int          `json:"failed_sites"`
}

type Options struct {
	Static StaticFetcher
	// DynamicFactory builds the browser renderer on first use, so runs
	// with no active dynamic site never launch a browser.
	DynamicFactory func() (DynamicFetcher, error)
	Extractors     map[string]scraper.Extractor
	Ledger         ledger.Ledger
	Console        *report.Console
	Notifier       Notifier // nil disables notifications
	Logger         zerolog.Logger
	// SitePause separates site fetches to stay polite; zero disables it.
	SitePause time.Duration
}

type Runner struct {
	cfg  *config.Config
	opts Options
}

func New(cfg *config.Config, opts Options) *Runner {
	return &Runner{cfg: cfg, opts: opts}
}

// Run processes every active site. Site failures are logged and isolated;
// the returned error is non-nil only for run-fatal conditions (ledger
// persist failure).
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	log := r.opts.Logger
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log.Info().Str("run_id", summary.RunID).Msg("starting run")

	var dynamic DynamicFetcher
	defer func() {
		if dynamic != nil {
			if err := dynamic.Close(); err != nil {
				log.Warn().Err(err).Msg("closing browser")
			}
		}
	}()

	sites := r.cfg.ActiveSites()
	for i, site := range sites {
		if i > 0 && r.opts.SitePause > 0 {
			time.Sleep(r.opts.SitePause)
		}

		slog := log.With().Str("site", site.Name).Logger()
		result := SiteResult{Site: site.Name}

		newPostings, err := r.processSite(ctx, site, &dynamic)
		if err != nil {
			slog.Error().Err(err).Msg("site failed, continuing with next")
			result.Err = err.Error()
			summary.Failed++
		} else {
			result.New = newPostings
			summary.TotalNew += len(newPostings)
			slog.Info().Int("new", len(newPostings)).Msg("site processed")
		}
		if r.opts.Console != nil {
			_ = r.opts.Console.SiteSummary(site.Name, len(result.New), result.Err != "")
		}
		summary.Sites = append(summary.Sites, result)
	}

	// Persisting the ledger is the one step that must not fail silently:
	// losing it would re-report every posting on the next run.
	if err := r.opts.Ledger.Persist(); err != nil {
		return summary, fmt.Errorf("persist ledger: %w", err)
	}

	summary.FinishedAt = time.Now()
	r.writeSummary(summary)
	r.notifyStatus(summary)
	log.Info().
		Str("run_id", summary.RunID).
		Int("sites", len(sites)).
		Int("failed", summary.Failed).
		Int("new_postings", summary.TotalNew).
		Msg("run finished")
	return summary, nil
}

func (r *Runner) processSite(ctx context.Context, site config.Site, dynamic *DynamicFetcher) ([]scraper.Posting, error) {
	extractor, ok := r.opts.Extractors[site.Extractor]
	if !ok {
		return nil, fmt.Errorf("unknown extractor %q", site.Extractor)
	}

	content, err := r.fetch(ctx, site, dynamic)
	if err != nil {
		return nil, err
	}

	postings, err := extractor.Extract(ctx, site, content)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	now := time.Now()
	var fresh []scraper.Posting
	for _, p := range scraper.Dedupe(postings) {
		id := p.ID()
		if r.opts.Ledger.Contains(id) {
			continue
		}
		fresh = append(fresh, p)
		r.opts.Ledger.Add(id, now)

		if r.opts.Console != nil {
			_ = r.opts.Console.Posting(p)
		}
		if r.opts.Notifier != nil {
			if err := r.opts.Notifier.SendPosting(p); err != nil {
				r.opts.Logger.Warn().Err(err).Str("site", site.Name).Msg("notification failed")
			}
			// Pace sends so the bot API does not answer 429.
			time.Sleep(time.Second)
		}
	}
	return fresh, nil
}

func (r *Runner) fetch(ctx context.Context, site config.Site, dynamic *DynamicFetcher) (string, error) {
	switch site.Mode {
	case config.ModeDynamic:
		if *dynamic == nil {
			if r.opts.DynamicFactory == nil {
				return "", fmt.Errorf("dynamic fetch not available")
			}
			d, err := r.opts.DynamicFactory()
			if err != nil {
				return "", fmt.Errorf("start browser: %w", err)
			}
			*dynamic = d
		}
		return (*dynamic).Render(ctx, site.URL)
	default: // static and feed
		return r.opts.Static.Get(ctx, site.URL)
	}
}

// writeSummary drops a JSON record of the run under the configured results
// dir. Best effort: a failed write never fails the run.
func (r *Runner) writeSummary(s *Summary) {
	if r.cfg.ResultsDir == "" {
		return
	}
	if err := os.MkdirAll(r.cfg.ResultsDir, 0755); err != nil {
		r.opts.Logger.Warn().Err(err).Msg("create results dir")
		return
	}
	path := filepath.Join(r.cfg.ResultsDir, fmt.Sprintf("run_%s.json", s.StartedAt.Format("20060102_150405")))
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		r.opts.Logger.Warn().Err(err).Msg("marshal run summary")
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		r.opts.Logger.Warn().Err(err).Msg("write run summary")
		return
	}
	r.opts.Logger.Info().Str("path", path).Msg("run summary saved")
}

func (r *Runner) notifyStatus(s *Summary) {
	if r.opts.Notifier == nil || s.TotalNew == 0 {
		return
	}
	msg := fmt.Sprintf("Encontradas %d ofertas nuevas (%d sitios con error).", s.TotalNew, s.Failed)
	if err := r.opts.Notifier.SendStatus(msg); err != nil {
		r.opts.Logger.Warn().Err(err).Msg("status notification failed")
	}
}
