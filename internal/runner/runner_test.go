package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iisempleos/internal/config"
	"iisempleos/internal/ledger"
	"iisempleos/internal/report"
	"iisempleos/internal/scraper"
)

type fakeStatic struct {
	pages map[string]string
	calls []string
}

func (f *fakeStatic) Get(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	page, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("connection refused: %s", url)
	}
	return page, nil
}

type fakeDynamic struct {
	pages   map[string]string
	renders int
	closed  bool
}

func (f *fakeDynamic) Render(_ context.Context, url string) (string, error) {
	f.renders++
	return f.pages[url], nil
}

func (f *fakeDynamic) Close() error {
	f.closed = true
	return nil
}

// fakeExtractor turns each line of the page into a posting titled after it.
type fakeExtractor struct{}

func (fakeExtractor) Name() string { return "fake" }

func (fakeExtractor) Extract(_ context.Context, site config.Site, content string) ([]scraper.Posting, error) {
	if content == "" {
		return nil, nil
	}
	if content == "boom" {
		return nil, fmt.Errorf("unexpected markup")
	}
	var out []scraper.Posting
	for _, title := range []string{content} {
		out = append(out, scraper.Posting{
			Site:  site.Name,
			Title: title,
			Link:  site.URL + "/" + title,
		})
	}
	return out, nil
}

func testConfig(sites ...config.Site) *config.Config {
	return &config.Config{Sites: sites}
}

func staticSite(name, url string) config.Site {
	return config.Site{Name: name, URL: url, Mode: config.ModeStatic, Extractor: "fake", Active: true}
}

func newTestRunner(t *testing.T, cfg *config.Config, static StaticFetcher) (*Runner, ledger.Ledger) {
	t.Helper()
	led, err := ledger.OpenJSON(filepath.Join(t.TempDir(), "seen.json"), 0)
	require.NoError(t, err)
	r := New(cfg, Options{
		Static:     static,
		Extractors: map[string]scraper.Extractor{"fake": fakeExtractor{}},
		Ledger:     led,
		Console:    report.NewConsole(io.Discard),
		Logger:     zerolog.Nop(),
	})
	return r, led
}

func TestRunReportsOnlyUnseenPostings(t *testing.T) {
	static := &fakeStatic{pages: map[string]string{"https://a.example": "oferta-1"}}
	cfg := testConfig(staticSite("A", "https://a.example"))
	r, led := newTestRunner(t, cfg, static)

	first, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalNew)
	assert.Equal(t, 1, led.Len())

	// Same content again: nothing new to report.
	second, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.TotalNew)
	assert.Equal(t, 1, led.Len())
}

func TestRunIsolatesSiteFailures(t *testing.T) {
	static := &fakeStatic{pages: map[string]string{
		"https://a.example": "oferta-a",
		"https://c.example": "oferta-c",
	}}
	cfg := testConfig(
		staticSite("A", "https://a.example"),
		staticSite("B", "https://b.example"), // unreachable
		staticSite("C", "https://c.example"),
	)
	r, _ := newTestRunner(t, cfg, static)

	summary, err := r.Run(context.Background())
	require.NoError(t, err, "a failing site must not fail the run")
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.TotalNew)

	require.Len(t, summary.Sites, 3)
	assert.Empty(t, summary.Sites[0].Err)
	assert.NotEmpty(t, summary.Sites[1].Err)
	assert.Empty(t, summary.Sites[2].Err)
}

func TestRunIsolatesExtractionFailures(t *testing.T) {
	static := &fakeStatic{pages: map[string]string{
		"https://a.example": "boom",
		"https://b.example": "oferta-b",
	}}
	cfg := testConfig(staticSite("A", "https://a.example"), staticSite("B", "https://b.example"))
	r, _ := newTestRunner(t, cfg, static)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.TotalNew)
}

func TestRunSkipsInactiveSites(t *testing.T) {
	static := &fakeStatic{pages: map[string]string{"https://a.example": "oferta-a"}}
	inactive := staticSite("B", "https://b.example")
	inactive.Active = false
	cfg := testConfig(staticSite("A", "https://a.example"), inactive)
	r, _ := newTestRunner(t, cfg, static)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Sites, 1)
	assert.Equal(t, []string{"https://a.example"}, static.calls)
}

func TestRunLaunchesBrowserOnlyForDynamicSites(t *testing.T) {
	dyn := &fakeDynamic{pages: map[string]string{"https://d.example": "oferta-d"}}
	launched := 0

	site := staticSite("D", "https://d.example")
	site.Mode = config.ModeDynamic
	cfg := testConfig(site)

	led, err := ledger.OpenJSON(filepath.Join(t.TempDir(), "seen.json"), 0)
	require.NoError(t, err)
	r := New(cfg, Options{
		Static: &fakeStatic{},
		DynamicFactory: func() (DynamicFetcher, error) {
			launched++
			return dyn, nil
		},
		Extractors: map[string]scraper.Extractor{"fake": fakeExtractor{}},
		Ledger:     led,
		Logger:     zerolog.Nop(),
	})

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalNew)
	assert.Equal(t, 1, launched)
	assert.Equal(t, 1, dyn.renders)
	assert.True(t, dyn.closed, "browser must be closed after the run")
}

func TestRunNoBrowserWhenAllSitesStatic(t *testing.T) {
	static := &fakeStatic{pages: map[string]string{"https://a.example": "oferta-a"}}
	cfg := testConfig(staticSite("A", "https://a.example"))

	led, err := ledger.OpenJSON(filepath.Join(t.TempDir(), "seen.json"), 0)
	require.NoError(t, err)
	r := New(cfg, Options{
		Static: static,
		DynamicFactory: func() (DynamicFetcher, error) {
			t.Fatal("browser launched for a static-only run")
			return nil, nil
		},
		Extractors: map[string]scraper.Extractor{"fake": fakeExtractor{}},
		Ledger:     led,
		Logger:     zerolog.Nop(),
	})

	_, err = r.Run(context.Background())
	require.NoError(t, err)
}

func TestRunUnknownExtractorFailsSiteOnly(t *testing.T) {
	static := &fakeStatic{pages: map[string]string{"https://a.example": "oferta-a"}}
	bad := staticSite("B", "https://b.example")
	bad.Extractor = "missing"
	cfg := testConfig(staticSite("A", "https://a.example"), bad)
	r, _ := newTestRunner(t, cfg, static)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Sites[1].Err, "missing")
}

func TestRunPersistsLedgerAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	static := &fakeStatic{pages: map[string]string{"https://a.example": "oferta-1"}}
	cfg := testConfig(staticSite("A", "https://a.example"))

	open := func() ledger.Ledger {
		led, err := ledger.OpenJSON(path, 0)
		require.NoError(t, err)
		return led
	}

	run := func(led ledger.Ledger) *Summary {
		r := New(cfg, Options{
			Static:     static,
			Extractors: map[string]scraper.Extractor{"fake": fakeExtractor{}},
			Ledger:     led,
			Logger:     zerolog.Nop(),
		})
		summary, err := r.Run(context.Background())
		require.NoError(t, err)
		return summary
	}

	assert.Equal(t, 1, run(open()).TotalNew)
	// A fresh process with the persisted ledger sees nothing new.
	assert.Equal(t, 0, run(open()).TotalNew)
}

func TestRunWritesSummaryFile(t *testing.T) {
	resultsDir := t.TempDir()
	static := &fakeStatic{pages: map[string]string{"https://a.example": "oferta-1"}}
	cfg := testConfig(staticSite("A", "https://a.example"))
	cfg.ResultsDir = resultsDir

	led, err := ledger.OpenJSON(filepath.Join(t.TempDir(), "seen.json"), 0)
	require.NoError(t, err)
	r := New(cfg, Options{
		Static:     static,
		Extractors: map[string]scraper.Extractor{"fake": fakeExtractor{}},
		Ledger:     led,
		Logger:     zerolog.Nop(),
	})

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(resultsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(resultsDir, entries[0].Name()))
	require.NoError(t, err)
	var saved Summary
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.NotEmpty(t, saved.RunID)
	assert.Equal(t, 1, saved.TotalNew)
	assert.WithinDuration(t, time.Now(), saved.FinishedAt, time.Minute)
}
