package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"iisempleos/internal/config"
	"iisempleos/internal/fetch"
	"iisempleos/internal/ledger"
	"iisempleos/internal/report"
	"iisempleos/internal/runner"
	"iisempleos/internal/scraper/sites"
)

var (
	runNoNotify bool
	runSite     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape all active sites and report new postings",
	RunE:  runAction,
}

func init() {
	runCmd.Flags().BoolVar(&runNoNotify, "no-notify", false, "skip Telegram notifications even when configured")
	runCmd.Flags().StringVar(&runSite, "site", "", "scrape only the named site")
	rootCmd.AddCommand(runCmd)
	// Bare "iisempleos" runs the pipeline too.
	rootCmd.RunE = runAction
}

func runAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if runSite != "" {
		cfg, err = selectSite(cfg, runSite)
		if err != nil {
			return err
		}
	}

	log := newLogger(cfg.LogLevel)

	led, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer func() { _ = led.Close() }()

	timeout := time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	client := fetch.NewClient(timeout)

	var notifier runner.Notifier
	if cfg.Telegram.Token != "" && !runNoNotify {
		tg, err := report.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return fmt.Errorf("create telegram notifier: %w", err)
		}
		notifier = tg
	}

	r := runner.New(cfg, runner.Options{
		Static: client,
		DynamicFactory: func() (runner.DynamicFetcher, error) {
			return fetch.NewRenderer(timeout)
		},
		Extractors: sites.All(client),
		Ledger:     led,
		Console:    report.NewConsole(os.Stdout),
		Notifier:   notifier,
		Logger:     log,
		SitePause:  2 * time.Second,
	})

	summary, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Procesados %d sitios (%d con error), %d ofertas nuevas\n",
		len(summary.Sites), summary.Failed, summary.TotalNew)
	return nil
}

// selectSite narrows the config to a single site, keeping everything else.
func selectSite(cfg *config.Config, name string) (*config.Config, error) {
	for _, s := range cfg.Sites {
		if s.Name == name {
			s.Active = true
			cfg.Sites = []config.Site{s}
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("unknown site %q (see 'iisempleos sites')", name)
}
