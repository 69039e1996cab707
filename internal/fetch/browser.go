package fetch

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"

	"iisempleos/internal/config"
)

// Renderer loads pages in headless Chromium and returns the DOM after
// client-side scripts have run. The browser lives for the whole run; each
// Render call gets its own context and page so no state leaks between sites.
type Renderer struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	timeout time.Duration
}

func NewRenderer(timeout time.Duration) (*Renderer, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return nil, err
	}
	return &Renderer{pw: pw, browser: browser, timeout: timeout}, nil
}

// Render navigates to url, waits for the network to go idle plus a short
// settle delay, and returns the rendered HTML.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	bctx, err := r.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return "", &Error{URL: url, Mode: config.ModeDynamic, Err: err}
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
	if err != nil {
		return "", &Error{URL: url, Mode: config.ModeDynamic, Err: err}
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(r.timeout.Milliseconds())),
	}); err != nil {
		return "", &Error{URL: url, Mode: config.ModeDynamic, Err: err}
	}

	// JSF and similar stacks keep repainting after networkidle.
	page.WaitForTimeout(1500)

	if err := ctx.Err(); err != nil {
		return "", &Error{URL: url, Mode: config.ModeDynamic, Err: err}
	}

	html, err := page.Content()
	if err != nil {
		return "", &Error{URL: url, Mode: config.ModeDynamic, Err: err}
	}
	return html, nil
}

func (r *Renderer) Close() error {
	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			return err
		}
	}
	if r.pw != nil {
		return r.pw.Stop()
	}
	return nil
}
