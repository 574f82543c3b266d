package scraper

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

// Session is one browser tab for the duration of one fetch.
//
// Every DOM read has explicit may-be-absent semantics: Has never errors on
// a missing element, and the other accessors return an error rather than
// panic when the selector matches nothing. All pipeline components consume
// this interface, so they can be exercised against a fake without a
// browser. Close releases the tab and must be called on every exit path.
type Session interface {
	// Navigate loads the URL. Fatal on failure.
	Navigate(url string) error

	// WaitStable blocks until the DOM stops mutating, bounded by timeout.
	WaitStable(timeout time.Duration) error

	// WaitVisible blocks until an element matching selector is visible,
	// bounded by timeout.
	WaitVisible(selector string, timeout time.Duration) error

	// Has reports whether at least one element matches selector.
	Has(selector string) (bool, error)

	// Text returns the trimmed visible text of the first match.
	Text(selector string) (string, error)

	// OuterHTML returns the outer HTML of the first match.
	OuterHTML(selector string) (string, error)

	// Click clicks the first match, bounded by timeout.
	Click(selector string, timeout time.Duration) error

	// Eval runs a JS function in the page and returns its result.
	Eval(js string) (gson.JSON, error)

	// Screenshot writes a full-page capture to path. Diagnostic only.
	Screenshot(path string) error

	// Sleep blocks for d or until the session's context is done.
	Sleep(d time.Duration) error

	// Close releases the underlying tab.
	Close()
}

// rodSession implements Session over a pooled rod page bound to the
// request context.
type rodSession struct {
	page    *rod.Page // context-bound; all operations honour the deadline
	raw     *rod.Page // original reference, used only for release
	router  *rod.HijackRouter
	scraper *Scraper
	ctx     context.Context
}

// newSession borrows a tab from the pool and prepares it for an anti-bot
// protected navigation: the stealth script must be installed before the
// target page loads, and likewise the resource-blocking hijack.
func (s *Scraper) newSession(ctx context.Context) (Session, error) {
	page, err := s.acquirePage()
	if err != nil {
		return nil, err
	}
	s.activePages.Add(1)

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		// Without stealth the challenge will almost certainly reject us,
		// but the navigation itself can still proceed.
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}

	router := mountHijack(page, s.cfg.BlockedResourceTypes)

	return &rodSession{
		page:    page.Context(ctx),
		raw:     page,
		router:  router,
		scraper: s,
		ctx:     ctx,
	}, nil
}

func (r *rodSession) Navigate(url string) error {
	return r.page.Navigate(url)
}

func (r *rodSession) WaitStable(timeout time.Duration) error {
	return r.page.Timeout(timeout).WaitDOMStable(300*time.Millisecond, 0.1)
}

func (r *rodSession) WaitVisible(selector string, timeout time.Duration) error {
	el, err := r.page.Timeout(timeout).Element(selector)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func (r *rodSession) Has(selector string) (bool, error) {
	has, _, err := r.page.Has(selector)
	return has, err
}

func (r *rodSession) Text(selector string) (string, error) {
	el, err := r.page.Element(selector)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (r *rodSession) OuterHTML(selector string) (string, error) {
	el, err := r.page.Element(selector)
	if err != nil {
		return "", err
	}
	return el.HTML()
}

func (r *rodSession) Click(selector string, timeout time.Duration) error {
	el, err := r.page.Timeout(timeout).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (r *rodSession) Eval(js string) (gson.JSON, error) {
	res, err := r.page.Eval(js)
	if err != nil {
		return gson.New(nil), err
	}
	return res.Value, nil
}

func (r *rodSession) Screenshot(path string) error {
	data, err := r.page.Screenshot(true, nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (r *rodSession) Sleep(d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-r.ctx.Done():
		return r.ctx.Err()
	}
}

func (r *rodSession) Close() {
	if r.router != nil {
		if err := r.router.Stop(); err != nil {
			slog.Warn("hijack router stop failed", "error", err)
		}
	}
	r.scraper.activePages.Add(-1)
	// Release via the raw reference so cleanup works even after the
	// request context has expired.
	r.scraper.releasePage(r.raw)
}
