package scraper

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/brmiles/awardscout/config"
)

// sortStrategy is one way to locate and click the economy-cost column
// header. Strategies are tried in order until one succeeds; each failure
// is swallowed and the next tried.
type sortStrategy struct {
	name    string
	attempt func(s Session, l Layout, timeout time.Duration) error
}

// sortStrategies orders the known ways of reaching the sort control, most
// stable first. The site has shipped all three variants at some point.
var sortStrategies = []sortStrategy{
	{
		name: "aria-label-prefix",
		attempt: func(s Session, _ Layout, timeout time.Duration) error {
			return s.Click(`span[aria-label^="Econômica"], span[aria-label^="Economy"]`, timeout)
		},
	},
	{
		name: "data-column-index",
		attempt: func(s Session, l Layout, timeout time.Duration) error {
			return s.Click(fmt.Sprintf(`table thead th[data-column="%d"]`, l.Economy), timeout)
		},
	},
	{
		name: "header-text",
		attempt: func(s Session, _ Layout, _ time.Duration) error {
			res, err := s.Eval(`() => {
				const ths = Array.from(document.querySelectorAll('table thead th'));
				const th = ths.find(t => /econ/i.test(t.innerText));
				if (!th) return false;
				th.click();
				return true;
			}`)
			if err != nil {
				return err
			}
			if !res.Bool() {
				return fmt.Errorf("no header matched economy text")
			}
			return nil
		},
	},
}

// attemptSort asks the page to order the table ascending by economy cost.
// Best-effort: if every strategy fails the fetch proceeds with the page's
// native order, and only the "top-ranked record" convention degrades.
// After a successful click the table needs a settle period to re-render
// before extraction reads it.
func attemptSort(s Session, l Layout, cfg config.ScraperConfig) bool {
	for _, strat := range sortStrategies {
		if err := strat.attempt(s, l, cfg.SortAttemptTimeout); err != nil {
			slog.Debug("sort strategy failed", "strategy", strat.name, "error", err)
			continue
		}
		slog.Debug("sort strategy succeeded", "strategy", strat.name)
		if err := s.Sleep(cfg.SortSettle); err != nil {
			return false
		}
		return true
	}
	slog.Warn("all sort strategies failed, extracting in page order")
	return false
}
