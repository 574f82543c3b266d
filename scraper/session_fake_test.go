package scraper

import (
	"fmt"
	"time"

	"github.com/ysmood/gson"
)

// fakeSession is an in-memory Session for exercising pipeline components
// without a browser. Lookups are driven by the maps; absent keys behave
// like absent elements.
type fakeSession struct {
	has         map[string]bool
	texts       map[string]string
	html        map[string]string
	clickErrs   map[string]error
	navErr      error
	stableErr   error
	visibleErrs map[string]error
	evalFn      func(js string) (gson.JSON, error)

	navigated []string
	clicked   []string
	slept     []time.Duration
	shots     []string
	closed    bool
}

func (f *fakeSession) Navigate(url string) error {
	f.navigated = append(f.navigated, url)
	return f.navErr
}

func (f *fakeSession) WaitStable(time.Duration) error {
	return f.stableErr
}

func (f *fakeSession) WaitVisible(selector string, _ time.Duration) error {
	if err, ok := f.visibleErrs[selector]; ok {
		return err
	}
	return nil
}

func (f *fakeSession) Has(selector string) (bool, error) {
	return f.has[selector], nil
}

func (f *fakeSession) Text(selector string) (string, error) {
	if t, ok := f.texts[selector]; ok {
		return t, nil
	}
	return "", fmt.Errorf("no element matches %q", selector)
}

func (f *fakeSession) OuterHTML(selector string) (string, error) {
	if h, ok := f.html[selector]; ok {
		return h, nil
	}
	return "", fmt.Errorf("no element matches %q", selector)
}

func (f *fakeSession) Click(selector string, _ time.Duration) error {
	f.clicked = append(f.clicked, selector)
	if err, ok := f.clickErrs[selector]; ok {
		return err
	}
	return nil
}

func (f *fakeSession) Eval(js string) (gson.JSON, error) {
	if f.evalFn != nil {
		return f.evalFn(js)
	}
	return gson.New(false), nil
}

func (f *fakeSession) Screenshot(path string) error {
	f.shots = append(f.shots, path)
	return nil
}

func (f *fakeSession) Sleep(d time.Duration) error {
	f.slept = append(f.slept, d)
	return nil
}

func (f *fakeSession) Close() {
	f.closed = true
}
