package scraper

import (
	"errors"
	"testing"
	"time"

	"github.com/brmiles/awardscout/config"
	"github.com/brmiles/awardscout/models"
)

var pipelineTestCfg = config.ScraperConfig{
	SearchBaseURL:      "https://seats.aero/search",
	DirectBaseURL:      "https://seats.aero",
	NavigationTimeout:  75 * time.Second,
	ChallengeGrace:     20 * time.Second,
	TableWait:          30 * time.Second,
	SortAttemptTimeout: 8 * time.Second,
	SortSettle:         4 * time.Second,
	BookingSettle:      3 * time.Second,
	SnapshotDir:        "/tmp",
}

var pipelineTestQuery = models.FlightQuery{
	Origin:        "GRU",
	Destination:   "JFK",
	DepartureDate: "2024-07-01",
	WindowDays:    7,
}

// sortedTableFixture is the table as the page presents it after a
// successful sort click: the cheapest economy row first.
const sortedTableFixture = `<tbody>
<tr>
	<td>2024-07-03</td>
	<td><button class="open-modal-btn">Ver opções</button></td>
	<td>Smiles</td>
	<td>GRU</td>
	<td>JFK</td>
	<td><span class="badge" data-bs-original-title="Direto">30.000</span></td>
	<td><span class="badge">Indisponível</span></td>
	<td><span class="badge">Indisponível</span></td>
	<td><span class="badge">Indisponível</span></td>
</tr>
<tr>
	<td>2024-07-01</td>
	<td><button class="open-modal-btn">Ver opções</button></td>
	<td>Smiles</td>
	<td>GRU</td>
	<td>JFK</td>
	<td><span class="badge">55.000</span></td>
	<td><span class="badge">Indisponível</span></td>
	<td><span class="badge">110.000</span></td>
	<td><span class="badge">Indisponível</span></td>
</tr>
<tr>
	<td>2024-07-02</td>
	<td><button class="open-modal-btn">Ver opções</button></td>
	<td>AAdvantage</td>
	<td>GRU</td>
	<td>JFK</td>
	<td><span class="badge">80.000</span></td>
	<td><span class="badge">Indisponível</span></td>
	<td><span class="badge">95.000</span></td>
	<td><span class="badge">Indisponível</span></td>
</tr>
</tbody>`

func TestRunPipeline_RecordsPath(t *testing.T) {
	s := &fakeSession{
		html: map[string]string{
			selTableBody:    sortedTableFixture,
			selBookingPanel: bookingPanelFixture,
		},
	}

	result, err := runPipeline(s, pipelineTestCfg, pipelineTestQuery, false)
	if err != nil {
		t.Fatalf("runPipeline returned error: %v", err)
	}
	if result.Message != "" {
		t.Fatalf("unexpected banner message: %q", result.Message)
	}
	if !result.SortApplied {
		t.Error("sort should have applied via the first strategy")
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}

	// The cheapest row (sorted to the top by the page) is index 0 and is
	// the only record carrying booking links.
	top := result.Records[0]
	if top.Economy.Points != "30.000" || top.Date != "2024-07-03" {
		t.Errorf("top-ranked record is not the cheapest row: %+v", top)
	}
	if len(top.BookingLinks) == 0 {
		t.Error("top-ranked record must carry booking links")
	}
	for i, r := range result.Records[1:] {
		if r.BookingLinks != nil {
			t.Errorf("record %d must not carry booking links: %v", i+1, r.BookingLinks)
		}
	}

	// The navigation target is the composed search URL, not the raw input.
	if len(s.navigated) != 1 {
		t.Fatalf("expected exactly one navigation, got %v", s.navigated)
	}
	if want := "https://seats.aero/search?"; len(s.navigated[0]) < len(want) || s.navigated[0][:len(want)] != want {
		t.Errorf("navigated to %q, want search URL", s.navigated[0])
	}
}

func TestRunPipeline_BannerShortCircuits(t *testing.T) {
	s := &fakeSession{
		has:   map[string]bool{selBanner: true},
		texts: map[string]string{selBanner: "Sem disponibilidade para esta rota."},
	}

	result, err := runPipeline(s, pipelineTestCfg, pipelineTestQuery, false)
	if err != nil {
		t.Fatalf("runPipeline returned error: %v", err)
	}
	if result.Message != "Sem disponibilidade para esta rota." {
		t.Errorf("banner text not returned: %q", result.Message)
	}
	if result.Records != nil {
		t.Errorf("no extraction may happen on the banner path, got %v", result.Records)
	}
	if len(s.clicked) != 0 {
		t.Errorf("no sort or booking clicks on the banner path, got %v", s.clicked)
	}
}

func TestRunPipeline_NavigationFailureIsFatal(t *testing.T) {
	s := &fakeSession{navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}

	_, err := runPipeline(s, pipelineTestCfg, pipelineTestQuery, false)
	if err == nil {
		t.Fatal("navigation failure must propagate")
	}
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) || scrapeErr.Code != models.ErrCodeNavigation {
		t.Errorf("expected %s, got %v", models.ErrCodeNavigation, err)
	}
}

func TestRunPipeline_ReadinessTimeoutIsFatal(t *testing.T) {
	s := &fakeSession{stableErr: errors.New("timeout waiting for DOM stable")}

	_, err := runPipeline(s, pipelineTestCfg, pipelineTestQuery, false)
	if err == nil {
		t.Fatal("readiness timeout must propagate")
	}
}

func TestRunPipeline_MissingTableDegrades(t *testing.T) {
	// No banner, no table: the structural wait is non-fatal and the fetch
	// completes with zero records instead of an error.
	s := &fakeSession{
		visibleErrs: map[string]error{selAnyBadgeCell: errors.New("timeout")},
		clickErrs: map[string]error{
			ariaSortSelector: errors.New("selector absent"),
			dataSortSelector: errors.New("selector absent"),
		},
	}

	result, err := runPipeline(s, pipelineTestCfg, pipelineTestQuery, false)
	if err != nil {
		t.Fatalf("missing table must not be fatal: %v", err)
	}
	if len(result.Records) != 0 {
		t.Errorf("expected empty record list, got %v", result.Records)
	}
	if result.SortApplied {
		t.Error("sort cannot apply without a table")
	}
}

func TestRunPipeline_DirectURLNavigatesAsIs(t *testing.T) {
	s := &fakeSession{
		html: map[string]string{selTableBody: directTableFixture, selBookingPanel: bookingPanelFixture},
	}
	q := models.FlightQuery{DirectURL: "https://seats.aero/smiles"}

	result, err := runPipeline(s, pipelineTestCfg, q, false)
	if err != nil {
		t.Fatalf("runPipeline returned error: %v", err)
	}
	if s.navigated[0] != "https://seats.aero/smiles" {
		t.Errorf("direct URL must be used verbatim, navigated to %q", s.navigated[0])
	}
	if len(result.Records) != 1 || result.Records[0].Program != "" {
		t.Errorf("direct layout expected, got %+v", result.Records)
	}
}

func TestRunPipeline_DebugCapturesSnapshot(t *testing.T) {
	s := &fakeSession{
		html: map[string]string{selTableBody: sortedTableFixture},
	}

	if _, err := runPipeline(s, pipelineTestCfg, pipelineTestQuery, true); err != nil {
		t.Fatalf("runPipeline returned error: %v", err)
	}
	if len(s.shots) != 1 {
		t.Errorf("debug fetch should capture one snapshot, got %v", s.shots)
	}

	// Same fetch without debug: identical extraction, no snapshot.
	s2 := &fakeSession{
		html: map[string]string{selTableBody: sortedTableFixture},
	}
	if _, err := runPipeline(s2, pipelineTestCfg, pipelineTestQuery, false); err != nil {
		t.Fatalf("runPipeline returned error: %v", err)
	}
	if len(s2.shots) != 0 {
		t.Errorf("non-debug fetch must not capture snapshots, got %v", s2.shots)
	}
}
