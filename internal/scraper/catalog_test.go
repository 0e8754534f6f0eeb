package scraper

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/IshaanNene/GuildScrape/internal/assets"
)

const ranksPage = `<html><body>
<img src="/img/site-logo.png" alt="Site">
<div class="ranks-grid">
  <div class="rank-card">
    <img src="/img/gm.png">
    <h3>Grand Marshall</h3>
    <div class="rank-requirement">Reach level 100</div>
  </div>
  <div class="rank-card">
    <h3>Recruit</h3>
    <p>Starting rank</p>
  </div>
  <div class="rank-card"><h3>X</h3></div>
</div>
</body></html>`

func memAssets(t *testing.T, files ...string) *assets.Index {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/public/assets", 0o755); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if err := afero.WriteFile(fs, "/public/assets/"+f, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return assets.NewIndex(fs, assets.Options{Dir: "/public/assets", PublicPrefix: "/assets"}, testLogger)
}

func TestScrapeRanks(t *testing.T) {
	srv := newSite(t, map[string]string{"/ranks": ranksPage})
	s := newTestScraper(t, srv.URL, memAssets(t, "recruit.png", "sergeant.png"))

	ranks, err := s.ScrapeRanks(context.Background())
	if err != nil {
		t.Fatalf("scrape ranks: %v", err)
	}
	if len(ranks) != 2 {
		t.Fatalf("expected 2 ranks (short name dropped), got %d: %+v", len(ranks), ranks)
	}

	gm := ranks[0]
	if gm.ID != "rank-grand-marshall" || gm.Name != "Grand Marshall" {
		t.Errorf("unexpected rank identity: %+v", gm)
	}
	if gm.Image != srv.URL+"/img/gm.png" {
		t.Errorf("image = %q", gm.Image)
	}
	wantReq := "Reach level 100 | EXP Required: 100000000 | Bonus: 30 Free Crate Tickets"
	if gm.Requirements != wantReq {
		t.Errorf("requirements = %q, want %q", gm.Requirements, wantReq)
	}

	recruit := ranks[1]
	if recruit.Image != "/assets/recruit.png" {
		t.Errorf("expected local asset fallback, got %q", recruit.Image)
	}
	if recruit.Description != "Starting rank" || recruit.Requirements != "" {
		t.Errorf("unexpected recruit: %+v", recruit)
	}
}

func TestScrapeRanksSkipsMatchingWrapper(t *testing.T) {
	page := `<html><body><div class="ranks">
<div class="r"><span class="rank-name">Sergeant</span><img src="/s.png"></div>
<div class="r"><span class="rank-name">Corporal</span><img src="/c.png"></div>
</div></body></html>`
	srv := newSite(t, map[string]string{"/ranks": page})
	s := newTestScraper(t, srv.URL, nil)

	ranks, err := s.ScrapeRanks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ranks) != 2 {
		t.Fatalf("expected one record per rank, got %+v", ranks)
	}
	if ranks[0].Name != "Sergeant" || ranks[0].Image != srv.URL+"/s.png" {
		t.Errorf("unexpected first rank: %+v", ranks[0])
	}
	if ranks[1].Name != "Corporal" || ranks[1].Image != srv.URL+"/c.png" {
		t.Errorf("unexpected second rank: %+v", ranks[1])
	}
}

func TestRankRequirementsWithoutMarkup(t *testing.T) {
	s := newTestScraper(t, "https://catalog.test", nil)
	got := s.rankRequirements(catalogEntry{Name: "Grand Marshall"})
	if got != "EXP Required: 100000000 | Bonus: 30 Free Crate Tickets" {
		t.Errorf("requirements = %q", got)
	}
	got = s.rankRequirements(catalogEntry{Name: "Grand Marshall", Description: "Top rank"})
	if !strings.HasPrefix(got, "Top rank | EXP Required") {
		t.Errorf("description should stand in for requirements, got %q", got)
	}
}

func TestScrapeWeaponsCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 1; i <= 120; i++ {
		fmt.Fprintf(&b, `<div class="weapon-card"><h4>Weapon %d</h4><img src="/w/%d.png"></div>`, i, i)
	}
	b.WriteString("</body></html>")

	srv := newSite(t, map[string]string{"/weapons": b.String()})
	s := newTestScraper(t, srv.URL, nil)

	weapons, err := s.ScrapeWeapons(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(weapons) != 100 {
		t.Fatalf("expected cap of 100, got %d", len(weapons))
	}
	if weapons[0].ID != "weapon-weapon-1" || weapons[99].Name != "Weapon 100" {
		t.Errorf("unexpected bounds: %s .. %s", weapons[0].ID, weapons[99].Name)
	}
}

func TestScrapeWeaponsStats(t *testing.T) {
	page := `<html><body>
<div class="weapon">
  <span class="weapon-name">Zeppelin</span>
  <span class="weapon-category">Launcher</span>
  <table>
    <tr><th>Damage</th><td>120</td></tr>
    <tr><th>Fire Rate</th><td>40 rpm</td></tr>
  </table>
</div>
<div class="weapon">
  <span class="weapon-name">Dart</span>
  <div class="stat">Range: Long</div>
</div>
</body></html>`
	srv := newSite(t, map[string]string{"/weapons": page})
	s := newTestScraper(t, srv.URL, nil)

	weapons, err := s.ScrapeWeapons(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(weapons) != 2 {
		t.Fatalf("expected 2 weapons, got %+v", weapons)
	}
	z := weapons[0]
	if z.Name != "Zeppelin" || z.Category != "Launcher" {
		t.Errorf("unexpected weapon: %+v", z)
	}
	if z.Stats["Damage"] != "120" || z.Stats["Fire Rate"] != "40 rpm" {
		t.Errorf("table stats = %v", z.Stats)
	}
	if weapons[1].Stats["Range"] != "Long" {
		t.Errorf("class stats = %v", weapons[1].Stats)
	}
}

func TestScrapeModesImageFallback(t *testing.T) {
	page := `<html><body>
<p><img src="/img/capture-the-flag.png" alt="Capture the Flag"></p>
<p><img src="/img/logo.png" alt="Site"></p>
<p><img src="/img/team_deathmatch.png"></p>
<p><img src="/img/icons/x.png" alt="Menu"></p>
</body></html>`
	srv := newSite(t, map[string]string{"/modes": page})
	s := newTestScraper(t, srv.URL, nil)

	modes, err := s.ScrapeModes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(modes) != 2 {
		t.Fatalf("expected 2 modes from image scan, got %+v", modes)
	}
	if modes[0].ID != "mode-capture-the-flag" || modes[0].Image != srv.URL+"/img/capture-the-flag.png" {
		t.Errorf("unexpected first mode: %+v", modes[0])
	}
	if modes[1].Name != "team deathmatch" {
		t.Errorf("expected filename stem as name, got %q", modes[1].Name)
	}
}

func TestScrapeModesTypeField(t *testing.T) {
	page := `<html><body><ul>
<li class="mode-item"><h2>Siege</h2><span class="mode-type">Objective</span><div class="mode-desc">Hold the keep.</div></li>
</ul></body></html>`
	srv := newSite(t, map[string]string{"/modes": page})
	s := newTestScraper(t, srv.URL, memAssets(t, "siege-mode.webp"))

	modes, err := s.ScrapeModes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(modes) != 1 {
		t.Fatalf("got %+v", modes)
	}
	m := modes[0]
	if m.Type != "Objective" || m.Description != "Hold the keep." || m.Image != "/assets/siege-mode.webp" {
		t.Errorf("unexpected mode: %+v", m)
	}
}
