package loot

import (
	"errors"
	"strings"
	"testing"

	exprand "golang.org/x/exp/rand"

	"github.com/RKleminski/Scrapless/internal/catalog"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return NewEngine(cat, exprand.NewSource(1))
}

func TestSlayRolls(t *testing.T) {
	cases := []struct {
		name     string
		deaths   int
		elite    bool
		tier     string
		behemoth string
		want     int
	}{
		{"no deaths, no elite", 0, false, "Heroic", "Shrowd", 5},
		{"three deaths, elite", 3, true, "Heroic", "Shrowd", 4},
		{"heroic+ elite bug compensation", 0, true, "Heroic+", "Shrowd", 5},
		{"heroic+ elite exempt behemoth", 0, true, "Heroic+", "Torgadoro", 7},
		{"heroic+ without elite", 0, false, "Heroic+", "Shrowd", 5},
	}
	for _, tc := range cases {
		if got := SlayRolls(tc.deaths, tc.elite, tc.tier, tc.behemoth); got != tc.want {
			t.Errorf("%s: SlayRolls = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestOrbCountCorrection(t *testing.T) {
	e := newTestEngine(t)

	// 13 is not divisible by 3: the patrol double-count added 10, so the
	// real stack is 3, one roll of 3.
	rolls, err := e.parseLine("x13 Umbral Orb", "Shrowd")
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if len(rolls) != 1 || rolls[0].Count != 3 {
		t.Fatalf("corrected orb stack: got %d rolls of %v, want 1 roll of 3", len(rolls), rolls)
	}

	// 9 is divisible by 3 and under 10: three clean rolls, no correction.
	rolls, err = e.parseLine("x9 Umbral Orb", "Shrowd")
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if len(rolls) != 3 {
		t.Fatalf("clean orb stack: got %d rolls, want 3", len(rolls))
	}
}

func TestSuspiciousStack(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.parseLine("x10 Shrowd Feather", "Shrowd")
	if !errors.Is(err, ErrSuspiciousStack) {
		t.Fatalf("count 10 on a regular drop should be suspicious, got %v", err)
	}

	rolls, err := e.parseLine("x9 Shrowd Feather", "Shrowd")
	if err != nil {
		t.Fatalf("count 9 should be accepted: %v", err)
	}
	if len(rolls) != 9 {
		t.Fatalf("got %d rolls, want 9", len(rolls))
	}
}

func TestEpicSplitsByTwo(t *testing.T) {
	e := newTestEngine(t)

	rolls, err := e.parseLine("x4 Dark Heart", "Shrowd")
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if len(rolls) != 2 {
		t.Fatalf("epic stack of 4: got %d rolls, want 2", len(rolls))
	}
	for _, r := range rolls {
		if r.Count != 2 || r.Rarity != "Epic" {
			t.Errorf("unexpected roll %+v", r)
		}
	}
}

func TestCellLineReconstruction(t *testing.T) {
	e := newTestEngine(t)

	rolls, err := e.parseLine("x1 +2 Ragehunter Cell", "Shrowd")
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if len(rolls) != 1 {
		t.Fatalf("got %d rolls, want 1", len(rolls))
	}
	if rolls[0].Name != "+2 Ragehunter Cell" || rolls[0].Rarity != "Rare (Cell)" {
		t.Errorf("unexpected cell drop %+v", rolls[0])
	}

	// OCR reads "Cell" as "Call"; the line must still resolve.
	rolls, err = e.parseLine("x1 +1 Ragehunter Call", "Shrowd")
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if len(rolls) != 1 || rolls[0].Rarity != "Uncommon (Cell)" {
		t.Errorf("misread cell line gave %+v", rolls)
	}
}

func TestNoiseLinesIgnored(t *testing.T) {
	e := newTestEngine(t)
	for _, line := range []string{"", "...", "x3", "x2 Zzqqwwxx"} {
		rolls, err := e.parseLine(line, "Shrowd")
		if err != nil {
			t.Fatalf("parseLine(%q): %v", line, err)
		}
		if len(rolls) != 0 {
			t.Errorf("line %q produced rolls %v", line, rolls)
		}
	}
}

func TestReconcileSamplingBound(t *testing.T) {
	e := newTestEngine(t)

	// Far more candidate rows than real rolls.
	lines := []string{
		"x9 Shrowd Feather",
		"x9 Umbral Shard",
		"x9 Shadow Talon",
		"x9 Shrowd Feather",
		"x9 Umbral Shard",
	}
	deaths, elite := 1, false
	slay := SlayRolls(deaths, elite, "Heroic", "Shrowd")

	drops, err := e.Reconcile(lines, "Shrowd", deaths, elite, "Heroic")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(drops) > 2*slay {
		t.Errorf("reconciliation returned %d rolls, bound is %d", len(drops), 2*slay)
	}
	if len(drops) == 0 {
		t.Error("reconciliation returned nothing")
	}
}

func TestReconcileFewCandidates(t *testing.T) {
	e := newTestEngine(t)

	// Fewer candidates than slayRolls: everything available is returned.
	drops, err := e.Reconcile([]string{"x2 Shrowd Feather"}, "Shrowd", 0, false, "Heroic")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(drops) != 2 {
		t.Errorf("got %d rolls, want all 2 candidates", len(drops))
	}
}

func TestReconcileAlwaysIncludesCellsAndDyes(t *testing.T) {
	e := newTestEngine(t)

	lines := []string{
		"x1 +2 Ragehunter Cell",
		"x1 Shrowd Dye",
		"x9 Shrowd Feather",
	}
	drops, err := e.Reconcile(lines, "Shrowd", 0, false, "Heroic")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	var cell, dye bool
	for _, d := range drops {
		if strings.Contains(d.Rarity, "(Cell)") {
			cell = true
		}
		if strings.Contains(d.Rarity, "(Dye)") {
			dye = true
		}
	}
	if !cell || !dye {
		t.Errorf("cell/dye drops missing from %v", drops)
	}
}

func TestReconcileSuspiciousStackAborts(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Reconcile([]string{"x9 Shrowd Feather", "x12 Shadow Talon"},
		"Shrowd", 0, false, "Heroic")
	if !errors.Is(err, ErrSuspiciousStack) {
		t.Fatalf("expected suspicious stack error, got %v", err)
	}
}
