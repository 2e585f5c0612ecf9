// Package loot reconstructs a bounded, representative drop sample from the
// loot screen's unreliable rendered list. The displayed rows routinely
// over-count the rolls the game actually performed; the true roll count is
// a computable function of deaths, elite pass and tier, so the engine
// samples the parsed rows down to it.
package loot

import (
	"errors"
	"fmt"
	"strings"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/RKleminski/Scrapless/internal/catalog"
	"github.com/RKleminski/Scrapless/internal/normalize"
)

// ErrSuspiciousStack signals a non-orb line with a stack size legitimate
// rolls never reach. It indicates corrupt OCR, not a transient misread,
// so the encounter is abandoned rather than retried.
var ErrSuspiciousStack = errors.New("loot: suspiciously big stack")

// topTier is the highest non-trial tier; a display bug there inflates
// elite drops by two rolls.
const topTier = "Heroic+"

// bugExempt names the behemoths whose Heroic+ loot screens do not show
// the inflated elite rows.
var bugExempt = map[string]bool{
	"Torgadoro": true,
	"Malkarion": true,
}

// Drop is one reconstructed loot roll ready for submission.
type Drop struct {
	Name   string
	Rarity string
	Count  int
}

// always reports whether a rarity tag marks a drop that cannot come from
// ordinary slay rolls. Such drops bypass sampling entirely.
func always(rarity string) bool {
	return strings.Contains(rarity, "(Dye)") || strings.Contains(rarity, "(Cell)")
}

func isOrb(rarity string) bool {
	return strings.Contains(rarity, "Orb")
}

// Engine reconciles raw OCR drop lines against the static catalog.
type Engine struct {
	cat *catalog.Catalog
	src exprand.Source
}

// NewEngine creates a reconciliation engine drawing samples from src.
func NewEngine(cat *catalog.Catalog, src exprand.Source) *Engine {
	return &Engine{cat: cat, src: src}
}

// SlayRolls computes the number of loot rolls the game performed for a
// hunt: a base of two, one per death avoided, and two more on an elite
// pass. On the top tier the loot screen doubles the elite bonus rows for
// all but two behemoths, so those two rolls are taken back out.
func SlayRolls(deaths int, elite bool, tier, behemoth string) int {
	rolls := 2 + (3 - deaths)
	if elite {
		rolls += 2
	}
	if tier == topTier && elite && !bugExempt[behemoth] {
		rolls -= 2
	}
	return rolls
}

// Reconcile parses every raw drop line, classifies it, corrects known
// display bugs and samples the result down to the expected roll count.
// Cell and dye drops are always included; everything else is sampled
// uniformly without replacement.
func (e *Engine) Reconcile(lines []string, behemoth string, deaths int, elite bool, tier string) ([]Drop, error) {
	slayRolls := SlayRolls(deaths, elite, tier, behemoth)

	var included, candidates []Drop
	for _, line := range lines {
		rolls, err := e.parseLine(line, behemoth)
		if err != nil {
			return nil, err
		}
		for _, d := range rolls {
			if always(d.Rarity) {
				included = append(included, d)
			} else {
				candidates = append(candidates, d)
			}
		}
	}

	target := slayRolls - len(included)
	if len(candidates) >= 2*slayRolls {
		target = 2*slayRolls - len(included)
	}
	if target > len(candidates) {
		target = len(candidates)
	}
	if target <= 0 {
		return included, nil
	}

	idxs := make([]int, target)
	sampleuv.WithoutReplacement(idxs, len(candidates), e.src)
	for _, i := range idxs {
		included = append(included, candidates[i])
	}
	return included, nil
}

// parseLine turns one OCR text line into zero or more individual rolls.
// Lines with no letters are rendering noise and yield nothing, as do
// lines whose name matches neither the behemoth's table, the orb list nor
// the cell list.
func (e *Engine) parseLine(line, behemoth string) ([]Drop, error) {
	if !strings.ContainsFunc(line, isLetter) {
		return nil, nil
	}

	countToken, name, found := strings.Cut(strings.TrimSpace(line), " ")
	if !found {
		return nil, nil
	}

	var resolved Drop
	// "Call" is Tesseract's favourite misreading of "Cell".
	if strings.Contains(name, "Cell") || strings.Contains(name, "Call") {
		resolved = e.resolveCell(name)
	} else {
		resolved = e.resolveDrop(name, behemoth)
	}
	if resolved.Name == "" {
		return nil, nil
	}

	// The count token renders as "x<digits>"; drop the marker before the
	// confusion table and digit parse.
	if len(countToken) > 0 {
		countToken = countToken[1:]
	}
	lineCount := normalize.ToInt(countToken, e.cat.Confusion)

	return splitRolls(resolved, lineCount, line)
}

// splitRolls converts a displayed stack into individual rolls. Orbs drop
// three per roll and pick up a spurious +10 on patrol bonus rows; epics
// drop two per roll; everything else one. A non-orb stack of ten or more
// cannot be legitimate.
func splitRolls(d Drop, lineCount int, rawLine string) ([]Drop, error) {
	perRoll := 1
	switch {
	case isOrb(d.Rarity):
		perRoll = 3
	case d.Rarity == "Epic":
		perRoll = 2
	}

	if lineCount >= 10 {
		if !isOrb(d.Rarity) {
			return nil, fmt.Errorf("%w: %q read as %d", ErrSuspiciousStack, rawLine, lineCount)
		}
		if lineCount%3 != 0 {
			lineCount -= 10
		}
	}

	d.Count = perRoll
	rolls := make([]Drop, 0, lineCount/perRoll)
	for i := 0; i < lineCount/perRoll; i++ {
		rolls = append(rolls, d)
	}
	return rolls, nil
}

// resolveDrop fuzzy-matches a name against the behemoth's drop table,
// then against the universal orb list.
func (e *Engine) resolveDrop(name, behemoth string) Drop {
	table := e.cat.DropTable(behemoth)
	if match := normalize.FuzzyMatch(name, keys(table), normalize.MatchCutoff); match != "" {
		return Drop{Name: match, Rarity: table[match]}
	}
	if match := normalize.FuzzyMatch(name, keys(e.cat.Orbs), normalize.MatchCutoff); match != "" {
		return Drop{Name: match, Rarity: e.cat.Orbs[match]}
	}
	return Drop{}
}

// resolveCell reconstructs a cell drop from its rendered form
// "+<grade> <name> Cell". The inner name is fuzzy-matched; the grade
// decides the rarity.
func (e *Engine) resolveCell(name string) Drop {
	grade, rest, found := strings.Cut(name, " ")
	if !found {
		return Drop{}
	}

	words := strings.Fields(rest)
	if len(words) < 2 {
		return Drop{}
	}
	inner := strings.Join(words[:len(words)-1], " ")

	match := normalize.FuzzyMatch(inner, e.cat.Cells, normalize.MatchCutoff)
	if match == "" {
		return Drop{}
	}

	rarity := "Uncommon (Cell)"
	if grade == "+2" {
		rarity = "Rare (Cell)"
	}
	return Drop{Name: fmt.Sprintf("%s %s Cell", grade, match), Rarity: rarity}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
