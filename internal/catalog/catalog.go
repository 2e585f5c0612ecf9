// Package catalog holds the static game data the scraper validates its
// readings against: known hunts, tier ranges, drop tables and the OCR
// confusion table. Everything is embedded and read-only after Load.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed data/*.json
var dataFS embed.FS

// TierRange maps an inclusive threat-level range to a named hunt tier.
type TierRange struct {
	Name  string `json:"name"`
	Lower int    `json:"lower"`
	Upper int    `json:"upper"`
}

// Catalog is the full static data set. Immutable after Load; safe to share
// across components without synchronization.
type Catalog struct {
	// Hunts maps a behemoth name to the threat levels it can appear at.
	Hunts map[string][]int
	// Tiers is the ordered list of threat ranges.
	Tiers []TierRange
	// Drops maps behemoth -> item name -> rarity tag.
	Drops map[string]map[string]string
	// Orbs maps orb name -> rarity tag (always contains "Orb").
	Orbs map[string]string
	// Cells is the list of known cell names, without grade or suffix.
	Cells []string
	// BountyRarity maps an on-screen bounty value (eg. "x40") to its tier.
	BountyRarity map[string]string
	// Confusion maps characters Tesseract habitually misreads in digit
	// fields to the digit they stand for.
	Confusion map[string]string

	escalations []string
	behemoths   []string
}

type escalationFile struct {
	Elements []string `json:"elements"`
	Tiers    []string `json:"tiers"`
}

// Load parses every embedded data file and cross-validates them.
// Any error here is a packaging defect and fatal to startup.
func Load() (*Catalog, error) {
	c := &Catalog{}

	if err := readJSON("data/hunts.json", &c.Hunts); err != nil {
		return nil, err
	}
	if err := readJSON("data/tiers.json", &c.Tiers); err != nil {
		return nil, err
	}
	if err := readJSON("data/drops.json", &c.Drops); err != nil {
		return nil, err
	}
	if err := readJSON("data/orbs.json", &c.Orbs); err != nil {
		return nil, err
	}
	if err := readJSON("data/cells.json", &c.Cells); err != nil {
		return nil, err
	}
	if err := readJSON("data/bounty.json", &c.BountyRarity); err != nil {
		return nil, err
	}
	if err := readJSON("data/confusion.json", &c.Confusion); err != nil {
		return nil, err
	}

	var esc escalationFile
	if err := readJSON("data/escalations.json", &esc); err != nil {
		return nil, err
	}
	for _, elem := range esc.Elements {
		for _, tier := range esc.Tiers {
			c.escalations = append(c.escalations, elem+" "+tier)
		}
	}

	for name := range c.Hunts {
		if _, ok := c.Drops[name]; !ok {
			return nil, fmt.Errorf("catalog: behemoth %q has no drop table", name)
		}
		c.behemoths = append(c.behemoths, name)
	}
	sort.Strings(c.behemoths)

	return c, nil
}

func readJSON(path string, v interface{}) error {
	data, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return nil
}

// TierForThreat returns the hunt tier covering the given threat level.
// A threat outside every known range means either garbage OCR or an
// out-of-date tier table, and is reported as an error.
func (c *Catalog) TierForThreat(threat int) (string, error) {
	for _, t := range c.Tiers {
		if threat >= t.Lower && threat <= t.Upper {
			return t.Name, nil
		}
	}
	return "", fmt.Errorf("catalog: no tier covers threat level %d", threat)
}

// IsTrialTier reports whether the named tier is one of the trial variants.
func IsTrialTier(tier string) bool {
	return strings.Contains(tier, "Trial")
}

// ValidHunt reports whether the behemoth is known to spawn at the given
// threat level.
func (c *Catalog) ValidHunt(behemoth string, threat int) bool {
	threats, ok := c.Hunts[behemoth]
	if !ok {
		return false
	}
	for _, t := range threats {
		if t == threat {
			return true
		}
	}
	return false
}

// Behemoths returns the sorted list of known behemoth names.
func (c *Catalog) Behemoths() []string {
	return c.behemoths
}

// Escalations returns every valid escalation lobby name, built as the
// cross product of elements and escalation tiers.
func (c *Catalog) Escalations() []string {
	return c.escalations
}

// DropTable returns the item->rarity table for a behemoth, or nil when the
// behemoth is unknown.
func (c *Catalog) DropTable(behemoth string) map[string]string {
	return c.Drops[behemoth]
}
