package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RKleminski/Scrapless/internal/vision"
)

// RequiredRegions lists every screen region the pipeline reads. Missing
// entries fail startup validation; nothing discovers regions at runtime.
var RequiredRegions = []string{
	"lobby/detect",
	"lobby/behemoth",
	"lobby/escalation",
	"lobby/hunt_type",
	"lobby/threat",
	"loot/detect",
	"loot/behemoth",
	"loot/base_drops",
	"loot/bonus_drops",
	"loot/deaths",
	"loot/elite",
	"loot/time",
	"loot/token",
	"loot/trial",
	"bounty/draft",
	"bounty/menu",
	"bounty/value",
	"escalation/summary",
	"escalation/rank",
}

// RequiredTemplates lists every reference image matched against those
// regions, keyed the same way; each maps to <data_dir>/templates/<key>.png.
var RequiredTemplates = []string{
	"lobby/detect",
	"lobby/hunt_type",
	"loot/detect",
	"loot/breaks",
	"loot/chest",
	"loot/elite",
	"loot/token",
	"loot/trial",
	"bounty/draft",
	"bounty/menu",
	"escalation/summary",
}

// Assets holds the loaded, scaled and validated screen geometry. Strictly
// read-only after LoadAssets.
type Assets struct {
	regions   map[string]vision.Region
	templates map[string]*vision.Template
}

// LoadAssets reads regions.json and the template catalog, scales both to
// the runtime resolution and validates completeness. Any failure is a
// fatal startup error: the process must not run partially configured.
func (c *Config) LoadAssets() (*Assets, error) {
	regionPath := filepath.Join(c.DataDir, "regions.json")
	data, err := os.ReadFile(regionPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var raw map[string]vision.Region
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", regionPath, err)
	}

	a := &Assets{
		regions:   make(map[string]vision.Region, len(raw)),
		templates: make(map[string]*vision.Template),
	}

	for _, name := range RequiredRegions {
		ref, ok := raw[name]
		if !ok {
			return nil, fmt.Errorf("config: %s is missing region %q", regionPath, name)
		}
		scaled := ref.Scaled(c.ScaleX, c.ScaleY)
		if err := scaled.Validate(); err != nil {
			return nil, fmt.Errorf("config: region %q: %w", name, err)
		}
		a.regions[name] = scaled
	}

	for _, name := range RequiredTemplates {
		path := filepath.Join(c.DataDir, "templates", filepath.FromSlash(name)+".png")
		tmpl, err := vision.LoadTemplate(name, path, c.ScaleX, c.ScaleY)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.templates[name] = tmpl
	}

	return a, nil
}

// Region returns a validated region by name. Only the names in
// RequiredRegions exist; asking for anything else is a programming error.
func (a *Assets) Region(name string) vision.Region {
	r, ok := a.regions[name]
	if !ok {
		panic(fmt.Sprintf("config: unknown region %q", name))
	}
	return r
}

// Template returns a loaded template by name.
func (a *Assets) Template(name string) *vision.Template {
	t, ok := a.templates[name]
	if !ok {
		panic(fmt.Sprintf("config: unknown template %q", name))
	}
	return t
}

// Close releases every loaded template.
func (a *Assets) Close() {
	for _, t := range a.templates {
		t.Close()
	}
}
