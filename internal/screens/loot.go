package screens

import (
	"strings"

	"github.com/RKleminski/Scrapless/internal/catalog"
	"github.com/RKleminski/Scrapless/internal/config"
	"github.com/RKleminski/Scrapless/internal/normalize"
	"github.com/RKleminski/Scrapless/internal/vision"
)

// Loot reads the post-hunt loot screen: the summary fields, the raw drop
// list lines and the escalation reward token.
type Loot struct {
	ocr TextReader
	cat *catalog.Catalog

	detect    vision.Region
	behemoth  vision.Region
	baseDrops vision.Region
	bonus     vision.Region
	deaths    vision.Region
	elite     vision.Region
	time      vision.Region
	token     vision.Region
	trial     vision.Region

	detectTmpl *vision.Template
	breaksTmpl *vision.Template
	chestTmpl  *vision.Template
	eliteTmpl  *vision.Template
	tokenTmpl  *vision.Template
	trialTmpl  *vision.Template
}

// NewLoot wires the loot reader from validated assets.
func NewLoot(reader TextReader, cat *catalog.Catalog, assets *config.Assets) *Loot {
	return &Loot{
		ocr:        reader,
		cat:        cat,
		detect:     assets.Region("loot/detect"),
		behemoth:   assets.Region("loot/behemoth"),
		baseDrops:  assets.Region("loot/base_drops"),
		bonus:      assets.Region("loot/bonus_drops"),
		deaths:     assets.Region("loot/deaths"),
		elite:      assets.Region("loot/elite"),
		time:       assets.Region("loot/time"),
		token:      assets.Region("loot/token"),
		trial:      assets.Region("loot/trial"),
		detectTmpl: assets.Template("loot/detect"),
		breaksTmpl: assets.Template("loot/breaks"),
		chestTmpl:  assets.Template("loot/chest"),
		eliteTmpl:  assets.Template("loot/elite"),
		tokenTmpl:  assets.Template("loot/token"),
		trialTmpl:  assets.Template("loot/trial"),
	}
}

// lootPrecision is lowered for the loot banner: the region is large and
// noisy and the default threshold misses it.
const lootPrecision = 0.7

// Detect reports whether the loot screen banner is visible.
func (l *Loot) Detect(f *vision.Frame) bool {
	found, _, err := vision.Detect(f, l.detect, l.detectTmpl, lootPrecision)
	return err == nil && found
}

// DetectTrialResult reports whether the trial result banner is visible.
func (l *Loot) DetectTrialResult(f *vision.Frame) bool {
	found, _, err := vision.Detect(f, l.trial, l.trialTmpl, vision.DefaultPrecision)
	return err == nil && found
}

// ReadSummary extracts the loot screen facts other than the drop list.
func (l *Loot) ReadSummary(f *vision.Frame) (LootReading, error) {
	var r LootReading

	raw, err := l.ocr.Read(f, l.behemoth, lootBehemothSpec)
	if err != nil {
		return r, err
	}
	defeat, name := normalize.BehemothName(raw)
	r.Defeat = defeat
	if !defeat {
		r.Behemoth = normalize.FuzzyMatch(name, l.cat.Behemoths(), normalize.MatchCutoff)
	}

	// Small icon on a busy background; anything below 0.95 false-fires.
	found, _, err := vision.Detect(f, l.elite, l.eliteTmpl, 0.95)
	r.Elite = err == nil && found

	raw, err = l.ocr.Read(f, l.deaths, deathsSpec)
	if err != nil {
		return r, err
	}
	r.Deaths = normalize.Deaths(raw)

	raw, err = l.ocr.Read(f, l.time, timeSpec)
	if err != nil {
		return r, err
	}
	r.Time = strings.TrimSpace(raw)

	return r, nil
}

// ReadDropLines OCRs the base and bonus drop regions and returns every
// non-empty text line. When the part-break or patrol-chest marker is
// detected inside a region, the region's bottom edge is pulled up to the
// marker so the unrelated section below it is excluded.
func (l *Loot) ReadDropLines(f *vision.Frame) ([]string, error) {
	base := l.trimAtMarker(f, l.baseDrops, l.breaksTmpl)
	bonus := l.trimAtMarker(f, l.bonus, l.chestTmpl)

	var lines []string
	for _, region := range []vision.Region{base, bonus} {
		raw, err := l.ocr.Read(f, region, dropLinesSpec)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(raw, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines, nil
}

// ReadToken reports the escalation reward token and, when present, the
// stack count rendered next to it.
func (l *Loot) ReadToken(f *vision.Frame) TokenReading {
	found, _, err := vision.Detect(f, l.token, l.tokenTmpl, 0.95)
	if err != nil || !found {
		return TokenReading{}
	}

	count := 1
	if raw, err := l.ocr.Read(f, l.token, tokenCountSpec); err == nil {
		if n := normalize.ToInt(raw, l.cat.Confusion); n > 0 {
			count = n
		}
	}
	return TokenReading{Present: true, Count: count}
}

func (l *Loot) trimAtMarker(f *vision.Frame, r vision.Region, marker *vision.Template) vision.Region {
	found, loc, err := vision.Detect(f, r, marker, vision.DefaultPrecision)
	if err != nil || !found {
		return r
	}
	return r.WithBottom(r.Top + loc.Y)
}
