package screens

import (
	"strings"

	"github.com/RKleminski/Scrapless/internal/config"
	"github.com/RKleminski/Scrapless/internal/vision"
)

// Bounty reads the pre-hunt bounty draft screens.
type Bounty struct {
	ocr TextReader

	draft vision.Region
	menu  vision.Region
	value vision.Region

	draftTmpl *vision.Template
	menuTmpl  *vision.Template
}

// NewBounty wires the bounty reader from validated assets.
func NewBounty(reader TextReader, assets *config.Assets) *Bounty {
	return &Bounty{
		ocr:       reader,
		draft:     assets.Region("bounty/draft"),
		menu:      assets.Region("bounty/menu"),
		value:     assets.Region("bounty/value"),
		draftTmpl: assets.Template("bounty/draft"),
		menuTmpl:  assets.Template("bounty/menu"),
	}
}

// DetectDraft reports whether the bounty draft banner is visible.
func (b *Bounty) DetectDraft(f *vision.Frame) bool {
	found, _, err := vision.Detect(f, b.draft, b.draftTmpl, vision.DefaultPrecision)
	return err == nil && found
}

// DetectMenu reports whether the bounty menu banner is visible, which
// marks the end of a draft.
func (b *Bounty) DetectMenu(f *vision.Frame) bool {
	found, _, err := vision.Detect(f, b.menu, b.menuTmpl, vision.DefaultPrecision)
	return err == nil && found
}

// ReadValue returns the drafted bounty's experience value as rendered,
// eg. "x40". The leading glyph is kept; normalization happens against
// the rarity catalog.
func (b *Bounty) ReadValue(f *vision.Frame) (BountyReading, error) {
	raw, err := b.ocr.Read(f, b.value, bountyValueSpec)
	if err != nil {
		return BountyReading{}, err
	}
	return BountyReading{Value: strings.TrimSpace(raw)}, nil
}
