package screens

import (
	"github.com/RKleminski/Scrapless/internal/catalog"
	"github.com/RKleminski/Scrapless/internal/config"
	"github.com/RKleminski/Scrapless/internal/normalize"
	"github.com/RKleminski/Scrapless/internal/ocr"
	"github.com/RKleminski/Scrapless/internal/vision"
)

// TextReader is the OCR surface the screen readers depend on.
type TextReader interface {
	Read(f *vision.Frame, r vision.Region, spec ocr.Spec) (string, error)
}

// Lobby reads the hunt lobby screen.
type Lobby struct {
	ocr TextReader
	cat *catalog.Catalog

	detect     vision.Region
	behemoth   vision.Region
	escalation vision.Region
	huntType   vision.Region
	threat     vision.Region

	detectTmpl   *vision.Template
	huntTypeTmpl *vision.Template
}

// NewLobby wires the lobby reader from validated assets.
func NewLobby(reader TextReader, cat *catalog.Catalog, assets *config.Assets) *Lobby {
	return &Lobby{
		ocr:          reader,
		cat:          cat,
		detect:       assets.Region("lobby/detect"),
		behemoth:     assets.Region("lobby/behemoth"),
		escalation:   assets.Region("lobby/escalation"),
		huntType:     assets.Region("lobby/hunt_type"),
		threat:       assets.Region("lobby/threat"),
		detectTmpl:   assets.Template("lobby/detect"),
		huntTypeTmpl: assets.Template("lobby/hunt_type"),
	}
}

// Detect reports whether the lobby banner is on screen.
func (l *Lobby) Detect(f *vision.Frame) bool {
	found, _, err := vision.Detect(f, l.detect, l.detectTmpl, vision.DefaultPrecision)
	return err == nil && found
}

// Read extracts the lobby facts. Behemoth and escalation are mutually
// exclusive: the escalation sub-region is only consulted when no
// behemoth name matched.
func (l *Lobby) Read(f *vision.Frame) (LobbyReading, error) {
	var r LobbyReading

	raw, err := l.ocr.Read(f, l.behemoth, lobbyBehemothSpec)
	if err != nil {
		return r, err
	}
	_, name := normalize.BehemothName(raw)
	r.Behemoth = normalize.FuzzyMatch(name, l.cat.Behemoths(), normalize.MatchCutoff)

	if r.Behemoth == "" {
		raw, err := l.ocr.Read(f, l.escalation, escalationNameSpec)
		if err != nil {
			return r, err
		}
		r.Escalation = normalize.FuzzyMatch(raw, l.cat.Escalations(), normalize.MatchCutoff)
	}

	raw, err = l.ocr.Read(f, l.threat, threatSpec)
	if err != nil {
		return r, err
	}
	r.Threat = normalize.ToInt(raw, l.cat.Confusion)

	r.HuntType = "Pursuit"
	if found, _, err := vision.Detect(f, l.huntType, l.huntTypeTmpl, vision.DefaultPrecision); err == nil && found {
		r.HuntType = "Patrol"
	}

	return r, nil
}
