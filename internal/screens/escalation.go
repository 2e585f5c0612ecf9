package screens

import (
	"strings"

	"github.com/RKleminski/Scrapless/internal/config"
	"github.com/RKleminski/Scrapless/internal/vision"
)

// Escalation reads the escalation summary screen.
type Escalation struct {
	ocr TextReader

	summary vision.Region
	rank    vision.Region

	summaryTmpl *vision.Template
}

// NewEscalation wires the escalation reader from validated assets.
func NewEscalation(reader TextReader, assets *config.Assets) *Escalation {
	return &Escalation{
		ocr:         reader,
		summary:     assets.Region("escalation/summary"),
		rank:        assets.Region("escalation/rank"),
		summaryTmpl: assets.Template("escalation/summary"),
	}
}

// DetectSummary reports whether the escalation summary banner is visible.
func (e *Escalation) DetectSummary(f *vision.Frame) bool {
	found, _, err := vision.Detect(f, e.summary, e.summaryTmpl, vision.DefaultPrecision)
	return err == nil && found
}

// ReadRank returns the run's rank letter, or "-" for a failed run.
func (e *Escalation) ReadRank(f *vision.Frame) (EscalationReading, error) {
	raw, err := e.ocr.Read(f, e.rank, rankSpec)
	if err != nil {
		return EscalationReading{}, err
	}
	return EscalationReading{Rank: strings.TrimSpace(raw)}, nil
}
