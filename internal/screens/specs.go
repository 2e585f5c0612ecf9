package screens

import (
	"github.com/otiai10/gosseract/v2"

	"github.com/RKleminski/Scrapless/internal/ocr"
)

// Per-field recognition parameters, tuned against the game's UI. The
// heavy upscaling is deliberate: most of these fields render well below
// the glyph height Tesseract needs.
var (
	threatSpec = ocr.Spec{
		Threshold: 236, SpeckleSize: 1, ScaleX: 4, ScaleY: 5,
		Border: 10, BorderShrink: 5, Invert: true,
		PSM: gosseract.PSM_RAW_LINE, Whitelist: "0123456789",
	}

	lobbyBehemothSpec = ocr.Spec{
		Threshold: 110, ScaleX: 6, ScaleY: 7,
		Border: 20, BorderShrink: 5, Invert: true,
		PSM: gosseract.PSM_SINGLE_BLOCK,
	}

	escalationNameSpec = ocr.Spec{
		Threshold: 110, SpeckleSize: 1, ScaleX: 6, ScaleY: 7,
		Border: 20, BorderShrink: 5, Invert: true,
		PSM: gosseract.PSM_SPARSE_TEXT,
	}

	lootBehemothSpec = ocr.Spec{
		Threshold: 100, ScaleX: 6, ScaleY: 7,
		Border: 20, BorderShrink: 5, Invert: true,
		PSM: gosseract.PSM_SINGLE_BLOCK,
	}

	deathsSpec = ocr.Spec{
		Threshold: 150, SpeckleSize: 1, ScaleX: 1, ScaleY: 1,
		Border: 10, BorderShrink: 5, Invert: true,
		PSM: gosseract.PSM_RAW_LINE,
	}

	timeSpec = ocr.Spec{
		Threshold: 150, SpeckleSize: 1, ScaleX: 4, ScaleY: 5,
		Border: 20, BorderShrink: 5, Invert: true,
		PSM: gosseract.PSM_RAW_LINE, Whitelist: "0123456789:.",
	}

	dropLinesSpec = ocr.Spec{
		Threshold: 120, SpeckleSize: 1, ScaleX: 4, ScaleY: 5,
		Border: 10, BorderShrink: 5, Invert: true,
		PSM: gosseract.PSM_SPARSE_TEXT,
	}

	bountyValueSpec = ocr.Spec{
		Threshold: 175, ScaleX: 2, ScaleY: 2,
		Border: 5, BorderShrink: 5, Invert: true,
		PSM: gosseract.PSM_RAW_LINE, Whitelist: "x0123456789",
	}

	rankSpec = ocr.Spec{
		Threshold: 150, SpeckleSize: 1, ScaleX: 6, ScaleY: 7,
		Border: 10, BorderShrink: 5, Invert: true,
		PSM: gosseract.PSM_SINGLE_CHAR, Whitelist: "SABCDE-",
	}

	tokenCountSpec = ocr.Spec{
		Threshold: 150, SpeckleSize: 1, ScaleX: 4, ScaleY: 5,
		Border: 10, BorderShrink: 5, Invert: true,
		PSM: gosseract.PSM_RAW_LINE, Whitelist: "x0123456789",
	}
)
