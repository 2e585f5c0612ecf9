// Package screens implements one reader per recognized game screen. Each
// reader composes the template detector and the OCR field reader into a
// typed reading; the controller consumes only those readings, never raw
// key-value text.
package screens

// LobbyReading is everything extracted from a hunt lobby.
type LobbyReading struct {
	// Behemoth is the fuzzy-matched name, or "" when no confident match.
	Behemoth string
	// Escalation is the matched escalation lobby name, mutually
	// exclusive with Behemoth.
	Escalation string
	Threat     int
	// HuntType is "Patrol" or "Pursuit", by banner icon.
	HuntType string
}

// LootReading is the summary portion of the loot screen, without the
// drop list itself.
type LootReading struct {
	// Defeat is set when the screen shows the defeat marker instead of a
	// behemoth name.
	Defeat   bool
	Behemoth string
	Elite    bool
	Deaths   int
	// Time is the elapsed hunt time as rendered, eg. "12:34.56".
	Time string
}

// BountyReading is the raw bounty draft value, eg. "x40".
type BountyReading struct {
	Value string
}

// EscalationReading is the rank letter from the escalation summary:
// S/A/B/C/D/E, or "-" for a failed run.
type EscalationReading struct {
	Rank string
}

// TokenReading reports the escalation reward token on the loot screen.
type TokenReading struct {
	Present bool
	Count   int
}
