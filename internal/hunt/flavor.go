package hunt

import "math/rand"

// dauntlessThreat is the threat level of the harder trial variant.
const dauntlessThreat = 22

// TrialHypeLine announces a detected trial lobby. The harder variant
// mixes in less encouraging lines, to mess with people.
func TrialHypeLine(rng *rand.Rand, threat int) string {
	name := "Normal Trial"
	lines := []string{
		"You got it, skipper!",
		"Don't even need a silver sword for this one!",
	}
	if threat == dauntlessThreat {
		name = "Dauntless Trial"
		lines = append(lines,
			"May the Gods have mercy upon your soul.",
			"Abandon hope all ye who enter here.",
		)
	}
	return name + " detected. " + lines[rng.Intn(len(lines))]
}

// TrialVictoryLine celebrates a trial win.
func TrialVictoryLine(rng *rand.Rand, threat int) string {
	lines := []string{
		"Executed with impunity!",
		"The bigger the beast, the greater the glory.",
	}
	if threat == dauntlessThreat {
		lines = append(lines, "Battered. Bruised. Victorious.")
	}
	return lines[rng.Intn(len(lines))]
}

// TrialDefeatLine mourns a trial loss.
func TrialDefeatLine(rng *rand.Rand, threat int) string {
	lines := []string{
		"Sometimes the hero dies in the end. Just ask War.",
		"You either die a Recruit, or live long enough to become a Slayer.",
	}
	if threat == dauntlessThreat {
		lines = append(lines,
			"More dust, more ashes, more disappointment.",
			"Y O U   D I E D",
		)
	}
	return lines[rng.Intn(len(lines))]
}
