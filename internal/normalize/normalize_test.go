package normalize

import "testing"

var confusion = map[string]string{"O": "0", "I": "1", "S": "5"}

func TestToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{"x13", 13},
		{"O5", 5},
		{"IO", 10},
		{"", 0},
		{"...", 0},
		{" 2 0 ", 20},
	}
	for _, tc := range cases {
		if got := ToInt(tc.in, confusion); got != tc.want {
			t.Errorf("ToInt(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFuzzyMatchExact(t *testing.T) {
	candidates := []string{"Shrowd", "Shrike", "Skarn"}
	// An exact member is returned unchanged regardless of the cutoff.
	if got := FuzzyMatch("Shrike", candidates, 101); got != "Shrike" {
		t.Errorf("exact match returned %q", got)
	}
}

func TestFuzzyMatchThreshold(t *testing.T) {
	candidates := []string{"Shrowd"}
	// One dropped character of six: ratio("Shrwd","Shrowd") = 2*5/11 ~ 91.
	if got := FuzzyMatch("Shrwd", candidates, MatchCutoff); got != "Shrowd" {
		t.Errorf("near match rejected, got %q", got)
	}
	// Garbage scores well under the cutoff and must be rejected.
	if got := FuzzyMatch("Xyzzy", candidates, MatchCutoff); got != "" {
		t.Errorf("garbage accepted as %q", got)
	}
}

func TestFuzzyMatchEmptyCandidates(t *testing.T) {
	if got := FuzzyMatch("anything", nil, MatchCutoff); got != "" {
		t.Errorf("empty candidate list produced %q", got)
	}
}

func TestBehemothName(t *testing.T) {
	cases := []struct {
		in     string
		defeat bool
		name   string
	}{
		{"Shrowd", false, "Shrowd"},
		{"Heroic\nShrowd (Heroic)", false, "Shrowd"},
		{"Defeated", true, "Defeated"},
		{"Defeated Party", true, "Defeated"},
		{"Embermane Patrol", false, "Embermane"},
		{"", false, ""},
	}
	for _, tc := range cases {
		defeat, name := BehemothName(tc.in)
		if defeat != tc.defeat || name != tc.name {
			t.Errorf("BehemothName(%q) = (%v, %q), want (%v, %q)",
				tc.in, defeat, name, tc.defeat, tc.name)
		}
	}
}

func TestDeaths(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"Your party never went down", 0},
		{"Your party went down once", 1},
		{"Your party went down twice", 2},
		{"unreadable garbage", 3},
	}
	for _, tc := range cases {
		if got := Deaths(tc.in); got != tc.want {
			t.Errorf("Deaths(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
