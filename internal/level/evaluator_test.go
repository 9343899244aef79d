package level

import "testing"

func rules() []Rule {
	return []Rule{
		{Level: 2, Threshold: 15, Active: true},
		{Level: 3, Threshold: 50, Active: true},
		{Level: 4, Threshold: 120, Active: true},
		{Level: 5, Threshold: 300, Active: false}, // inactive, must never apply
	}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name    string
		score   float64
		current int
		want    int
		up      bool
	}{
		{"below first threshold", 10, 1, 1, false},
		{"exact threshold", 15, 1, 2, true},
		{"single step", 20, 1, 2, true},
		{"multi level jump", 130, 1, 4, true},
		{"inactive rule ignored", 1000, 1, 4, true},
		{"already at level", 20, 2, 2, false},
		{"never decreases", 10, 3, 3, false},
	}

	for _, tc := range cases {
		got := Evaluate(tc.score, tc.current, rules())
		if got.NewLevel != tc.want || got.LeveledUp != tc.up {
			t.Fatalf("%s: Evaluate(%v,%d) = %+v; want level=%d up=%v",
				tc.name, tc.score, tc.current, got, tc.want, tc.up)
		}
	}
}

func TestEvaluateUnchangedScoreIsStable(t *testing.T) {
	first := Evaluate(60, 1, rules())
	if !first.LeveledUp || first.NewLevel != 3 {
		t.Fatalf("first evaluation = %+v", first)
	}

	// re-running with the committed level and the same score is a no-op
	second := Evaluate(60, first.NewLevel, rules())
	if second.LeveledUp || second.NewLevel != first.NewLevel {
		t.Fatalf("second evaluation = %+v; want stable level %d", second, first.NewLevel)
	}
}

func TestEvaluateNoRules(t *testing.T) {
	got := Evaluate(999, 1, nil)
	if got.LeveledUp || got.NewLevel != 1 {
		t.Fatalf("Evaluate with no rules = %+v", got)
	}
}
