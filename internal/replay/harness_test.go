package replay

import (
	"context"
	"testing"
)

func loadScenarios(t *testing.T) *Fixture {
	t.Helper()
	f, err := LoadFixture("testdata/scenarios.json")
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	return f
}

func TestReplay_MatchesExpectations(t *testing.T) {
	f := loadScenarios(t)
	results, err := Replay(context.Background(), f)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != len(f.Interactions) {
		t.Fatalf("got %d results, want %d", len(results), len(f.Interactions))
	}
	for _, m := range Check(results, f.ExpectedResults) {
		t.Errorf("mismatch %s", m)
	}
}

func TestReplay_ResultDetails(t *testing.T) {
	results, err := Replay(context.Background(), loadScenarios(t))
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}

	clarify := results[0]
	if clarify.Backend != "" || clarify.Result.ClarificationText == "" {
		t.Errorf("clarify turn = %+v", clarify)
	}

	agreement := results[2]
	if agreement.Integrity <= 0.8 || agreement.Backend == "" {
		t.Errorf("agreement turn: integrity %v backend %q", agreement.Integrity, agreement.Backend)
	}

	fallback := results[3]
	if fallback.Integrity != 0.5 || fallback.Backend != "m2" {
		t.Errorf("fallback turn: integrity %v backend %q", fallback.Integrity, fallback.Backend)
	}

	outage := results[4]
	if outage.Err == nil || outage.Disposition != "error" {
		t.Errorf("outage turn = %+v", outage)
	}
}

func TestReplay_SeededHistoryResolves(t *testing.T) {
	results, err := Replay(context.Background(), loadScenarios(t))
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if got := results[1].Result.Resolution; got == nil || !got.Resolvable {
		t.Fatalf("expected resolved context on turn 2, got %+v", got)
	}
}

func TestCheck_ReportsMismatches(t *testing.T) {
	results := []ReplayResult{
		{TurnID: "a", Disposition: "proceed", Reason: "NORMAL_ARCHITECTURAL_DIFFERENCE"},
		{TurnID: "b", Disposition: "clarify", Reason: "LOW_INTEGRITY"},
	}
	expected := []FixtureExpectedResult{
		{TurnID: "a", Disposition: "proceed"},
		{TurnID: "b", Disposition: "clarify", Reason: "EPISTEMIC_AMBIGUITY"},
		{TurnID: "c", Disposition: "proceed"},
	}

	got := Check(results, expected)
	if len(got) != 2 {
		t.Fatalf("expected 2 mismatches, got %v", got)
	}
	if got[0].TurnID != "b" || got[0].Got != "clarify/LOW_INTEGRITY" {
		t.Errorf("mismatch[0] = %+v", got[0])
	}
	if got[1].TurnID != "c" || got[1].Got != "missing" {
		t.Errorf("mismatch[1] = %+v", got[1])
	}
}

func TestSummarize(t *testing.T) {
	results := []ReplayResult{
		{Disposition: "proceed"},
		{Disposition: "proceed_with_note", Fallback: true},
		{Disposition: "proceed_with_note"},
		{Disposition: "clarify"},
		{Disposition: "error"},
	}
	s := Summarize(results)
	want := ReplaySummary{TotalTurns: 5, Proceeds: 1, Notes: 2, Clarifies: 1, Errors: 1, Fallbacks: 1}
	if s != want {
		t.Fatalf("summary = %+v, want %+v", s, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if s := Summarize(nil); s != (ReplaySummary{}) {
		t.Fatalf("summary = %+v", s)
	}
}
