package replay

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixture(t *testing.T) {
	f, err := LoadFixture("testdata/scenarios.json")
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(f.Config.Backends) != 3 || f.Config.DefaultBackend != "m2" {
		t.Fatalf("config = %+v", f.Config)
	}
	if len(f.Interactions) != 5 || len(f.ExpectedResults) != 5 {
		t.Fatalf("got %d interactions, %d expectations", len(f.Interactions), len(f.ExpectedResults))
	}
	seed := f.Sessions["replay-react"]
	if len(seed) != 1 || seed[0].UserText != "react error" || seed[0].Timestamp.IsZero() {
		t.Fatalf("seed history = %+v", seed)
	}
	m2 := f.Interactions[3].Outcomes["m2"]
	if len(m2) != 2 || m2[0].Err != "timeout" || m2[1].Text == "" {
		t.Fatalf("fallback outcomes = %+v", m2)
	}
}

func TestLoadFixture_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFixture(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0o644)
	if _, err := LoadFixture(bad); err == nil {
		t.Fatal("expected parse error")
	}

	empty := filepath.Join(dir, "empty.json")
	os.WriteFile(empty, []byte(`{"config": {}}`), 0o644)
	if _, err := LoadFixture(empty); err == nil {
		t.Fatal("expected error for fixture without backends")
	}
}

func TestToGateConfig(t *testing.T) {
	fc := FixtureConfig{Thresholds: FixtureThresholds{Proceed: 0.9}}
	g := fc.ToGateConfig()
	if g.ProceedThreshold != 0.9 {
		t.Errorf("proceed = %v, want 0.9", g.ProceedThreshold)
	}
	if g.NoteThreshold != 0.5 {
		t.Errorf("note = %v, want default 0.5", g.NoteThreshold)
	}
}

func TestToInteraction_DefaultSession(t *testing.T) {
	fi := FixtureInteraction{TurnID: "x", Input: "hi", Mode: "daemon"}
	in := fi.ToInteraction("main")
	if in.SessionID != "main" || in.Symbolic.Mode != "daemon" {
		t.Fatalf("interaction = %+v", in)
	}

	fi.SessionID = "other"
	if got := fi.ToInteraction("main").SessionID; got != "other" {
		t.Fatalf("session = %q, want other", got)
	}
}
