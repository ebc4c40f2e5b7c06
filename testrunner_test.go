package lens

import (
	"errors"
	"testing"
)

type labelRecorder struct {
	labels []string
}

func (r *labelRecorder) Snapshot(label string) {
	r.labels = append(r.labels, label)
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"invalid json", `{`},
		{"no steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "zoom"}]}`},
		{"unknown filter", `{"steps": [{"action": "filter", "filter": "sepia"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.json)); err == nil {
				t.Error("expected error")
			}
		})
	}
	_, err := LoadScript([]byte(`{"steps": [{"action": "filter", "filter": "sepia"}]}`))
	if !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("err = %v, want ErrUnknownFilter", err)
	}
}

func TestScriptSequencesSteps(t *testing.T) {
	sc, err := LoadScript([]byte(`{"steps": [
		{"action": "filter", "filter": "ripple"},
		{"action": "wait", "frames": 2},
		{"action": "snapshot", "label": "after-wait"},
		{"action": "filter", "filter": "ASCII Art"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	l, _ := startedLoop(t, newFakeSource(), LoopConfig{})
	rec := &labelRecorder{}

	// Tick 1: filter switch, wait starts.
	if err := sc.Step(l, rec); err != nil {
		t.Fatal(err)
	}
	if l.ActiveFilter() != FilterRipple || sc.Done() {
		t.Fatalf("after tick 1: active = %v, done = %v", l.ActiveFilter(), sc.Done())
	}
	// Tick 2: still waiting.
	sc.Step(l, rec)
	if len(rec.labels) != 0 {
		t.Fatalf("snapshot fired early: %v", rec.labels)
	}
	// Tick 3: snapshot and final switch.
	sc.Step(l, rec)
	if len(rec.labels) != 1 || rec.labels[0] != "after-wait" {
		t.Errorf("labels = %v", rec.labels)
	}
	if l.ActiveFilter() != FilterASCII || !sc.Done() {
		t.Errorf("active = %v, done = %v", l.ActiveFilter(), sc.Done())
	}
	// Further steps are no-ops.
	if err := sc.Step(l, rec); err != nil {
		t.Fatal(err)
	}
}

func TestScriptWithoutSnapshotter(t *testing.T) {
	sc, err := LoadScript([]byte(`{"steps": [{"action": "snapshot", "label": "x"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	l, _ := startedLoop(t, newFakeSource(), LoopConfig{})
	if err := sc.Step(l, nil); err != nil {
		t.Fatal(err)
	}
	if !sc.Done() {
		t.Error("script should be done")
	}
}
