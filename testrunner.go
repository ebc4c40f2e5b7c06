package lens

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a render script.
type scriptStep struct {
	Action string `json:"action"`
	Filter string `json:"filter,omitempty"`
	Label  string `json:"label,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// script is the top-level JSON structure of a render script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences filter switches, waits and snapshots across ticks, for
// scripted headless renders and visual checks. A script looks like:
//
//	{"steps": [
//	  {"action": "filter", "filter": "ripple"},
//	  {"action": "wait", "frames": 30},
//	  {"action": "snapshot", "label": "ripple-30"}
//	]}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses and validates a JSON render script.
func LoadScript(jsonData []byte) (*Script, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse render script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse render script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "filter":
			if _, err := ParseFilterID(st.Filter); err != nil {
				return nil, fmt.Errorf("parse render script: step %d: %w", i, err)
			}
		case "wait", "snapshot":
		default:
			return nil, fmt.Errorf("parse render script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: sc.Steps}, nil
}

// Done reports whether every step has been executed.
func (r *Script) Done() bool {
	return r.done
}

// Step advances the script by one tick. It must be called before the tick
// it affects. snap may be nil, in which case snapshot steps are ignored.
func (r *Script) Step(l *RenderLoop, snap Snapshotter) error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	for r.cursor < len(r.steps) {
		st := r.steps[r.cursor]
		r.cursor++

		switch st.Action {
		case "filter":
			id, err := ParseFilterID(st.Filter)
			if err != nil {
				return err
			}
			if _, err := l.SetActiveFilter(id); err != nil {
				return err
			}
		case "snapshot":
			if snap != nil {
				snap.Snapshot(st.Label)
			}
		case "wait":
			if st.Frames > 0 {
				r.waitCount = st.Frames - 1 // this tick counts as one
				r.finishIfDrained()
				return nil
			}
		}
	}
	r.finishIfDrained()
	return nil
}

func (r *Script) finishIfDrained() {
	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
