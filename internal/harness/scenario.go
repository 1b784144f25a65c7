package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// defaultStreamToken keeps golden traces stable when a scenario does not
// pin its own token.
const defaultStreamToken = "test-stream-default"

// Scenario defines a conformance test for the sequencer: a zone, an
// initial civil time, and a sequence of assignment and read steps with
// optional per-step expectations.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden
	// file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Zone is a built-in zone name or a path to a YAML rule file,
	// relative to the scenario file location.
	Zone string `yaml:"zone"`

	// Start is the initial civil time, "2006-01-02 15:04:05". Empty
	// starts at the Unix epoch.
	Start string `yaml:"start,omitempty"`

	// StreamToken is an optional fixed token for deterministic runs.
	StreamToken string `yaml:"stream_token,omitempty"`

	// Steps is the operation sequence.
	Steps []Step `yaml:"steps"`

	// baseDir resolves relative zone paths; set by LoadScenario.
	baseDir string
}

// Step is one streamer operation. Exactly one of the operation fields
// must be set.
type Step struct {
	// Set assigns a full civil date-time, "2006-01-02 15:04:05".
	Set string `yaml:"set,omitempty"`

	// SetDate rewrites the date portion, "2006-01-02".
	SetDate string `yaml:"set_date,omitempty"`

	// SetTime rewrites the time of day, "15:04:05".
	SetTime string `yaml:"set_time,omitempty"`

	// Roll selects the day-roll policy for SetTime: "forward" (default)
	// or "none".
	Roll string `yaml:"roll,omitempty"`

	// Add advances by a Go duration string, e.g. "1ms".
	Add string `yaml:"add,omitempty"`

	// Next performs that many sequenced reads.
	Next int `yaml:"next,omitempty"`

	// Now performs a single non-mutating projection.
	Now bool `yaml:"now,omitempty"`

	// Expect validates the step's outcome. For Next with a count it
	// applies to the final read.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step. All fields are
// optional; only specified fields are validated.
type Expect struct {
	// Instant is the expected UTC instant, RFC 3339.
	Instant string `yaml:"instant,omitempty"`

	// Delta is the expected delta as a Go duration string.
	Delta string `yaml:"delta,omitempty"`

	// DayRolled is the expected day-roll flag.
	DayRolled *bool `yaml:"day_rolled,omitempty"`

	// Error is the expected error code, e.g. NONEXISTENT_LOCAL_TIME.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	sc.baseDir = filepath.Dir(path)
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks structural requirements: a name, a zone, and exactly
// one operation per step.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("missing name")
	}
	if sc.Zone == "" {
		return fmt.Errorf("missing zone")
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("no steps")
	}
	for i, st := range sc.Steps {
		ops := 0
		if st.Set != "" {
			ops++
		}
		if st.SetDate != "" {
			ops++
		}
		if st.SetTime != "" {
			ops++
		}
		if st.Add != "" {
			ops++
		}
		if st.Next > 0 {
			ops++
		}
		if st.Now {
			ops++
		}
		if ops != 1 {
			return fmt.Errorf("step %d: exactly one operation required, got %d", i+1, ops)
		}
		if st.Roll != "" && st.SetTime == "" {
			return fmt.Errorf("step %d: roll is only valid with set_time", i+1)
		}
		if st.Roll != "" && st.Roll != "forward" && st.Roll != "none" {
			return fmt.Errorf("step %d: roll must be %q or %q", i+1, "forward", "none")
		}
	}
	return nil
}

// token returns the stream token for a run of this scenario.
func (sc *Scenario) token() string {
	if sc.StreamToken != "" {
		return sc.StreamToken
	}
	return defaultStreamToken
}
