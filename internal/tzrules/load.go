package tzrules

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ruleFile is the YAML document shape for a zone rule table.
//
//	zone: Test/Synthetic
//	std_offset: -8h
//	dst_offset: -7h
//	transitions:
//	  - year: 2015
//	    dst_start: 2015-03-08T10:00:00Z
//	    dst_end: 2015-11-01T09:00:00Z
//
// A file with no dst_offset and no transitions describes a fixed-offset
// zone. Transition instants are UTC.
type ruleFile struct {
	Zone        string            `yaml:"zone"`
	StdOffset   string            `yaml:"std_offset"`
	DSTOffset   string            `yaml:"dst_offset,omitempty"`
	Transitions []transitionEntry `yaml:"transitions,omitempty"`
}

type transitionEntry struct {
	Year     int       `yaml:"year"`
	DSTStart time.Time `yaml:"dst_start"`
	DSTEnd   time.Time `yaml:"dst_end"`
}

// Load reads a zone rule table from YAML.
func Load(r io.Reader) (*Rules, error) {
	var rf ruleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, fmt.Errorf("decode zone rules: %w", err)
	}
	return rf.build()
}

// LoadFile reads a zone rule table from a YAML file on disk.
func LoadFile(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open zone rules: %w", err)
	}
	defer f.Close()
	rules, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

func (rf *ruleFile) build() (*Rules, error) {
	if rf.Zone == "" {
		return nil, fmt.Errorf("zone rules: missing zone name")
	}
	std, err := time.ParseDuration(rf.StdOffset)
	if err != nil {
		return nil, fmt.Errorf("zone %s: std_offset: %w", rf.Zone, err)
	}
	if rf.DSTOffset == "" && len(rf.Transitions) == 0 {
		return Fixed(rf.Zone, std), nil
	}
	if rf.DSTOffset == "" || len(rf.Transitions) == 0 {
		return nil, fmt.Errorf("zone %s: dst_offset and transitions must be given together", rf.Zone)
	}
	dst, err := time.ParseDuration(rf.DSTOffset)
	if err != nil {
		return nil, fmt.Errorf("zone %s: dst_offset: %w", rf.Zone, err)
	}
	transitions := make([]Transition, len(rf.Transitions))
	for i, e := range rf.Transitions {
		if e.DSTStart.IsZero() || e.DSTEnd.IsZero() {
			return nil, fmt.Errorf("zone %s: year %d: dst_start and dst_end are required", rf.Zone, e.Year)
		}
		transitions[i] = Transition{
			Year:     e.Year,
			DSTStart: e.DSTStart.UTC(),
			DSTEnd:   e.DSTEnd.UTC(),
		}
	}
	return New(rf.Zone, std, dst, transitions)
}
