package core

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StateOrder is the declared allowed progression of state labels. Each state
// gets a zero-based rank in declaration order; states absent from the order
// are unknown and carry no rank. Immutable after construction.
type StateOrder struct {
	states []string
	ranks  map[string]int
}

// NewStateOrder builds a StateOrder from an ordered list of distinct state
// labels. An empty list or a duplicate label is a configuration error.
func NewStateOrder(states []string) (*StateOrder, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("allowed-order definition produced no valid states")
	}
	ranks := make(map[string]int, len(states))
	for idx, state := range states {
		if _, dup := ranks[state]; dup {
			return nil, fmt.Errorf("duplicate state %q in allowed-order definition", state)
		}
		ranks[state] = idx
	}
	return &StateOrder{states: states, ranks: ranks}, nil
}

// ParseOrder parses an "A>B>C" specification into a StateOrder. Blank
// segments are ignored, so "A >B> C" and "A>B>C" are equivalent.
func ParseOrder(spec string) (*StateOrder, error) {
	var states []string
	for _, part := range strings.Split(spec, ">") {
		if s := strings.TrimSpace(part); s != "" {
			states = append(states, s)
		}
	}
	return NewStateOrder(states)
}

// orderFile is the YAML shape of an allowed-order definition file.
type orderFile struct {
	States []string `yaml:"states"`
}

// LoadOrderFile reads a StateOrder from a YAML file of the form:
//
//	states:
//	  - NEW
//	  - RUNNING
//	  - DONE
func LoadOrderFile(path string) (*StateOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read order file: %w", err)
	}
	var def orderFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse order file %s: %w", path, err)
	}
	trimmed := make([]string, 0, len(def.States))
	for _, s := range def.States {
		if s = strings.TrimSpace(s); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	return NewStateOrder(trimmed)
}

// Rank returns the zero-based rank of a state and whether the state is part
// of the allowed order.
func (o *StateOrder) Rank(state string) (int, bool) {
	rank, ok := o.ranks[state]
	return rank, ok
}

// Len returns the number of states in the order.
func (o *StateOrder) Len() int {
	return len(o.states)
}

// States returns a copy of the ordered state labels.
func (o *StateOrder) States() []string {
	out := make([]string, len(o.states))
	copy(out, o.states)
	return out
}

// Between returns the states with ranks strictly between lo and hi, in
// allowed-order sequence. Used to name the missing states of a skip.
func (o *StateOrder) Between(lo, hi int) []string {
	if lo+1 >= hi {
		return nil
	}
	out := make([]string, hi-lo-1)
	copy(out, o.states[lo+1:hi])
	return out
}
