// Package tablefile reads transition tables from YAML.
//
// A definition names the initial state, the miss policy and one row per state:
//
//	initial: locked
//	policy: error        # or "stay"
//	states:
//	  locked:
//	    coin: unlocked
//	    push: locked
//	  unlocked:
//	    coin: unlocked
//	    push: locked
//
// States and inputs are plain strings.
package tablefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/enetx/fsmkit/fsm"
	"github.com/enetx/g"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoInitial     = errors.New("tablefile: initial state is required")
	ErrNoStates      = errors.New("tablefile: at least one state row is required")
	ErrUnknownPolicy = errors.New("tablefile: unknown policy")
)

// Definition is the decoded form of a table file.
type Definition struct {
	Initial string                       `yaml:"initial"`
	Policy  string                       `yaml:"policy,omitempty"`
	States  map[string]map[string]string `yaml:"states"`
}

// Parse decodes and validates a definition.
func Parse(data []byte) (*Definition, error) {
	return Load(bytes.NewReader(data))
}

// Load decodes and validates a definition from r.
func Load(r io.Reader) (*Definition, error) {
	var def Definition

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("tablefile: decode: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// LoadFile reads a definition from path.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tablefile: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Validate checks that the initial state owns a row and the policy is known.
// Transitions may target states without rows; they behave per policy.
func (d *Definition) Validate() error {
	if d.Initial == "" {
		return ErrNoInitial
	}

	if len(d.States) == 0 {
		return ErrNoStates
	}

	if _, ok := d.States[d.Initial]; !ok {
		return fmt.Errorf("tablefile: initial state %q has no row", d.Initial)
	}

	if _, ok := fsm.ParsePolicy(d.Policy); !ok {
		return fmt.Errorf("%w %q", ErrUnknownPolicy, d.Policy)
	}

	return nil
}

// PolicyValue returns the parsed policy. Validate must have passed.
func (d *Definition) PolicyValue() fsm.Policy {
	p, _ := fsm.ParsePolicy(d.Policy)
	return p
}

// Table converts the definition into a transition table.
func (d *Definition) Table() fsm.Table[string, string] {
	table := fsm.NewTable[string, string]()

	for from, row := range d.States {
		if len(row) == 0 {
			table[from] = make(fsm.Row[string, string])
			continue
		}

		for input, to := range row {
			table.Transition(from, input, to)
		}
	}

	return table
}

// Inputs returns every input mentioned by any row, without duplicates.
func (d *Definition) Inputs() g.Slice[string] {
	set := g.NewSet[string]()
	for _, row := range d.States {
		for input := range row {
			set.Insert(input)
		}
	}

	return set.ToSlice()
}

// Build creates a Ready machine from the definition. The definition's policy
// is applied before opts, so an explicit WithPolicy in opts wins.
func (d *Definition) Build(opts ...fsm.Option[string, string]) *fsm.FSM[string, string] {
	opts = append([]fsm.Option[string, string]{fsm.WithPolicy[string, string](d.PolicyValue())}, opts...)
	return fsm.NewFSM(d.Initial, d.Table(), opts...)
}

// Marshal encodes the definition back to YAML.
func (d *Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// FromTable builds a definition from an existing table.
func FromTable(initial string, policy fsm.Policy, table fsm.Table[string, string]) *Definition {
	def := &Definition{
		Initial: initial,
		Policy:  policy.String(),
		States:  make(map[string]map[string]string, len(table)),
	}

	for from, row := range table {
		r := make(map[string]string, len(row))
		for input, to := range row {
			r[input] = to
		}

		def.States[from] = r
	}

	return def
}
