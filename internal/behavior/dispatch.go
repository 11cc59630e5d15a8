package behavior

import (
	"errors"
	"os"
	"slices"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"satchel/internal/vecmath"
)

// Dispatcher resolves behavior IDs to definitions. It holds no mutable state
// after construction and may be shared between games.
type Dispatcher struct {
	defs map[string]Definition
}

type behaviorFile struct {
	Behaviors []Definition `yaml:"behaviors"`
}

// Load parses the behaviors section of an item YAML document.
func Load(data []byte) (*Dispatcher, error) {
	var f behaviorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		if errors.Is(err, ErrInvalidBehavior) {
			return nil, err
		}
		return nil, oops.In("behavior").Code(CodeInvalidBehavior).
			Wrapf(errors.Join(ErrInvalidBehavior, err), "parse behaviors")
	}
	return New(f.Behaviors...)
}

// LoadFile reads and parses a behavior YAML file.
func LoadFile(path string) (*Dispatcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.In("behavior").With("path", path).Wrapf(err, "read behavior file")
	}
	return Load(data)
}

// New builds a dispatcher from explicit definitions.
func New(defs ...Definition) (*Dispatcher, error) {
	errb := oops.In("behavior").Code(CodeInvalidBehavior)

	d := &Dispatcher{defs: make(map[string]Definition, len(defs))}
	for i, def := range defs {
		if def.ID == "" {
			return nil, errb.With("index", i).Wrapf(ErrInvalidBehavior, "behavior %d has no id", i)
		}
		if _, dup := d.defs[def.ID]; dup {
			return nil, errb.With("behavior_id", def.ID).Wrapf(ErrInvalidBehavior, "duplicate behavior %q", def.ID)
		}
		if def.Kind >= kindCount {
			return nil, errb.With("behavior_id", def.ID).Wrapf(ErrInvalidBehavior, "behavior %q has kind %s", def.ID, def.Kind)
		}
		d.defs[def.ID] = def
	}
	return d, nil
}

// Lookup returns the definition for id.
func (d *Dispatcher) Lookup(id string) (Definition, error) {
	def, ok := d.defs[id]
	if !ok {
		return Definition{}, oops.
			In("behavior").
			Code(CodeUnknownBehavior).
			With("behavior_id", id).
			Wrapf(ErrUnknownBehavior, "behavior %q is not registered", id)
	}
	return def, nil
}

// Has reports whether id is registered.
func (d *Dispatcher) Has(id string) bool {
	_, ok := d.defs[id]
	return ok
}

// IDs returns the registered behavior IDs in sorted order.
func (d *Dispatcher) IDs() []string {
	ids := make([]string, 0, len(d.defs))
	for id := range d.defs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Apply computes the agent's new velocity after using a behavior.
func (d *Dispatcher) Apply(id string, agent AgentState) (vecmath.Vec3, error) {
	def, err := d.Lookup(id)
	if err != nil {
		return agent.Velocity, err
	}
	return effects[def.Kind](def, agent), nil
}
