// Package behavior maps an item's use-behavior ID to its effect on the agent.
//
// The set of effect kinds is closed: each Kind indexes a fixed table of pure
// functions from (definition, agent state) to the agent's new velocity.
package behavior

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"satchel/internal/vecmath"
)

// Error codes attached to dispatch errors.
const (
	CodeUnknownBehavior = "UNKNOWN_BEHAVIOR"
	CodeInvalidBehavior = "INVALID_BEHAVIOR"
)

var (
	// ErrUnknownBehavior is wrapped by Apply when an ID is not registered.
	ErrUnknownBehavior = errors.New("unknown behavior")
	// ErrInvalidBehavior is wrapped by Load for malformed behavior tables.
	ErrInvalidBehavior = errors.New("invalid behavior")
)

// Kind enumerates the effect variants.
type Kind uint8

const (
	KindUpwardImpulse Kind = iota
	KindForwardImpulse
	kindCount
)

var kindNames = [kindCount]string{
	KindUpwardImpulse:  "upward_impulse",
	KindForwardImpulse: "forward_impulse",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind converts a YAML kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, oops.In("behavior").Code(CodeInvalidBehavior).With("kind", s).
		Wrapf(ErrInvalidBehavior, "unknown behavior kind %q", s)
}

// UnmarshalYAML accepts kind names such as "upward_impulse".
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Definition binds a behavior ID to a kind and its magnitude.
type Definition struct {
	ID    string  `yaml:"id"`
	Kind  Kind    `yaml:"kind"`
	Force float64 `yaml:"force"`
}

// AgentState is the slice of physics state a behavior reads.
type AgentState struct {
	Velocity vecmath.Vec3
	Forward  vecmath.Vec3
}

type effectFunc func(def Definition, agent AgentState) vecmath.Vec3

// effects is indexed by Kind; a zero entry is a programming error caught by
// the package tests.
var effects = [kindCount]effectFunc{
	KindUpwardImpulse:  upwardImpulse,
	KindForwardImpulse: forwardImpulse,
}

// upwardImpulse replaces the velocity with a straight vertical launch.
func upwardImpulse(def Definition, _ AgentState) vecmath.Vec3 {
	return vecmath.Vec3{Y: def.Force}
}

// forwardImpulse sets horizontal velocity along the agent's flattened facing,
// keeping vertical velocity.
func forwardImpulse(def Definition, agent AgentState) vecmath.Vec3 {
	dir := agent.Forward.Flatten().Normalize().Scale(def.Force)
	return vecmath.Vec3{X: dir.X, Y: agent.Velocity.Y, Z: dir.Z}
}
