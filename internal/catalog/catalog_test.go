package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
items:
  - id: cube
    name: Cube
    max_stack: 16
    use: jump
    glyph: "🟦"
  - id: sphere
    use: dash
behaviors:
  - id: jump
    kind: upward_impulse
    force: 10
`

func TestLoad(t *testing.T) {
	c, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"cube", "sphere"}, c.IDs())

	cube, err := c.Lookup("cube")
	require.NoError(t, err)
	assert.Equal(t, "Cube", cube.DisplayName)
	assert.Equal(t, 16, cube.MaxStackSize)
	assert.Equal(t, "jump", cube.UseBehaviorID)

	sphere, err := c.Lookup("sphere")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxStackSize, sphere.MaxStackSize, "omitted max_stack uses the default")
	assert.Equal(t, "sphere", sphere.DisplayName, "omitted name falls back to the id")
}

func TestLookupUnknown(t *testing.T) {
	c, err := New(ItemDefinition{ID: "wood", UseBehaviorID: "none"})
	require.NoError(t, err)

	_, err = c.Lookup("stone")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownItem))

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnknownItem, oopsErr.Code())
	assert.Equal(t, "stone", oopsErr.Context()["item_id"])
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name string
		defs []ItemDefinition
	}{
		{"missing id", []ItemDefinition{{UseBehaviorID: "x"}}},
		{"duplicate id", []ItemDefinition{{ID: "a", UseBehaviorID: "x"}, {ID: "a", UseBehaviorID: "x"}}},
		{"negative stack", []ItemDefinition{{ID: "a", MaxStackSize: -1, UseBehaviorID: "x"}}},
		{"missing behavior", []ItemDefinition{{ID: "a"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.defs...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load([]byte("items: [unterminated"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCatalog))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestIDsReturnsCopy(t *testing.T) {
	c, err := New(ItemDefinition{ID: "a", UseBehaviorID: "x"})
	require.NoError(t, err)
	ids := c.IDs()
	ids[0] = "mutated"
	assert.Equal(t, []string{"a"}, c.IDs())
}
