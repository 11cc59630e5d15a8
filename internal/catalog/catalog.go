// Package catalog holds the read-only item definitions the inventory refers to.
package catalog

import (
	"errors"
	"os"
	"slices"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Error codes attached to catalog errors.
const (
	CodeUnknownItem    = "UNKNOWN_ITEM"
	CodeInvalidCatalog = "INVALID_CATALOG"
)

var (
	// ErrUnknownItem is wrapped by Lookup when an ID is not registered.
	ErrUnknownItem = errors.New("unknown item")
	// ErrInvalidCatalog is wrapped by Load when the item file is malformed.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// DefaultMaxStackSize applies when an item omits max_stack.
const DefaultMaxStackSize = 64

// ItemDefinition describes one item type. Values are immutable once loaded.
type ItemDefinition struct {
	ID            string `yaml:"id"`
	DisplayName   string `yaml:"name"`
	Description   string `yaml:"description"`
	MaxStackSize  int    `yaml:"max_stack"`
	UseBehaviorID string `yaml:"use"`
	Glyph         string `yaml:"glyph"`
}

// Catalog is a lookup table of item definitions keyed by ID.
type Catalog struct {
	defs map[string]ItemDefinition
	ids  []string
}

type itemFile struct {
	Items []ItemDefinition `yaml:"items"`
}

// Load parses the items section of an item YAML document.
func Load(data []byte) (*Catalog, error) {
	errb := oops.In("catalog").Code(CodeInvalidCatalog)

	var f itemFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errb.Wrapf(errors.Join(ErrInvalidCatalog, err), "parse items")
	}
	return New(f.Items...)
}

// LoadFile reads and parses an item YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.In("catalog").With("path", path).Wrapf(err, "read item file")
	}
	return Load(data)
}

// New builds a catalog from explicit definitions, applying defaults and
// validating each entry.
func New(defs ...ItemDefinition) (*Catalog, error) {
	errb := oops.In("catalog").Code(CodeInvalidCatalog)

	c := &Catalog{defs: make(map[string]ItemDefinition, len(defs))}
	for i, d := range defs {
		if d.ID == "" {
			return nil, errb.With("index", i).Wrapf(ErrInvalidCatalog, "item %d has no id", i)
		}
		if _, dup := c.defs[d.ID]; dup {
			return nil, errb.With("item_id", d.ID).Wrapf(ErrInvalidCatalog, "duplicate item %q", d.ID)
		}
		if d.MaxStackSize == 0 {
			d.MaxStackSize = DefaultMaxStackSize
		}
		if d.MaxStackSize < 1 {
			return nil, errb.With("item_id", d.ID).Wrapf(ErrInvalidCatalog, "item %q: max_stack must be positive, got %d", d.ID, d.MaxStackSize)
		}
		if d.UseBehaviorID == "" {
			return nil, errb.With("item_id", d.ID).Wrapf(ErrInvalidCatalog, "item %q: use behavior is required", d.ID)
		}
		if d.DisplayName == "" {
			d.DisplayName = d.ID
		}
		c.defs[d.ID] = d
		c.ids = append(c.ids, d.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

// Lookup returns the definition for id.
func (c *Catalog) Lookup(id string) (ItemDefinition, error) {
	d, ok := c.defs[id]
	if !ok {
		return ItemDefinition{}, oops.
			In("catalog").
			Code(CodeUnknownItem).
			With("item_id", id).
			Wrapf(ErrUnknownItem, "item %q is not registered", id)
	}
	return d, nil
}

// IDs returns every registered item ID in sorted order.
func (c *Catalog) IDs() []string { return slices.Clone(c.ids) }

// Len returns the number of registered items.
func (c *Catalog) Len() int { return len(c.ids) }
