package assets

import (
	"github.com/samber/oops"

	"satchel/internal/behavior"
	"satchel/internal/catalog"
)

// Load returns the item catalog and behavior table from the YAML file at
// path, or from the built-in ItemsYAML when path is empty. Every item's
// use behavior must exist in the table.
func Load(path string) (*catalog.Catalog, *behavior.Dispatcher, error) {
	var (
		cat *catalog.Catalog
		beh *behavior.Dispatcher
		err error
	)
	if path == "" {
		cat, err = catalog.Load(ItemsYAML)
		if err == nil {
			beh, err = behavior.Load(ItemsYAML)
		}
	} else {
		cat, err = catalog.LoadFile(path)
		if err == nil {
			beh, err = behavior.LoadFile(path)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	if err := checkBehaviors(cat, beh); err != nil {
		return nil, nil, err
	}
	return cat, beh, nil
}

// checkBehaviors fails when an item names a behavior the table lacks.
func checkBehaviors(cat *catalog.Catalog, beh *behavior.Dispatcher) error {
	for _, id := range cat.IDs() {
		def, err := cat.Lookup(id)
		if err != nil {
			return err
		}
		if !beh.Has(def.UseBehaviorID) {
			return oops.
				In("assets").
				Code(catalog.CodeInvalidCatalog).
				With("item_id", id, "behavior_id", def.UseBehaviorID).
				Wrapf(catalog.ErrInvalidCatalog, "item %q uses unknown behavior %q", id, def.UseBehaviorID)
		}
	}
	return nil
}
