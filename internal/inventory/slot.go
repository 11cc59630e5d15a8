package inventory

// Slot is one inventory cell. The zero value is an empty slot.
type Slot struct {
	ItemID   string
	Quantity int
}

// Empty reports whether the slot holds nothing.
func (s Slot) Empty() bool { return s.ItemID == "" }
